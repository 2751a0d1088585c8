package aha

import (
	"context"
	"github.com/shimmeringbee/aha/capability"
	"github.com/shimmeringbee/logwrap"
	"strings"
	"sync"
)

type updatable interface {
	Update(*capability.Node) error
}

// table owns every entity of one kind keyed by identifier, it is the only place entities are created or
// destroyed.
type table[T updatable] struct {
	m       *sync.RWMutex
	entries map[string]T
	order   []string

	create func() T
	logger logwrap.Logger
}

func newTable[T updatable](logger logwrap.Logger, create func() T) *table[T] {
	return &table[T]{
		m:       &sync.RWMutex{},
		entries: map[string]T{},
		create:  create,
		logger:  logger,
	}
}

// reconcile updates known entities in place, creates new ones and, if prune is set, removes any not present in
// nodes. An element that fails to decode is skipped; if its identifier could be read it still counts as seen.
func (t *table[T]) reconcile(ctx context.Context, nodes []*capability.Node, prune bool) ([]T, []T) {
	t.m.Lock()
	defer t.m.Unlock()

	var added, removed []T
	seen := map[string]bool{}

	for _, n := range nodes {
		identifier, _ := n.Attr("identifier")
		identifier = strings.TrimSpace(identifier)

		if identifier != "" {
			seen[identifier] = true
		}

		if existing, found := t.entries[identifier]; found && identifier != "" {
			if err := existing.Update(n); err != nil {
				t.logger.LogWarn(ctx, "Failed to update entity, keeping previous state.", logwrap.Datum("identifier", identifier), logwrap.Err(err))
			}
			continue
		}

		e := t.create()
		if err := e.Update(n); err != nil {
			t.logger.LogWarn(ctx, "Skipping malformed element.", logwrap.Datum("element", n.Name()), logwrap.Datum("identifier", identifier), logwrap.Err(err))
			continue
		}

		t.entries[identifier] = e
		t.order = append(t.order, identifier)
		added = append(added, e)
	}

	if prune {
		var kept []string

		for _, identifier := range t.order {
			if seen[identifier] {
				kept = append(kept, identifier)
				continue
			}

			removed = append(removed, t.entries[identifier])
			delete(t.entries, identifier)
		}

		t.order = kept
	}

	return added, removed
}

func (t *table[T]) get(identifier string) (T, bool) {
	t.m.RLock()
	defer t.m.RUnlock()

	e, found := t.entries[identifier]
	return e, found
}

// all returns entities in the order they were first seen.
func (t *table[T]) all() []T {
	t.m.RLock()
	defer t.m.RUnlock()

	entries := make([]T, 0, len(t.order))

	for _, identifier := range t.order {
		entries = append(entries, t.entries[identifier])
	}

	return entries
}
