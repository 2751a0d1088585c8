package aha

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/aha/capability"
	"strings"
)

// Trigger is a gateway automation rule, triggers carry no capability mask.
type Trigger struct {
	capability.Device

	Active bool
}

func newTrigger(gw capability.Gateway) *Trigger {
	t := &Trigger{}
	t.Gateway = gw
	return t
}

func (t *Trigger) Update(n *capability.Node) error {
	identifier, found := n.Attr("identifier")
	if !found || strings.TrimSpace(identifier) == "" {
		return fmt.Errorf("%w: identifier on <%s>", capability.ErrMissingAttribute, n.Name())
	}

	t.Write(func() {
		t.Entity = capability.Entity{
			Identifier: strings.TrimSpace(identifier),
			Name:       n.ChildValue("name"),
		}
		t.Active = n.AttrOr("active", "") == "1"
	})

	return nil
}

func (t *Trigger) SetActive(ctx context.Context, active bool, wait bool) error {
	value := "0"
	if active {
		value = "1"
	}

	_, err := t.Send(ctx, "settriggeractive", map[string]string{"active": value}, wait)
	return err
}
