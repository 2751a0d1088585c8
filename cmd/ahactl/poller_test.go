package main

import (
	"context"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/stretchr/testify/assert"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoller(t *testing.T) {
	t.Run("jobs are called after at least the initial delay, and then called repeatedly", func(t *testing.T) {
		p := newPoller(logwrap.New(discard.Discard()))
		p.Start()
		defer p.Stop()

		var called int32

		p.Add("test", 5*time.Millisecond, func(ctx context.Context) error {
			atomic.AddInt32(&called, 1)
			return nil
		})

		time.Sleep(50 * time.Millisecond)

		assert.Greater(t, atomic.LoadInt32(&called), int32(1))
	})

	t.Run("jobs are rescheduled rather than dropped when the backlog is full", func(t *testing.T) {
		p := newPoller(logwrap.New(discard.Discard()))
		p.pollerWork = make(chan pollerWork, 1)
		p.pollerWork <- pollerWork{name: "blocking"}

		p.schedule(0, pollerWork{name: "test", interval: 5 * time.Millisecond})
		time.Sleep(10 * time.Millisecond)

		assert.Equal(t, "blocking", (<-p.pollerWork).name)

		select {
		case work := <-p.pollerWork:
			assert.Equal(t, "test", work.name)
		case <-time.After(100 * time.Millisecond):
			assert.Fail(t, "job was not rescheduled")
		}
	})

	t.Run("jobs are not rescheduled once stopped", func(t *testing.T) {
		p := newPoller(logwrap.New(discard.Discard()))
		p.Start()

		var called int32

		p.Add("test", 5*time.Millisecond, func(ctx context.Context) error {
			atomic.AddInt32(&called, 1)
			return nil
		})

		time.Sleep(20 * time.Millisecond)
		p.Stop()
		time.Sleep(10 * time.Millisecond)

		stoppedAt := atomic.LoadInt32(&called)
		time.Sleep(20 * time.Millisecond)

		assert.Equal(t, stoppedAt, atomic.LoadInt32(&called))
	})
}
