package capability

import (
	"context"
	"errors"
	"fmt"
	"github.com/shimmeringbee/retry"
	"sync"
	"time"
)

const (
	DefaultBusyAttempts = 10
	DefaultBusyInterval = 200 * time.Millisecond
	DefaultBusyTimeout  = 5 * time.Second
)

// Device is the identity every capability mixin of a device shares, re-decoded in place as new snapshots
// arrive.
type Device struct {
	Entity

	Gateway Gateway
	Now     func() time.Time

	BusyAttempts int
	BusyInterval time.Duration
	// BusyTimeout bounds each busy query, the interval between queries is not part of it.
	BusyTimeout time.Duration

	m sync.RWMutex
}

// Write runs f while holding the device's write lock, state fields must only be changed inside it.
func (d *Device) Write(f func()) {
	d.m.Lock()
	defer d.m.Unlock()

	f()
}

func (d *Device) Read(f func()) {
	d.m.RLock()
	defer d.m.RUnlock()

	f()
}

func (d *Device) Time() time.Time {
	if d.Now != nil {
		return d.Now()
	}

	return time.Now()
}

// Send issues a command for this device, optionally waiting until the gateway reports it is no longer busy.
func (d *Device) Send(ctx context.Context, verb string, params map[string]string, wait bool) (string, error) {
	if d.Gateway == nil {
		return "", fmt.Errorf("%s: no gateway attached to %s", verb, d.Identifier)
	}

	resp, err := d.Gateway.Command(ctx, verb, d.Identifier, params)
	if err != nil {
		return "", err
	}

	if wait {
		if err := d.WaitUntilIdle(ctx); err != nil {
			return resp, err
		}
	}

	return resp, nil
}

func (d *Device) WaitUntilIdle(ctx context.Context) error {
	attempts := d.BusyAttempts
	if attempts <= 0 {
		attempts = DefaultBusyAttempts
	}

	interval := d.BusyInterval
	if interval <= 0 {
		interval = DefaultBusyInterval
	}

	timeout := d.BusyTimeout
	if timeout <= 0 {
		timeout = DefaultBusyTimeout
	}

	stillBusy := false

	err := retry.Retry(ctx, timeout, attempts, func(attemptCtx context.Context) error {
		busy, err := d.Gateway.Busy(attemptCtx, d.Identifier)
		if err != nil {
			stillBusy = false
			return err
		}

		stillBusy = busy
		if !busy {
			return nil
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return ctx.Err()
		}

		return ErrStillBusy
	})

	if err != nil {
		if stillBusy || errors.Is(err, ErrStillBusy) {
			return fmt.Errorf("%s: %w", d.Identifier, ErrStillBusy)
		}

		return err
	}

	return nil
}
