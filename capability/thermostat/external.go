package thermostat

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/aha/capability"
	"strconv"
	"time"
)

// rawTarget converts celsius into the half degree parameter, anything below 8 is off and above 27.5 is on.
func rawTarget(celsius float64) int {
	raw := 16 + (celsius-8)*2

	switch {
	case raw < 16:
		return rawOff
	case raw > 55:
		return rawOn
	default:
		return int(raw)
	}
}

func (i *Implementation) SetTarget(ctx context.Context, celsius float64, wait bool) error {
	if !i.Supported() {
		return capability.ErrDeviceDoesNotHaveCapability
	}

	_, err := i.d.Send(ctx, "sethkrtsoll", map[string]string{"param": strconv.Itoa(rawTarget(celsius))}, wait)
	return err
}

// SetState sets one of the symbolic states, eco and comfort use the last decoded temperatures.
func (i *Implementation) SetState(ctx context.Context, state string, wait bool) error {
	var target *float64

	switch state {
	case StateOff:
		target = capability.Ptr(0.0)
	case StateOn:
		target = capability.Ptr(100.0)
	case StateEco:
		i.d.Read(func() { target = i.Eco })
	case StateComfort:
		i.d.Read(func() { target = i.Comfort })
	default:
		return fmt.Errorf("unknown thermostat state: %s", state)
	}

	if target == nil {
		return fmt.Errorf("thermostat state %s has no known temperature", state)
	}

	return i.SetTarget(ctx, *target, wait)
}

// SetWindowOpen marks the window as open for the duration, zero clears it.
func (i *Implementation) SetWindowOpen(ctx context.Context, d time.Duration, wait bool) error {
	return i.setUntil(ctx, "sethkrwindowopen", d, wait)
}

// SetBoost boosts heating for the duration, zero clears it.
func (i *Implementation) SetBoost(ctx context.Context, d time.Duration, wait bool) error {
	if d > MaximumBoost {
		return fmt.Errorf("boost of %s exceeds maximum of %s", d, MaximumBoost)
	}

	return i.setUntil(ctx, "sethkrboost", d, wait)
}

func (i *Implementation) setUntil(ctx context.Context, verb string, d time.Duration, wait bool) error {
	if !i.Supported() {
		return capability.ErrDeviceDoesNotHaveCapability
	}

	if d < 0 {
		return fmt.Errorf("%s: negative duration %s", verb, d)
	}

	end := int64(0)
	if d > 0 {
		end = i.d.Time().Add(d).Unix()
	}

	_, err := i.d.Send(ctx, verb, map[string]string{"endtimestamp": strconv.FormatInt(end, 10)}, wait)
	return err
}

func (i *Implementation) QueryTarget(ctx context.Context) (*float64, error) {
	return i.query(ctx, "gethkrtsoll")
}

func (i *Implementation) QueryComfort(ctx context.Context) (*float64, error) {
	return i.query(ctx, "gethkrkomfort")
}

func (i *Implementation) QueryEco(ctx context.Context) (*float64, error) {
	return i.query(ctx, "gethkrabsenk")
}

func (i *Implementation) query(ctx context.Context, verb string) (*float64, error) {
	if !i.Supported() {
		return nil, capability.ErrDeviceDoesNotHaveCapability
	}

	resp, err := i.d.Send(ctx, verb, nil, false)
	if err != nil {
		return nil, err
	}

	raw := capability.ParseIntResponse(resp)
	if raw == nil {
		return nil, nil
	}

	return capability.Ptr(float64(*raw) / 2), nil
}
