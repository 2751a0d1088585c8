package on_off

import (
	"context"
	"github.com/shimmeringbee/aha/capability"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
)

var _ capability.Decoder = (*Implementation)(nil)
var _ da.BasicCapability = (*Implementation)(nil)

func NewOnOff(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

// Implementation is a switchable outlet, or any non light device which reports simpleonoff.
type Implementation struct {
	d *capability.Device

	State      *bool
	Mode       *string
	Lock       *bool
	DeviceLock *bool
}

func (i *Implementation) Capability() da.Capability {
	return capabilities.OnOffFlag
}

func (i *Implementation) Name() string {
	return capabilities.StandardNames[capabilities.OnOffFlag]
}

func (i *Implementation) ImplName() string {
	return "AHASwitch"
}

func (i *Implementation) Supported() bool {
	return i.d.Has(capability.Switch) || (i.d.Has(capability.Switchable) && !i.d.Has(capability.LightBulb))
}

func (i *Implementation) Decode(n *capability.Node) {
	if i.d.Has(capability.Switch) {
		i.State = capability.Bool(n, "switch", "state")
		i.Mode = capability.String(n, "switch", "mode")
		i.Lock = capability.Bool(n, "switch", "lock")
		i.DeviceLock = capability.Bool(n, "switch", "devicelock")
	} else {
		i.State = capability.Bool(n, "simpleonoff", "state")
		i.Mode = nil
		i.Lock = nil
		i.DeviceLock = nil
	}
}

func (i *Implementation) On(ctx context.Context, wait bool) error {
	return i.send(ctx, "setswitchon", wait)
}

func (i *Implementation) Off(ctx context.Context, wait bool) error {
	return i.send(ctx, "setswitchoff", wait)
}

func (i *Implementation) Toggle(ctx context.Context, wait bool) error {
	return i.send(ctx, "setswitchtoggle", wait)
}

// QueryState asks the gateway for the live switch state, nil if the gateway does not know.
func (i *Implementation) QueryState(ctx context.Context) (*bool, error) {
	if !i.Supported() {
		return nil, capability.ErrDeviceDoesNotHaveCapability
	}

	resp, err := i.d.Send(ctx, "getswitchstate", nil, false)
	if err != nil {
		return nil, err
	}

	return capability.ParseBoolResponse(resp), nil
}

func (i *Implementation) send(ctx context.Context, verb string, wait bool) error {
	if !i.Supported() {
		return capability.ErrDeviceDoesNotHaveCapability
	}

	_, err := i.d.Send(ctx, verb, nil, wait)
	return err
}
