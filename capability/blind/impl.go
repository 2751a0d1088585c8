package blind

import (
	"context"
	"github.com/shimmeringbee/aha/capability"
)

var _ capability.Decoder = (*Implementation)(nil)

func NewBlind(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

// Implementation drives roller blinds, the position itself is reported through the level capability.
type Implementation struct {
	d *capability.Device

	EndPositionsSet *bool
}

func (i *Implementation) ImplName() string {
	return "AHABlind"
}

func (i *Implementation) Supported() bool {
	return i.d.Has(capability.Blind)
}

func (i *Implementation) Decode(n *capability.Node) {
	i.EndPositionsSet = capability.Bool(n, "blind", "endpositionsset")
}

func (i *Implementation) Open(ctx context.Context, wait bool) error {
	return i.target(ctx, "open", wait)
}

func (i *Implementation) Close(ctx context.Context, wait bool) error {
	return i.target(ctx, "close", wait)
}

func (i *Implementation) Stop(ctx context.Context, wait bool) error {
	return i.target(ctx, "stop", wait)
}

func (i *Implementation) target(ctx context.Context, target string, wait bool) error {
	if !i.Supported() {
		return capability.ErrDeviceDoesNotHaveCapability
	}

	_, err := i.d.Send(ctx, "setblind", map[string]string{"target": target}, wait)
	return err
}
