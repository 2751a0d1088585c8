package repeater

import "github.com/shimmeringbee/aha/capability"

var _ capability.Decoder = (*Implementation)(nil)

func NewRepeater(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

// Implementation marks DECT repeaters, which report no state of their own.
type Implementation struct {
	d *capability.Device
}

func (i *Implementation) ImplName() string {
	return "AHARepeater"
}

func (i *Implementation) Supported() bool {
	return i.d.Has(capability.DECTRepeater)
}

func (i *Implementation) Decode(_ *capability.Node) {}
