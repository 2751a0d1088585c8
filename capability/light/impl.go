package light

import (
	"github.com/shimmeringbee/aha/capability"
)

var _ capability.Decoder = (*Implementation)(nil)

func NewLight(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

// Implementation is a light bulb, brightness is handled by the level capability.
type Implementation struct {
	d *capability.Device

	State *bool

	Hue                *int
	Saturation         *int
	UnmappedHue        *int
	UnmappedSaturation *int
	ColorTemperature   *int

	ColorMode           *string
	SupportedColorModes *string
}

func (i *Implementation) ImplName() string {
	return "AHALight"
}

func (i *Implementation) Supported() bool {
	return i.d.Has(capability.LightBulb)
}

func (i *Implementation) HasColor() bool {
	return i.d.Has(capability.Color)
}

func (i *Implementation) Decode(n *capability.Node) {
	i.State = capability.Bool(n, "simpleonoff", "state")

	if !i.HasColor() {
		i.clearColor()
		return
	}

	cc := n.Child("colorcontrol")
	i.ColorMode = attr(cc, "current_mode")
	i.SupportedColorModes = attr(cc, "supported_modes")

	i.Hue = capability.Int(cc, "hue")
	i.Saturation = capability.Int(cc, "saturation")
	i.UnmappedHue = capability.Int(cc, "unmapped_hue")
	i.UnmappedSaturation = capability.Int(cc, "unmapped_saturation")
	i.ColorTemperature = capability.Int(cc, "temperature")
}

func (i *Implementation) clearColor() {
	i.ColorMode = nil
	i.SupportedColorModes = nil
	i.Hue = nil
	i.Saturation = nil
	i.UnmappedHue = nil
	i.UnmappedSaturation = nil
	i.ColorTemperature = nil
}

func attr(n *capability.Node, name string) *string {
	if v, found := n.Attr(name); found {
		return &v
	}

	return nil
}
