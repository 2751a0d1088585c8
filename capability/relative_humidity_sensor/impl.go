package relative_humidity_sensor

import (
	"github.com/shimmeringbee/aha/capability"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
)

var _ capability.Decoder = (*Implementation)(nil)
var _ da.BasicCapability = (*Implementation)(nil)

func NewRelativeHumiditySensor(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

type Implementation struct {
	d *capability.Device

	// RelativeHumidity in percent.
	RelativeHumidity *int
}

func (i *Implementation) Capability() da.Capability {
	return capabilities.RelativeHumiditySensorFlag
}

func (i *Implementation) Name() string {
	return capabilities.StandardNames[capabilities.RelativeHumiditySensorFlag]
}

func (i *Implementation) ImplName() string {
	return "AHAHumiditySensor"
}

func (i *Implementation) Supported() bool {
	return i.d.Has(capability.Humidity)
}

func (i *Implementation) Decode(n *capability.Node) {
	i.RelativeHumidity = capability.Int(n, "humidity", "rel_humidity")
}
