package alarm_sensor

import (
	"github.com/shimmeringbee/aha/capability"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
)

var _ capability.Decoder = (*Implementation)(nil)
var _ da.BasicCapability = (*Implementation)(nil)

func NewAlarmSensor(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

type Implementation struct {
	d *capability.Device

	State *bool
}

func (i *Implementation) Capability() da.Capability {
	return capabilities.AlarmSensorFlag
}

func (i *Implementation) Name() string {
	return capabilities.StandardNames[capabilities.AlarmSensorFlag]
}

func (i *Implementation) ImplName() string {
	return "AHAAlarmSensor"
}

func (i *Implementation) Supported() bool {
	return i.d.Has(capability.Alarm)
}

func (i *Implementation) Decode(n *capability.Node) {
	i.State = capability.Bool(n, "alert", "state")
}
