package power_supply

import (
	"context"
	"github.com/shimmeringbee/aha/capability"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
)

var _ capability.Decoder = (*Implementation)(nil)
var _ da.BasicCapability = (*Implementation)(nil)

func NewPowerSupply(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

// Implementation reports battery state, radiator controllers report it inside the hkr element which takes
// precedence over the device level values.
type Implementation struct {
	d *capability.Device

	// Level is the remaining charge in percent.
	Level *int
	Low   *bool
}

func (i *Implementation) Capability() da.Capability {
	return capabilities.PowerSupplyFlag
}

func (i *Implementation) Name() string {
	return capabilities.StandardNames[i.Capability()]
}

func (i *Implementation) ImplName() string {
	return "AHAPowerSupply"
}

// Supported is always true, battery elements are not announced by the function bitmask.
func (i *Implementation) Supported() bool {
	return true
}

func (i *Implementation) Decode(n *capability.Node) {
	i.Level = capability.Int(n, "battery")
	i.Low = capability.Bool(n, "batterylow")

	if !i.d.Has(capability.Thermostat) {
		return
	}

	if low := capability.Bool(n, "hkr", "batterylow"); low != nil {
		i.Low = low
		i.Level = capability.Int(n, "hkr", "battery")
	}
}

func (i *Implementation) Status(_ context.Context) (capabilities.PowerStatus, error) {
	var status capabilities.PowerStatus
	var err error

	i.d.Read(func() {
		if i.Level == nil {
			err = capability.ErrDeviceDoesNotHaveCapability
			return
		}

		status.Battery = []capabilities.PowerBatteryStatus{
			{
				Remaining: float64(*i.Level) / 100,
				Present:   capabilities.Available | capabilities.Remaining,
			},
		}
	})

	return status, err
}
