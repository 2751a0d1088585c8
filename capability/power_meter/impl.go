package power_meter

import (
	"context"
	"github.com/shimmeringbee/aha/capability"
)

var _ capability.Decoder = (*Implementation)(nil)

func NewPowerMeter(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

type Implementation struct {
	d *capability.Device

	// Power in milliwatts.
	Power *int
	// Energy in watt hours since the meter was reset.
	Energy *int
	// Voltage in volts.
	Voltage *float64
	// Current in milliamperes, derived from power and voltage.
	Current *float64
}

func (i *Implementation) ImplName() string {
	return "AHAPowerMeter"
}

func (i *Implementation) Supported() bool {
	return i.d.Has(capability.PowerMeter)
}

func (i *Implementation) Decode(n *capability.Node) {
	i.Power = capability.Int(n, "powermeter", "power")
	i.Energy = capability.Int(n, "powermeter", "energy")

	rawVoltage := capability.Int(n, "powermeter", "voltage")
	if rawVoltage == nil {
		i.Voltage = nil
	} else {
		i.Voltage = capability.Ptr(float64(*rawVoltage) / 1000)
	}

	if i.Power != nil && rawVoltage != nil && *rawVoltage > 0 {
		i.Current = capability.Ptr(float64(*i.Power) / float64(*rawVoltage) * 1000)
	} else {
		i.Current = nil
	}
}

// QueryPower fetches live power in milliwatts.
func (i *Implementation) QueryPower(ctx context.Context) (*int, error) {
	return i.query(ctx, "getswitchpower")
}

// QueryEnergy fetches live energy in watt hours.
func (i *Implementation) QueryEnergy(ctx context.Context) (*int, error) {
	return i.query(ctx, "getswitchenergy")
}

func (i *Implementation) query(ctx context.Context, verb string) (*int, error) {
	if !i.Supported() {
		return nil, capability.ErrDeviceDoesNotHaveCapability
	}

	resp, err := i.d.Send(ctx, verb, nil, false)
	if err != nil {
		return nil, err
	}

	return capability.ParseIntResponse(resp), nil
}
