package temperature_sensor

import (
	"context"
	"github.com/shimmeringbee/aha/capability"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
)

var _ capability.Decoder = (*Implementation)(nil)
var _ da.BasicCapability = (*Implementation)(nil)

func NewTemperatureSensor(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

type Implementation struct {
	d *capability.Device

	Celsius *float64
	Offset  *float64
}

func (i *Implementation) Capability() da.Capability {
	return capabilities.TemperatureSensorFlag
}

func (i *Implementation) Name() string {
	return capabilities.StandardNames[capabilities.TemperatureSensorFlag]
}

func (i *Implementation) ImplName() string {
	return "AHATemperatureSensor"
}

func (i *Implementation) Supported() bool {
	return i.d.Has(capability.Temperature)
}

func (i *Implementation) Decode(n *capability.Node) {
	i.Celsius = capability.Scaled(n, 10, "temperature", "celsius")
	i.Offset = capability.Scaled(n, 10, "temperature", "offset")
}

// Reading converts the last decoded temperature into kelvin.
func (i *Implementation) Reading(_ context.Context) ([]capabilities.TemperatureReading, error) {
	if i.Celsius == nil {
		return nil, nil
	}

	return []capabilities.TemperatureReading{{Value: *i.Celsius + 273.15}}, nil
}

func (i *Implementation) QueryCelsius(ctx context.Context) (*float64, error) {
	if !i.Supported() {
		return nil, capability.ErrDeviceDoesNotHaveCapability
	}

	resp, err := i.d.Send(ctx, "gettemperature", nil, false)
	if err != nil {
		return nil, err
	}

	raw := capability.ParseIntResponse(resp)
	if raw == nil {
		return nil, nil
	}

	return capability.Ptr(float64(*raw) / 10), nil
}
