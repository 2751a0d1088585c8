package aha

import (
	"github.com/shimmeringbee/aha/capability"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
)

// CapabilityNames lists the capabilities the device passes the test for, named as capability.FlagNames.
func (d *Device) CapabilityNames() []string {
	var names []string

	d.Read(func() {
		names = d.capabilityNames()
	})

	return names
}

func (d *Device) capabilityNames() []string {
	var names []string

	tests := []struct {
		flag capability.Flag
		has  func() bool
	}{
		{capability.LightBulb, d.Light.Supported},
		{capability.Alarm, d.Alarm.Supported},
		{capability.Button, d.Button.Supported},
		{capability.Thermostat, d.Thermostat.Supported},
		{capability.PowerMeter, d.PowerMeter.Supported},
		{capability.Temperature, d.Temperature.Supported},
		{capability.Switch, d.Switch.Supported},
		{capability.DECTRepeater, d.Repeater.Supported},
		{capability.Level, d.Level.Supported},
		{capability.Color, d.Light.HasColor},
		{capability.Blind, d.Blind.Supported},
		{capability.Humidity, d.Humidity.Supported},
	}

	for _, t := range tests {
		if t.has() {
			names = append(names, t.flag.String())
		}
	}

	return names
}

// Capabilities maps the device onto the equivalent da capabilities, AHA capabilities with no equivalent are
// omitted.
func (d *Device) Capabilities() []da.Capability {
	var caps []da.Capability

	d.Read(func() {
		caps = d.capabilities()
	})

	return caps
}

func (d *Device) capabilities() []da.Capability {
	var caps []da.Capability

	if d.Product.Known() {
		caps = append(caps, capabilities.ProductInformationFlag)
	}

	if d.Switch.Supported() || d.Light.Supported() {
		caps = append(caps, capabilities.OnOffFlag)
	}

	if d.Level.Supported() {
		caps = append(caps, capabilities.LevelFlag)
	}

	if d.Light.HasColor() {
		caps = append(caps, capabilities.ColorFlag)
	}

	if d.Temperature.Supported() {
		caps = append(caps, capabilities.TemperatureSensorFlag)
	}

	if d.Humidity.Supported() {
		caps = append(caps, capabilities.RelativeHumiditySensorFlag)
	}

	if d.Alarm.Supported() {
		caps = append(caps, capabilities.AlarmSensorFlag)
	}

	if d.BatteryLevel != nil {
		caps = append(caps, capabilities.PowerSupplyFlag)
	}

	return caps
}

func (d *Device) HasCapability(c da.Capability) bool {
	var found bool

	d.Read(func() {
		found = d.hasCapability(c)
	})

	return found
}

func (d *Device) hasCapability(c da.Capability) bool {
	for _, dc := range d.capabilities() {
		if dc == c {
			return true
		}
	}

	return false
}

// Capability returns the capability implementation for a da capability, nil if the device does not have it.
func (d *Device) Capability(c da.Capability) interface{} {
	var impl interface{}

	d.Read(func() {
		if d.hasCapability(c) {
			impl = d.capability(c)
		}
	})

	return impl
}

func (d *Device) capability(c da.Capability) interface{} {
	switch c {
	case capabilities.OnOffFlag:
		if d.Switch.Supported() {
			return d.Switch
		}
		return d.Light
	case capabilities.LevelFlag:
		return d.Level
	case capabilities.ColorFlag:
		return d.Light
	case capabilities.TemperatureSensorFlag:
		return d.Temperature
	case capabilities.RelativeHumiditySensorFlag:
		return d.Humidity
	case capabilities.AlarmSensorFlag:
		return d.Alarm
	case capabilities.PowerSupplyFlag:
		return d.PowerSupply
	case capabilities.ProductInformationFlag:
		return d.Product
	default:
		return nil
	}
}
