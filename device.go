package aha

import (
	"github.com/shimmeringbee/aha/capability"
	"github.com/shimmeringbee/aha/capability/alarm_sensor"
	"github.com/shimmeringbee/aha/capability/blind"
	"github.com/shimmeringbee/aha/capability/button"
	"github.com/shimmeringbee/aha/capability/level"
	"github.com/shimmeringbee/aha/capability/light"
	"github.com/shimmeringbee/aha/capability/on_off"
	"github.com/shimmeringbee/aha/capability/power_meter"
	"github.com/shimmeringbee/aha/capability/power_supply"
	"github.com/shimmeringbee/aha/capability/product_information"
	"github.com/shimmeringbee/aha/capability/relative_humidity_sensor"
	"github.com/shimmeringbee/aha/capability/repeater"
	"github.com/shimmeringbee/aha/capability/temperature_sensor"
	"github.com/shimmeringbee/aha/capability/thermostat"
	"strings"
)

// Device is a physical device or group with every capability attached, only those whose capability test passes
// are decoded.
type Device struct {
	capability.Device

	ID              string
	FirmwareVersion string
	Manufacturer    string
	ProductName     string
	Present         bool
	TxBusy          *bool
	BatteryLow      *bool
	BatteryLevel    *int

	IsGroup        bool
	GroupMembers   []string
	MasterDeviceID *string

	// Room is taken from the device.room setting of the matching rule.
	Room        string
	waitForIdle bool

	Alarm       *alarm_sensor.Implementation
	Blind       *blind.Implementation
	Button      *button.Implementation
	Humidity    *relative_humidity_sensor.Implementation
	Level       *level.Implementation
	Light       *light.Implementation
	PowerMeter  *power_meter.Implementation
	PowerSupply *power_supply.Implementation
	Product     *product_information.Implementation
	Repeater    *repeater.Implementation
	Switch      *on_off.Implementation
	Temperature *temperature_sensor.Implementation
	Thermostat  *thermostat.Implementation

	decoders []capability.Decoder
}

// NewDevice creates an empty device, it is normally created by the client when first listed.
func NewDevice(gw capability.Gateway) *Device {
	d := &Device{waitForIdle: true}
	d.Gateway = gw

	cd := &d.Device

	d.Alarm = alarm_sensor.NewAlarmSensor(cd)
	d.Blind = blind.NewBlind(cd)
	d.Button = button.NewButton(cd)
	d.Humidity = relative_humidity_sensor.NewRelativeHumiditySensor(cd)
	d.Level = level.NewLevel(cd)
	d.Light = light.NewLight(cd)
	d.PowerMeter = power_meter.NewPowerMeter(cd)
	d.PowerSupply = power_supply.NewPowerSupply(cd)
	d.Product = product_information.NewProductInformation(cd)
	d.Repeater = repeater.NewRepeater(cd)
	d.Switch = on_off.NewOnOff(cd)
	d.Temperature = temperature_sensor.NewTemperatureSensor(cd)
	d.Thermostat = thermostat.NewThermostat(cd)

	d.decoders = []capability.Decoder{
		d.Alarm,
		d.Blind,
		d.Button,
		d.Humidity,
		d.Level,
		d.Light,
		d.PowerMeter,
		d.PowerSupply,
		d.Repeater,
		d.Switch,
		d.Temperature,
		d.Thermostat,
	}

	return d
}

// Update decodes a <device> or <group> element into the device. Identity is validated before anything is
// changed, capabilities of an absent device keep their last known values. Product information only reads identity
// attributes and is refreshed regardless of presence.
func (d *Device) Update(n *capability.Node) error {
	entity, err := capability.DecodeEntity(n)
	if err != nil {
		return err
	}

	d.Write(func() {
		d.Entity = entity

		d.ID = n.AttrOr("id", "")
		d.FirmwareVersion = n.AttrOr("fwversion", "")
		d.Manufacturer = n.AttrOr("manufacturer", "")
		d.ProductName = n.AttrOr("productname", "")
		d.Present = n.ChildValue("present") == "1"
		d.TxBusy = capability.Bool(n, "txbusy")
		d.BatteryLow = capability.Bool(n, "batterylow")
		d.BatteryLevel = capability.Int(n, "battery")

		d.decodeGroup(n.Child("groupinfo"))
		d.Product.Decode(n)

		if !d.Present {
			return
		}

		for _, dec := range d.decoders {
			if dec.Supported() {
				dec.Decode(n)
			}
		}

		d.BatteryLow = d.PowerSupply.Low
		d.BatteryLevel = d.PowerSupply.Level
	})

	return nil
}

func (d *Device) decodeGroup(gi *capability.Node) {
	d.IsGroup = gi != nil
	d.GroupMembers = nil
	d.MasterDeviceID = nil

	if gi == nil {
		return
	}

	d.MasterDeviceID = capability.String(gi, "masterdeviceid")

	for _, m := range strings.Split(gi.ChildValue("members"), ",") {
		if m = strings.TrimSpace(m); m != "" {
			d.GroupMembers = append(d.GroupMembers, m)
		}
	}
}

// View gives f a consistent view of the device while no update can run. Inside f fields and mixins are read
// directly, the Has and Capability accessors take the lock themselves and must not be called.
func (d *Device) View(f func(*Device)) {
	d.Read(func() {
		f(d)
	})
}

// WaitForIdle is the default for waiting on commands sent from tools acting on this device, it is disabled with the
// busy.wait setting of a rule.
func (d *Device) WaitForIdle() bool {
	var wait bool

	d.Read(func() {
		wait = d.waitForIdle
	})

	return wait
}

func (d *Device) has(test func() bool) bool {
	var ok bool

	d.Read(func() {
		ok = test()
	})

	return ok
}

func (d *Device) HasAlarm() bool {
	return d.has(d.Alarm.Supported)
}

func (d *Device) HasBlind() bool {
	return d.has(d.Blind.Supported)
}

func (d *Device) HasButton() bool {
	return d.has(d.Button.Supported)
}

func (d *Device) HasHumidity() bool {
	return d.has(d.Humidity.Supported)
}

func (d *Device) HasLevel() bool {
	return d.has(d.Level.Supported)
}

func (d *Device) HasLight() bool {
	return d.has(d.Light.Supported)
}

func (d *Device) HasColor() bool {
	return d.has(d.Light.HasColor)
}

func (d *Device) HasPowerMeter() bool {
	return d.has(d.PowerMeter.Supported)
}

func (d *Device) HasRepeater() bool {
	return d.has(d.Repeater.Supported)
}

func (d *Device) HasSwitch() bool {
	return d.has(d.Switch.Supported)
}

func (d *Device) HasTemperature() bool {
	return d.has(d.Temperature.Supported)
}

func (d *Device) HasThermostat() bool {
	return d.has(d.Thermostat.Supported)
}
