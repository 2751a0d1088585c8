package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shimmeringbee/aha"
)

const namespace = "aha"

var _ prometheus.Collector = (*Collector)(nil)

// DeviceLister is satisfied by *aha.Client.
type DeviceLister interface {
	Devices() []*aha.Device
}

// Collector exports the last reconciled state of every device, it never queries the gateway itself.
type Collector struct {
	devices DeviceLister

	present      *prometheus.Desc
	power        *prometheus.Desc
	energy       *prometheus.Desc
	voltage      *prometheus.Desc
	temperature  *prometheus.Desc
	target       *prometheus.Desc
	humidity     *prometheus.Desc
	switchState  *prometheus.Desc
	batteryLevel *prometheus.Desc
	batteryLow   *prometheus.Desc
}

func NewCollector(devices DeviceLister) *Collector {
	labels := []string{"ain", "name"}

	return &Collector{
		devices:      devices,
		present:      prometheus.NewDesc(prometheus.BuildFQName(namespace, "device", "present"), "Whether the device is connected to the gateway.", append(labels, "product"), nil),
		power:        prometheus.NewDesc(prometheus.BuildFQName(namespace, "power", "watts"), "Current power draw.", labels, nil),
		energy:       prometheus.NewDesc(prometheus.BuildFQName(namespace, "energy", "watt_hours_total"), "Energy consumed since the meter was reset.", labels, nil),
		voltage:      prometheus.NewDesc(prometheus.BuildFQName(namespace, "voltage", "volts"), "Current supply voltage.", labels, nil),
		temperature:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "temperature", "celsius"), "Measured temperature including offset.", labels, nil),
		target:       prometheus.NewDesc(prometheus.BuildFQName(namespace, "thermostat", "target_celsius"), "Thermostat target temperature.", labels, nil),
		humidity:     prometheus.NewDesc(prometheus.BuildFQName(namespace, "humidity", "percent"), "Relative humidity.", labels, nil),
		switchState:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "switch", "on"), "Whether the switch is on.", labels, nil),
		batteryLevel: prometheus.NewDesc(prometheus.BuildFQName(namespace, "battery", "percent"), "Battery charge.", labels, nil),
		batteryLow:   prometheus.NewDesc(prometheus.BuildFQName(namespace, "battery", "low"), "Whether the battery is reported low.", labels, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.present
	ch <- c.power
	ch <- c.energy
	ch <- c.voltage
	ch <- c.temperature
	ch <- c.target
	ch <- c.humidity
	ch <- c.switchState
	ch <- c.batteryLevel
	ch <- c.batteryLow
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, d := range c.devices.Devices() {
		d.View(func(d *aha.Device) {
			c.collectDevice(ch, d)
		})
	}
}

func (c *Collector) collectDevice(ch chan<- prometheus.Metric, d *aha.Device) {
	ain, name := d.Identifier, d.Name

	ch <- prometheus.MustNewConstMetric(c.present, prometheus.GaugeValue, boolValue(d.Present), ain, name, d.ProductName)

	if !d.Present {
		return
	}

	gauge := func(desc *prometheus.Desc, v *float64) {
		if v != nil {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, *v, ain, name)
		}
	}

	if d.PowerMeter.Supported() {
		if p := d.PowerMeter.Power; p != nil {
			ch <- prometheus.MustNewConstMetric(c.power, prometheus.GaugeValue, float64(*p)/1000, ain, name)
		}

		if e := d.PowerMeter.Energy; e != nil {
			ch <- prometheus.MustNewConstMetric(c.energy, prometheus.CounterValue, float64(*e), ain, name)
		}

		gauge(c.voltage, d.PowerMeter.Voltage)
	}

	if d.Temperature.Supported() {
		gauge(c.temperature, d.Temperature.Celsius)
	}

	if d.Thermostat.Supported() {
		gauge(c.target, d.Thermostat.Target)
	}

	if d.Humidity.Supported() && d.Humidity.RelativeHumidity != nil {
		ch <- prometheus.MustNewConstMetric(c.humidity, prometheus.GaugeValue, float64(*d.Humidity.RelativeHumidity), ain, name)
	}

	if d.Switch.Supported() && d.Switch.State != nil {
		ch <- prometheus.MustNewConstMetric(c.switchState, prometheus.GaugeValue, boolValue(*d.Switch.State), ain, name)
	}

	if d.BatteryLevel != nil {
		ch <- prometheus.MustNewConstMetric(c.batteryLevel, prometheus.GaugeValue, float64(*d.BatteryLevel), ain, name)
	}

	if d.BatteryLow != nil {
		ch <- prometheus.MustNewConstMetric(c.batteryLow, prometheus.GaugeValue, boolValue(*d.BatteryLow), ain, name)
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
