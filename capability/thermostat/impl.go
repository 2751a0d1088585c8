package thermostat

import (
	"github.com/shimmeringbee/aha/capability"
	"time"
)

var _ capability.Decoder = (*Implementation)(nil)

const (
	StateOff     = "off"
	StateOn      = "on"
	StateEco     = "eco"
	StateComfort = "comfort"
	StateManual  = "manual"

	// Raw half degree values the gateway uses to mean permanently off or on.
	rawOff = 253
	rawOn  = 254

	temperatureOff = float64(rawOff) / 2
	temperatureOn  = float64(rawOn) / 2

	MaximumBoost = 24 * time.Hour
)

func NewThermostat(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

// Implementation is a radiator controller (HKR), all temperatures are in celsius.
type Implementation struct {
	d *capability.Device

	Actual  *float64
	Target  *float64
	Eco     *float64
	Comfort *float64

	Lock       *bool
	DeviceLock *bool
	ErrorCode  *int

	BatteryLow   *bool
	BatteryLevel *int

	WindowOpen          *bool
	WindowOpenRemaining *time.Duration

	BoostActive    *bool
	BoostRemaining *time.Duration

	AdaptiveHeatingActive  *bool
	AdaptiveHeatingRunning *bool

	SummerActive  *bool
	HolidayActive *bool

	NextChange            *time.Time
	NextChangeTemperature *float64
}

func (i *Implementation) ImplName() string {
	return "AHAThermostat"
}

func (i *Implementation) Supported() bool {
	return i.d.Has(capability.Thermostat)
}

func (i *Implementation) Decode(n *capability.Node) {
	hkr := n.Child("hkr")
	now := i.d.Time()

	i.Actual = capability.Scaled(hkr, 2, "tist")
	i.Target = capability.Scaled(hkr, 2, "tsoll")
	i.Eco = capability.Scaled(hkr, 2, "absenk")
	i.Comfort = capability.Scaled(hkr, 2, "komfort")

	i.Lock = capability.Bool(hkr, "lock")
	i.DeviceLock = capability.Bool(hkr, "devicelock")
	i.ErrorCode = capability.Int(hkr, "errorcode")

	i.BatteryLow = capability.Bool(hkr, "batterylow")
	i.BatteryLevel = capability.Int(hkr, "battery")

	i.WindowOpen = capability.Bool(hkr, "windowopenactiv")
	i.WindowOpenRemaining = capability.Remaining(hkr, now, "windowopenactiveendtime")

	i.BoostActive = capability.Bool(hkr, "boostactive")
	i.BoostRemaining = capability.Remaining(hkr, now, "boostactiveendtime")

	i.AdaptiveHeatingActive = capability.Bool(hkr, "adaptiveHeatingActive")
	i.AdaptiveHeatingRunning = capability.Bool(hkr, "adaptiveHeatingRunning")

	i.SummerActive = capability.Bool(hkr, "summeractive")
	i.HolidayActive = capability.Bool(hkr, "holidayactive")

	i.NextChange = capability.Timestamp(hkr, "nextchange", "endperiod")
	i.NextChangeTemperature = capability.Scaled(hkr, 2, "nextchange", "tchange")
}

// State maps the target temperature onto a symbolic state. Comfort takes precedence over eco, and both over the
// off and on sentinels.
func (i *Implementation) State() string {
	if i.Target == nil {
		return StateManual
	}

	target := *i.Target

	switch {
	case i.Comfort != nil && target == *i.Comfort:
		return StateComfort
	case i.Eco != nil && target == *i.Eco:
		return StateEco
	case target == temperatureOn:
		return StateOn
	case target == temperatureOff:
		return StateOff
	default:
		return StateManual
	}
}
