package capability

import (
	"strconv"
	"strings"
)

// Flag is a single bit of the functionbitmask a gateway reports for a device.
type Flag uint32

const (
	HANFUNDevice Flag = 1 << 0
	LightBulb    Flag = 1 << 2
	Alarm        Flag = 1 << 4
	Button       Flag = 1 << 5
	Thermostat   Flag = 1 << 6
	PowerMeter   Flag = 1 << 7
	Temperature  Flag = 1 << 8
	Switch       Flag = 1 << 9
	DECTRepeater Flag = 1 << 10
	Microphone   Flag = 1 << 11
	HANFUNUnit   Flag = 1 << 13
	Switchable   Flag = 1 << 15
	Level        Flag = 1 << 16
	Color        Flag = 1 << 17
	Blind        Flag = 1 << 18
	Humidity     Flag = 1 << 20
)

var KnownFlags = []Flag{
	HANFUNDevice,
	LightBulb,
	Alarm,
	Button,
	Thermostat,
	PowerMeter,
	Temperature,
	Switch,
	DECTRepeater,
	Microphone,
	HANFUNUnit,
	Switchable,
	Level,
	Color,
	Blind,
	Humidity,
}

var FlagNames = map[Flag]string{
	HANFUNDevice: "hanfun_device",
	LightBulb:    "lightbulb",
	Alarm:        "alarm",
	Button:       "button",
	Thermostat:   "thermostat",
	PowerMeter:   "power_meter",
	Temperature:  "temperature",
	Switch:       "switch",
	DECTRepeater: "dect_repeater",
	Microphone:   "microphone",
	HANFUNUnit:   "hanfun_unit",
	Switchable:   "switchable",
	Level:        "level",
	Color:        "color",
	Blind:        "blind",
	Humidity:     "humidity",
}

func (f Flag) String() string {
	if name, found := FlagNames[f]; found {
		return name
	}

	return "0x" + strconv.FormatUint(uint64(f), 16)
}

// Mask is the full functionbitmask, unknown bits are carried but never tested.
type Mask uint32

func (m Mask) Has(f Flag) bool {
	return uint32(m)&uint32(f) != 0
}

func (m Mask) Flags() []Flag {
	var flags []Flag

	for _, f := range KnownFlags {
		if m.Has(f) {
			flags = append(flags, f)
		}
	}

	return flags
}

func (m Mask) String() string {
	var names []string

	for _, f := range m.Flags() {
		names = append(names, f.String())
	}

	return strings.Join(names, ",")
}

func ParseMask(s string) (Mask, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}

	return Mask(v), nil
}
