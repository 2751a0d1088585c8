package light

import (
	"context"
	"fmt"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/shimmeringbee/aha/capability"
	"math"
	"strconv"
	"time"
)

const (
	simpleOff    = "0"
	simpleOn     = "1"
	simpleToggle = "2"
)

type Color struct {
	Hue        int
	Saturation int
	Value      int
}

// On switches the light on. State is updated optimistically before the gateway confirms and is restored if the
// command fails; the next decode is authoritative.
func (i *Implementation) On(ctx context.Context, wait bool) error {
	return i.switchTo(ctx, simpleOn, func(*bool) *bool { return capability.Ptr(true) }, wait)
}

func (i *Implementation) Off(ctx context.Context, wait bool) error {
	return i.switchTo(ctx, simpleOff, func(*bool) *bool { return capability.Ptr(false) }, wait)
}

func (i *Implementation) Toggle(ctx context.Context, wait bool) error {
	return i.switchTo(ctx, simpleToggle, func(current *bool) *bool {
		if current == nil {
			return nil
		}

		return capability.Ptr(!*current)
	}, wait)
}

func (i *Implementation) switchTo(ctx context.Context, onOff string, next func(*bool) *bool, wait bool) error {
	if !i.Supported() {
		return capability.ErrDeviceDoesNotHaveCapability
	}

	var previous *bool

	i.d.Write(func() {
		previous = i.State
		i.State = next(previous)
	})

	if _, err := i.d.Send(ctx, "setsimpleonoff", map[string]string{"onoff": onOff}, wait); err != nil {
		i.d.Write(func() {
			i.State = previous
		})

		return err
	}

	return nil
}

func (i *Implementation) SetColor(ctx context.Context, hue int, saturation int, duration time.Duration, wait bool) error {
	return i.setColor(ctx, "setcolor", hue, saturation, duration, wait)
}

// SetUnmappedColor sets a free hue and saturation rather than one of the gateway's preset colors.
func (i *Implementation) SetUnmappedColor(ctx context.Context, hue int, saturation int, duration time.Duration, wait bool) error {
	return i.setColor(ctx, "setunmappedcolor", hue, saturation, duration, wait)
}

// SetColorHex sets a free color from a hex string such as "#ff8800".
func (i *Implementation) SetColorHex(ctx context.Context, hex string, duration time.Duration, wait bool) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("parse color %q: %w", hex, err)
	}

	h, s, _ := c.Hsv()
	return i.SetUnmappedColor(ctx, int(math.Round(h))%360, int(math.Round(s*255)), duration, wait)
}

func (i *Implementation) setColor(ctx context.Context, verb string, hue int, saturation int, duration time.Duration, wait bool) error {
	if !i.HasColor() {
		return capability.ErrDeviceDoesNotHaveCapability
	}

	if hue < 0 || hue > 359 {
		return fmt.Errorf("hue %d out of range 0-359", hue)
	}

	if saturation < 0 || saturation > 255 {
		return fmt.Errorf("saturation %d out of range 0-255", saturation)
	}

	_, err := i.d.Send(ctx, verb, map[string]string{
		"hue":        strconv.Itoa(hue),
		"saturation": strconv.Itoa(saturation),
		"duration":   tenths(duration),
	}, wait)
	return err
}

func (i *Implementation) SetColorTemperature(ctx context.Context, kelvin int, duration time.Duration, wait bool) error {
	if !i.HasColor() {
		return capability.ErrDeviceDoesNotHaveCapability
	}

	_, err := i.d.Send(ctx, "setcolortemperature", map[string]string{
		"temperature": strconv.Itoa(kelvin),
		"duration":    tenths(duration),
	}, wait)
	return err
}

// Colors returns the preset colors by name, each with its saturation variants.
func (i *Implementation) Colors(ctx context.Context) (map[string][]Color, error) {
	defaults, err := i.colorDefaults(ctx)
	if err != nil {
		return nil, err
	}

	colors := map[string][]Color{}

	for _, hs := range defaults.Child("hsdefaults").ChildrenNamed("hs") {
		name := hs.ChildValue("name")

		for _, cn := range hs.ChildrenNamed("color") {
			colors[name] = append(colors[name], Color{
				Hue:        attrInt(cn, "hue"),
				Saturation: attrInt(cn, "sat"),
				Value:      attrInt(cn, "val"),
			})
		}
	}

	return colors, nil
}

// ColorTemperatures returns the preset white temperatures in kelvin.
func (i *Implementation) ColorTemperatures(ctx context.Context) ([]int, error) {
	defaults, err := i.colorDefaults(ctx)
	if err != nil {
		return nil, err
	}

	var temperatures []int

	for _, tn := range defaults.Child("temperaturedefaults").ChildrenNamed("temp") {
		if v, err := strconv.Atoi(tn.AttrOr("value", "")); err == nil {
			temperatures = append(temperatures, v)
		}
	}

	return temperatures, nil
}

func (i *Implementation) colorDefaults(ctx context.Context) (*capability.Node, error) {
	if !i.HasColor() {
		return nil, capability.ErrDeviceDoesNotHaveCapability
	}

	resp, err := i.d.Send(ctx, "getcolordefaults", nil, false)
	if err != nil {
		return nil, err
	}

	n, err := capability.ParseNode([]byte(resp))
	if err != nil {
		return nil, fmt.Errorf("parse color defaults: %w", err)
	}

	return n, nil
}

func attrInt(n *capability.Node, name string) int {
	v, _ := strconv.Atoi(n.AttrOr(name, "0"))
	return v
}

func tenths(d time.Duration) string {
	return strconv.FormatInt(int64(d/(100*time.Millisecond)), 10)
}
