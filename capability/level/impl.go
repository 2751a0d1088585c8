package level

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/aha/capability"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
	"math"
	"strconv"
)

var _ capability.Decoder = (*Implementation)(nil)
var _ da.BasicCapability = (*Implementation)(nil)

func NewLevel(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

type Implementation struct {
	d *capability.Device

	// Level is the raw level between 0 and 255.
	Level *int
	// LevelPercentage is the level between 0 and 100.
	LevelPercentage *int
}

func (i *Implementation) Capability() da.Capability {
	return capabilities.LevelFlag
}

func (i *Implementation) Name() string {
	return capabilities.StandardNames[capabilities.LevelFlag]
}

func (i *Implementation) ImplName() string {
	return "AHALevel"
}

func (i *Implementation) Supported() bool {
	return i.d.Has(capability.Level)
}

func (i *Implementation) Decode(n *capability.Node) {
	i.Level = capability.Int(n, "levelcontrol", "level")
	i.LevelPercentage = capability.Int(n, "levelcontrol", "levelpercentage")

	if i.LevelPercentage == nil && i.Level != nil {
		i.LevelPercentage = capability.Ptr(int(math.Round(float64(*i.Level) / 2.55)))
	}
}

func (i *Implementation) SetLevel(ctx context.Context, level int, wait bool) error {
	if level < 0 || level > 255 {
		return fmt.Errorf("level %d out of range 0-255", level)
	}

	return i.send(ctx, "setlevel", level, wait)
}

func (i *Implementation) SetLevelPercentage(ctx context.Context, percentage int, wait bool) error {
	if percentage < 0 || percentage > 100 {
		return fmt.Errorf("level percentage %d out of range 0-100", percentage)
	}

	return i.send(ctx, "setlevelpercentage", percentage, wait)
}

func (i *Implementation) send(ctx context.Context, verb string, level int, wait bool) error {
	if !i.Supported() {
		return capability.ErrDeviceDoesNotHaveCapability
	}

	_, err := i.d.Send(ctx, verb, map[string]string{"level": strconv.Itoa(level)}, wait)
	return err
}
