package button

import (
	"github.com/shimmeringbee/aha/capability"
	"time"
)

var _ capability.Decoder = (*Implementation)(nil)

func NewButton(d *capability.Device) *Implementation {
	return &Implementation{d: d}
}

type Button struct {
	// Identifier is the AIN of the individual button.
	Identifier  string
	ID          string
	Name        string
	LastPressed *time.Time
}

type Implementation struct {
	d *capability.Device

	Buttons []*Button
}

func (i *Implementation) ImplName() string {
	return "AHAButton"
}

func (i *Implementation) Supported() bool {
	return i.d.Has(capability.Button)
}

// Decode replaces the button list in document order, buttons without an identifier are ignored.
func (i *Implementation) Decode(n *capability.Node) {
	var buttons []*Button

	for _, bn := range n.ChildrenNamed("button") {
		identifier, found := bn.Attr("identifier")
		if !found {
			continue
		}

		buttons = append(buttons, &Button{
			Identifier:  identifier,
			ID:          bn.AttrOr("id", ""),
			Name:        bn.ChildValue("name"),
			LastPressed: capability.Timestamp(bn, "lastpressedtimestamp"),
		})
	}

	i.Buttons = buttons
}

func (i *Implementation) ByIdentifier(identifier string) (*Button, bool) {
	for _, b := range i.Buttons {
		if b.Identifier == identifier {
			return b, true
		}
	}

	return nil, false
}
