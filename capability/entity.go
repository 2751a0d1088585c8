package capability

import (
	"fmt"
	"strings"
)

// Entity is the identity shared by devices, groups and templates.
type Entity struct {
	Identifier string
	Name       string
	Mask       Mask
}

// DecodeEntity reads identity from an element without touching any existing state, so a failure leaves the
// caller's copy intact.
func DecodeEntity(n *Node) (Entity, error) {
	identifier, found := n.Attr("identifier")
	if !found || strings.TrimSpace(identifier) == "" {
		return Entity{}, fmt.Errorf("%w: identifier on <%s>", ErrMissingAttribute, n.Name())
	}

	rawMask, found := n.Attr("functionbitmask")
	if !found {
		return Entity{}, fmt.Errorf("%w: functionbitmask on %s", ErrMissingAttribute, identifier)
	}

	mask, err := ParseMask(rawMask)
	if err != nil {
		return Entity{}, fmt.Errorf("%w: functionbitmask on %s: %v", ErrMissingAttribute, identifier, err)
	}

	return Entity{
		Identifier: strings.TrimSpace(identifier),
		Name:       n.ChildValue("name"),
		Mask:       mask,
	}, nil
}

func (e *Entity) Decode(n *Node) error {
	decoded, err := DecodeEntity(n)
	if err != nil {
		return err
	}

	*e = decoded
	return nil
}

func (e Entity) Has(f Flag) bool {
	return e.Mask.Has(f)
}

// DeviceAndUnitID splits the identifier into the physical device and its unit, the unit is empty for groups,
// templates and single unit devices.
func (e Entity) DeviceAndUnitID() (string, string) {
	ain := e.Identifier

	switch {
	case strings.HasPrefix(ain, "tmp"), strings.HasPrefix(ain, "grp"):
		return ain, ""
	case strings.HasPrefix(ain, "Z") && len(ain) == 19:
		return ain[:17], ain[17:]
	case strings.Contains(ain, "-"):
		parts := strings.SplitN(ain, "-", 2)
		return parts[0], parts[1]
	default:
		return ain, ""
	}
}
