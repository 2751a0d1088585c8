package aha

import "github.com/shimmeringbee/aha/rules"

// Select returns the devices matching a selector expression such as `Present && Has("thermostat")`.
func (c *Client) Select(expression string) ([]*Device, error) {
	selector, err := rules.Compile(expression)
	if err != nil {
		return nil, err
	}

	var selected []*Device

	for _, d := range c.devices.all() {
		var input rules.Input

		d.Read(func() {
			input = selectorInput(d)
		})

		matched, err := selector.Match(input)
		if err != nil {
			return nil, err
		}

		if matched {
			selected = append(selected, d)
		}
	}

	return selected, nil
}

func selectorInput(d *Device) rules.Input {
	return rules.Input{
		Identifier:      d.Identifier,
		Name:            d.Name,
		Manufacturer:    d.Manufacturer,
		ProductName:     d.ProductName,
		FirmwareVersion: d.FirmwareVersion,
		Room:            d.Room,
		Present:         d.Present,
		Group:           d.IsGroup,
		Capabilities:    d.capabilityNames(),
	}
}

func matchData(d *Device) rules.MatchData {
	return rules.MatchData{
		Identifier:      d.Identifier,
		Manufacturer:    d.Manufacturer,
		ProductName:     d.ProductName,
		FirmwareVersion: d.FirmwareVersion,
		Capabilities:    d.capabilityNames(),
	}
}
