package rules

import "strings"

// Filter matches a device on its reported identity, nil fields match anything.
type Filter struct {
	Manufacturer     *string `yaml:"manufacturer"`
	ProductName      *string `yaml:"productname"`
	FirmwarePrefix   *string `yaml:"firmware_prefix"`
	Capability       *string `yaml:"capability"`
	IdentifierPrefix *string `yaml:"identifier_prefix"`
}

func (f Filter) matches(m MatchData) bool {
	if f.Manufacturer != nil && *f.Manufacturer != m.Manufacturer {
		return false
	}

	if f.ProductName != nil && *f.ProductName != m.ProductName {
		return false
	}

	if f.FirmwarePrefix != nil && !strings.HasPrefix(m.FirmwareVersion, *f.FirmwarePrefix) {
		return false
	}

	if f.IdentifierPrefix != nil && !strings.HasPrefix(m.Identifier, *f.IdentifierPrefix) {
		return false
	}

	if f.Capability != nil {
		found := false

		for _, c := range m.Capabilities {
			if c == *f.Capability {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

type MatchData struct {
	Identifier      string
	Manufacturer    string
	ProductName     string
	FirmwareVersion string
	Capabilities    []string
}
