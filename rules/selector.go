package rules

import (
	"fmt"
	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
)

// Input is the environment a selector expression is evaluated against.
type Input struct {
	Identifier      string
	Name            string
	Manufacturer    string
	ProductName     string
	FirmwareVersion string
	Room            string
	Present         bool
	Group           bool
	Capabilities    []string
}

func (i Input) Has(capability string) bool {
	for _, c := range i.Capabilities {
		if c == capability {
			return true
		}
	}

	return false
}

// Selector is a compiled boolean expression such as `Present && Has("thermostat")`.
type Selector struct {
	Source  string
	program *vm.Program
}

func Compile(src string) (*Selector, error) {
	program, err := expr.Compile(src, expr.Env(Input{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("selector compilation: %w", err)
	}

	return &Selector{Source: src, program: program}, nil
}

func (s *Selector) Match(i Input) (bool, error) {
	out, err := expr.Run(s.program, i)
	if err != nil {
		return false, fmt.Errorf("selector evaluation: %w", err)
	}

	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("selector evaluation: result %v is not a boolean", out)
	}

	return matched, nil
}
