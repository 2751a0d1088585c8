package rules

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"io"
)

// Load decodes a rule tree from YAML and links every child to its parent.
func Load(r io.Reader) (*Rule, error) {
	root := &Rule{}

	if err := yaml.NewDecoder(r).Decode(root); err != nil {
		if err == io.EOF {
			return root, nil
		}

		return nil, fmt.Errorf("decode rules: %w", err)
	}

	root.PopulateParentage()
	return root, nil
}
