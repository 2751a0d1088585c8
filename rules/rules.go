package rules

import "time"

// Rule is a tree of filters carrying settings, a setting not found on the matched rule is looked up on its
// parents.
type Rule struct {
	parent      *Rule
	Description string              `yaml:"description"`
	Filter      Filter              `yaml:"filter"`
	Children    []*Rule             `yaml:"children"`
	Settings    map[string]Settings `yaml:"settings"`
}

func (r *Rule) PopulateParentage() {
	for _, c := range r.Children {
		c.parent = r
		c.PopulateParentage()
	}
}

// Match returns the deepest matching rule, or nil if this rule does not match.
func (r *Rule) Match(m MatchData) *Rule {
	if !r.Filter.matches(m) {
		return nil
	}

	for _, c := range r.Children {
		if mr := c.Match(m); mr != nil {
			return mr
		}
	}

	return r
}

func (r *Rule) StringSetting(ns string, key string, def string) string {
	if s, nsOk := r.Settings[ns]; nsOk {
		if v, valOk := s.String(key); valOk {
			return v
		}
	}

	if r.parent != nil {
		return r.parent.StringSetting(ns, key, def)
	}

	return def
}

func (r *Rule) IntSetting(ns string, key string, def int) int {
	if s, nsOk := r.Settings[ns]; nsOk {
		if v, valOk := s.Int(key); valOk {
			return v
		}
	}

	if r.parent != nil {
		return r.parent.IntSetting(ns, key, def)
	}

	return def
}

func (r *Rule) BooleanSetting(ns string, key string, def bool) bool {
	if s, nsOk := r.Settings[ns]; nsOk {
		if v, valOk := s.Boolean(key); valOk {
			return v
		}
	}

	if r.parent != nil {
		return r.parent.BooleanSetting(ns, key, def)
	}

	return def
}

func (r *Rule) DurationSetting(ns string, key string, def time.Duration) time.Duration {
	if s, nsOk := r.Settings[ns]; nsOk {
		if v, valOk := s.Duration(key); valOk {
			return v
		}
	}

	if r.parent != nil {
		return r.parent.DurationSetting(ns, key, def)
	}

	return def
}
