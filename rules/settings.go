package rules

import "time"

type Settings map[string]interface{}

func (s Settings) String(k string) (string, bool) {
	val, found := s[k]

	if found {
		s, ok := val.(string)
		return s, ok
	} else {
		return "", false
	}
}

func (s Settings) Boolean(k string) (bool, bool) {
	val, found := s[k]

	if found {
		b, ok := val.(bool)
		return b, ok
	} else {
		return false, false
	}
}

func (s Settings) Int(k string) (int, bool) {
	switch v := s[k].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	default:
		return 0, false
	}
}

// Duration accepts either a Go duration string or a whole number of milliseconds.
func (s Settings) Duration(k string) (time.Duration, bool) {
	if v, ok := s.Int(k); ok {
		return time.Duration(v) * time.Millisecond, true
	}

	if v, ok := s.String(k); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d, true
		}
	}

	return 0, false
}
