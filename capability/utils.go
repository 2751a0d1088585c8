package capability

import (
	"strconv"
	"time"
)

// Int returns the integer value of the element at path, nil if missing or not numeric.
func Int(n *Node, path ...string) *int {
	c := n.Child(path...)
	if c == nil {
		return nil
	}

	v, err := strconv.Atoi(c.Value())
	if err != nil {
		return nil
	}

	return &v
}

func Bool(n *Node, path ...string) *bool {
	c := n.Child(path...)
	if c == nil {
		return nil
	}

	var b bool

	switch c.Value() {
	case "1":
		b = true
	case "0":
		b = false
	default:
		return nil
	}

	return &b
}

func String(n *Node, path ...string) *string {
	c := n.Child(path...)
	if c == nil {
		return nil
	}

	s := c.Value()
	return &s
}

func Scaled(n *Node, divisor float64, path ...string) *float64 {
	v := Int(n, path...)
	if v == nil {
		return nil
	}

	f := float64(*v) / divisor
	return &f
}

// Remaining converts an end timestamp into the duration left from now, never negative.
func Remaining(n *Node, now time.Time, path ...string) *time.Duration {
	v := Int(n, path...)
	if v == nil {
		return nil
	}

	seconds := int64(*v) - now.Unix()
	if seconds < 0 {
		seconds = 0
	}

	d := time.Duration(seconds) * time.Second
	return &d
}

func Timestamp(n *Node, path ...string) *time.Time {
	v := Int(n, path...)
	if v == nil || *v == 0 {
		return nil
	}

	t := time.Unix(int64(*v), 0)
	return &t
}

func Ptr[T any](v T) *T {
	return &v
}

// ParseBoolResponse interprets a command response of "1" or "0", anything else is unknown.
func ParseBoolResponse(resp string) *bool {
	switch resp {
	case "1":
		return Ptr(true)
	case "0":
		return Ptr(false)
	default:
		return nil
	}
}

func ParseIntResponse(resp string) *int {
	v, err := strconv.Atoi(resp)
	if err != nil {
		return nil
	}

	return &v
}
