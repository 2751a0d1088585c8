package rules

import (
	"github.com/stretchr/testify/assert"
	"strings"
	"testing"
	"time"
)

func TestRule_PopulateParentage(t *testing.T) {
	t.Run("recursively sets the parentage of Rules", func(t *testing.T) {
		r := &Rule{
			Children: []*Rule{
				{
					Children: []*Rule{
						{},
					},
				},
			},
		}

		r.PopulateParentage()

		assert.Equal(t, r, r.Children[0].parent)
		assert.Equal(t, r.Children[0], r.Children[0].Children[0].parent)
	})
}

func TestRule_Match(t *testing.T) {
	t.Run("if no child filters match, then self is returned", func(t *testing.T) {
		notWanted := "not-manu"

		r := &Rule{
			Children: []*Rule{
				{Filter: Filter{Manufacturer: &notWanted}},
			},
		}

		assert.Equal(t, r, r.Match(MatchData{}))
	})

	t.Run("if child filters match, return child", func(t *testing.T) {
		wanted := "AVM"

		r := &Rule{
			Children: []*Rule{
				{Filter: Filter{Manufacturer: &wanted}},
			},
		}

		assert.Equal(t, r.Children[0], r.Match(MatchData{Manufacturer: wanted}))
	})

	t.Run("returns nil if the root does not match", func(t *testing.T) {
		wanted := "AVM"

		r := &Rule{Filter: Filter{Manufacturer: &wanted}}
		assert.Nil(t, r.Match(MatchData{Manufacturer: "other"}))
	})
}

func TestRule_Settings(t *testing.T) {
	r := &Rule{
		Children: []*Rule{
			{
				Settings: map[string]Settings{
					"busy": {"attempts": 20},
				},
			},
		},
		Settings: map[string]Settings{
			"busy": {"attempts": 10, "interval": "250ms", "wait": true, "label": "root"},
		},
	}
	r.PopulateParentage()
	child := r.Children[0]

	t.Run("returns setting at the most specific level", func(t *testing.T) {
		assert.Equal(t, 20, child.IntSetting("busy", "attempts", 1))
		assert.Equal(t, 10, r.IntSetting("busy", "attempts", 1))
	})

	t.Run("falls back to parents and then defaults", func(t *testing.T) {
		assert.Equal(t, 250*time.Millisecond, child.DurationSetting("busy", "interval", time.Second))
		assert.True(t, child.BooleanSetting("busy", "wait", false))
		assert.Equal(t, "root", child.StringSetting("busy", "label", "default"))
		assert.Equal(t, "default", child.StringSetting("other", "label", "default"))
	})

	t.Run("durations may be given in milliseconds", func(t *testing.T) {
		assert.Equal(t, 150*time.Millisecond, (&Rule{Settings: map[string]Settings{"busy": {"interval": 150}}}).DurationSetting("busy", "interval", 0))
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads a rule tree from yaml with parentage", func(t *testing.T) {
		doc := `
description: all devices
settings:
  busy:
    attempts: 10
children:
  - description: slow thermostats
    filter:
      productname: "FRITZ!DECT 301"
    settings:
      busy:
        interval: 500ms
`
		r, err := Load(strings.NewReader(doc))
		assert.NoError(t, err)

		matched := r.Match(MatchData{ProductName: "FRITZ!DECT 301"})
		assert.Equal(t, "slow thermostats", matched.Description)
		assert.Equal(t, 500*time.Millisecond, matched.DurationSetting("busy", "interval", 0))
		assert.Equal(t, 10, matched.IntSetting("busy", "attempts", 0))
	})

	t.Run("empty documents load as a match all rule", func(t *testing.T) {
		r, err := Load(strings.NewReader(""))
		assert.NoError(t, err)
		assert.Equal(t, r, r.Match(MatchData{}))
	})

	t.Run("fails on invalid yaml", func(t *testing.T) {
		_, err := Load(strings.NewReader("children: {"))
		assert.Error(t, err)
	})
}
