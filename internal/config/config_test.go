package config

import (
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("reads a yaml file over the defaults", func(t *testing.T) {
		path := writeFile(t, "aha.yaml", `
host: "https://192.168.178.1"
user: "admin"
password: "secret"
ssl_verify: false
timeout: 3s
busy:
  attempts: 4
  interval: 500ms
`)

		cfg, err := Load(path)
		assert.NoError(t, err)

		assert.Equal(t, "https://192.168.178.1", cfg.Host)
		assert.Equal(t, "admin", cfg.User)
		assert.Equal(t, "secret", cfg.Password)
		assert.False(t, cfg.SSLVerify)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
		assert.Equal(t, 4, cfg.Busy.Attempts)
		assert.Equal(t, 500*time.Millisecond, cfg.Busy.Interval)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := writeFile(t, "aha.yaml", "host: fritz.box\nuser: admin\npassword: secret\n")

		t.Setenv("AHA_HOST", "10.0.0.1")
		t.Setenv("AHA_USER", "other")
		t.Setenv("AHA_PASSWORD", "hunter2")
		t.Setenv("AHA_SSL_VERIFY", "false")

		cfg, err := Load(path)
		assert.NoError(t, err)

		assert.Equal(t, "10.0.0.1", cfg.Host)
		assert.Equal(t, "other", cfg.User)
		assert.Equal(t, "hunter2", cfg.Password)
		assert.False(t, cfg.SSLVerify)
	})

	t.Run("an empty path uses defaults and environment", func(t *testing.T) {
		t.Setenv("AHA_PASSWORD", "secret")

		cfg, err := Load("")
		assert.NoError(t, err)

		assert.Equal(t, DefaultHost, cfg.Host)
		assert.True(t, cfg.SSLVerify)
	})

	t.Run("fails without a password", func(t *testing.T) {
		t.Setenv("AHA_PASSWORD", "")

		_, err := Load(writeFile(t, "aha.yaml", "host: fritz.box\n"))
		assert.ErrorContains(t, err, "password is required")
	})

	t.Run("fails on an invalid ssl verify override", func(t *testing.T) {
		t.Setenv("AHA_PASSWORD", "secret")
		t.Setenv("AHA_SSL_VERIFY", "maybe")

		_, err := Load("")
		assert.ErrorContains(t, err, "AHA_SSL_VERIFY")
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/aha.yaml")
		assert.Error(t, err)
	})
}

func TestConfig_ClientConfig(t *testing.T) {
	t.Run("converts settings and loads rules", func(t *testing.T) {
		rulesPath := writeFile(t, "rules.yaml", `
children:
  - description: "radiators are slow to acknowledge"
    filter:
      productname: "FRITZ!DECT 301"
    settings:
      busy:
        attempts: 20
`)

		cfg := &Config{Host: "fritz.box", Password: "secret", SSLVerify: false, Timeout: time.Second, RulesFile: rulesPath}

		cc, err := cfg.ClientConfig()
		assert.NoError(t, err)

		assert.Equal(t, "fritz.box", cc.Host)
		assert.True(t, cc.InsecureSkipVerify)
		assert.Equal(t, time.Second, cc.Timeout)

		if assert.NotNil(t, cc.Rules) && assert.Len(t, cc.Rules.Children, 1) {
			assert.Equal(t, 20, cc.Rules.Children[0].IntSetting("busy", "attempts", 0))
		}
	})

	t.Run("fails on a missing rules file", func(t *testing.T) {
		cfg := &Config{Host: "fritz.box", Password: "secret", RulesFile: "/nonexistent/rules.yaml"}

		_, err := cfg.ClientConfig()
		assert.Error(t, err)
	})
}
