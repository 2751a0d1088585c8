package config

import (
	"errors"
	"fmt"
	"github.com/shimmeringbee/aha"
	"github.com/shimmeringbee/aha/rules"
	"gopkg.in/yaml.v3"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultHost = "fritz.box"

// Config is the on disk configuration of the command line client.
type Config struct {
	Host      string        `yaml:"host"`
	User      string        `yaml:"user"`
	Password  string        `yaml:"password"`
	SSLVerify bool          `yaml:"ssl_verify"`
	Timeout   time.Duration `yaml:"timeout"`
	Busy      BusyConfig    `yaml:"busy"`
	RulesFile string        `yaml:"rules_file"`
}

type BusyConfig struct {
	Attempts int           `yaml:"attempts"`
	Interval time.Duration `yaml:"interval"`
}

// Load reads the configuration at path, an empty path uses defaults only. AHA_HOST, AHA_USER, AHA_PASSWORD and
// AHA_SSL_VERIFY override the file.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Host:      DefaultHost,
		SSLVerify: true,
		Timeout:   aha.DefaultTimeout,
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("AHA_HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("AHA_USER"); v != "" {
		cfg.User = v
	}

	if v := os.Getenv("AHA_PASSWORD"); v != "" {
		cfg.Password = v
	}

	if v := os.Getenv("AHA_SSL_VERIFY"); v != "" {
		verify, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AHA_SSL_VERIFY: %w", err)
		}

		cfg.SSLVerify = verify
	}

	return nil
}

func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, "host is required")
	}

	if c.Password == "" {
		errs = append(errs, "password is required (set AHA_PASSWORD environment variable)")
	}

	if c.Timeout < 0 {
		errs = append(errs, "timeout must not be negative")
	}

	if c.Busy.Attempts < 0 {
		errs = append(errs, "busy.attempts must not be negative")
	}

	if c.Busy.Interval < 0 {
		errs = append(errs, "busy.interval must not be negative")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors: " + strings.Join(errs, "; "))
	}

	return nil
}

// ClientConfig converts the configuration for aha.New, loading the rules file if one is set.
func (c *Config) ClientConfig() (aha.Config, error) {
	cc := aha.Config{
		Host:               c.Host,
		User:               c.User,
		Password:           c.Password,
		Timeout:            c.Timeout,
		InsecureSkipVerify: !c.SSLVerify,
		BusyAttempts:       c.Busy.Attempts,
		BusyInterval:       c.Busy.Interval,
	}

	if c.RulesFile != "" {
		f, err := os.Open(c.RulesFile)
		if err != nil {
			return aha.Config{}, fmt.Errorf("reading rules file: %w", err)
		}
		defer f.Close()

		r, err := rules.Load(f)
		if err != nil {
			return aha.Config{}, fmt.Errorf("parsing rules file: %w", err)
		}

		cc.Rules = r
	}

	return cc, nil
}
