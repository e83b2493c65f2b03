// Package config holds build metadata and the runtime configuration of the bmx280 tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Set at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const (
	AdapterGeneric = "generic"
	AdapterMCP2221 = "mcp2221"
	AdapterNanoPi  = "nanopi"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Adapter selects the transport: generic (periph), mcp2221 or nanopi (gobot).
	Adapter string `yaml:"adapter"`
	// Device is the periph bus name, e.g. /dev/i2c-1 or "1".
	Device string `yaml:"device"`
	// Bus is the bus number used by the nanopi adapter.
	Bus int `yaml:"bus"`
	// Speed is an optional bus frequency such as 400kHz.
	Speed string `yaml:"speed"`
	// Address pins discovery to one address; 0 probes 0x76 then 0x77.
	Address  uint8         `yaml:"address"`
	Interval time.Duration `yaml:"interval"`
	Output   string        `yaml:"output"`
}

func Default() Config {
	return Config{
		Adapter:  AdapterGeneric,
		Device:   "/dev/i2c-1",
		Bus:      0,
		Interval: 60 * time.Second,
		Output:   "temperature_log.csv",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config file: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Adapter {
	case AdapterGeneric, AdapterMCP2221, AdapterNanoPi:
	default:
		return fmt.Errorf("%w: unknown adapter %q", ErrInvalid, c.Adapter)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalid)
	}
	if c.Address != 0 && c.Address != 0x76 && c.Address != 0x77 {
		return fmt.Errorf("%w: address 0x%02x is not a bmx280 address", ErrInvalid, c.Address)
	}
	if _, err := c.Frequency(); err != nil {
		return err
	}
	return nil
}

// Frequency parses Speed; zero means keep the bus default.
func (c Config) Frequency() (physic.Frequency, error) {
	if c.Speed == "" {
		return 0, nil
	}
	var f physic.Frequency
	if err := f.Set(c.Speed); err != nil {
		return 0, fmt.Errorf("%w: speed %q: %w", ErrInvalid, c.Speed, err)
	}
	return f, nil
}

func BuildInfo() string {
	return fmt.Sprintf("%s-%s-%s", Version, Date, Commit)
}
