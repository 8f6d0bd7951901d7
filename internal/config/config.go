package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/san-kum/coinflip/internal/engine"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTrials      = 1000
	DefaultHistorySize = 200
	DefaultTheme       = "light"
)

type Config struct {
	Trials      int    `yaml:"trials" toml:"trials"`
	Seed        *int64 `yaml:"seed,omitempty" toml:"seed,omitempty"`
	BatchSize   int    `yaml:"batch_size" toml:"batch_size"`
	SampleEvery int    `yaml:"sample_every" toml:"sample_every"`
	Delay       string `yaml:"delay" toml:"delay"`
	Theme       string `yaml:"theme" toml:"theme"`
	HistorySize int    `yaml:"history_size" toml:"history_size"`
}

func DefaultConfig() *Config {
	return &Config{
		Trials:      DefaultTrials,
		BatchSize:   engine.DefaultBatchSize,
		SampleEvery: engine.DefaultSampleEvery,
		Delay:       "auto",
		Theme:       DefaultTheme,
		HistorySize: DefaultHistorySize,
	}
}

// Load reads a YAML or TOML file, chosen by extension, on top of the
// defaults.
func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto decodes the file over base, so keys absent from the file keep
// the values base already carries. base is modified and returned.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), base); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, base); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return base, nil
}

// SeedOr returns the pinned seed, or fallback when none is set.
func (c *Config) SeedOr(fallback int64) int64 {
	if c.Seed == nil {
		return fallback
	}
	return *c.Seed
}

func Save(path string, cfg *Config) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			return err
		}
		data = []byte(b.String())
	default:
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		data = out
	}
	return os.WriteFile(path, data, 0644)
}

// EngineConfig converts the file settings into an engine configuration.
// A delay of "auto" or "" keeps the adaptive inter-batch gap.
func (c *Config) EngineConfig() (engine.Config, error) {
	ec := engine.DefaultConfig()
	if c.BatchSize > 0 {
		ec.BatchSize = c.BatchSize
	}
	if c.SampleEvery > 0 {
		ec.SampleEvery = c.SampleEvery
	}

	switch d := strings.TrimSpace(c.Delay); d {
	case "", "auto":
	default:
		delay, err := time.ParseDuration(d)
		if err != nil {
			return engine.Config{}, fmt.Errorf("invalid delay %q: %w", c.Delay, err)
		}
		if delay < 0 {
			return engine.Config{}, fmt.Errorf("%w: delay must not be negative, got %s", engine.ErrInvalidConfig, delay)
		}
		ec.AutoDelay = false
		ec.Delay = delay
	}
	return ec, nil
}
