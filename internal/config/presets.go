package config

import "sort"

var Presets = map[string]*Config{
	"quick": {
		Trials: 100, BatchSize: 1000, SampleEvery: 1, Delay: "auto",
	},
	"standard": {
		Trials: 10000, BatchSize: 1000, SampleEvery: 100, Delay: "auto",
	},
	"slow": {
		Trials: 5000, BatchSize: 100, SampleEvery: 10, Delay: "20ms",
	},
	"marathon": {
		Trials: 1000000, BatchSize: 1000, SampleEvery: 1000, Delay: "0s",
	},
}

// GetPreset returns a copy of the named preset filled in with defaults, or
// nil if there is none.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Trials = p.Trials
	cfg.BatchSize = p.BatchSize
	cfg.SampleEvery = p.SampleEvery
	cfg.Delay = p.Delay
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
