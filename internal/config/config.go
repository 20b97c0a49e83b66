// ABOUTME: Application configuration loading
// ABOUTME: YAML config file layered over defaults, with key bindings
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Keys maps actions to bubbletea key names.
type Keys struct {
	Evaluate string `yaml:"evaluate"`
	Play     string `yaml:"play"`
	Stop     string `yaml:"stop"`
	Quit     string `yaml:"quit"`
	VolumeUp string `yaml:"volume_up"`
	VolumeDn string `yaml:"volume_down"`
}

// Control configures the remote live-coding endpoint.
type Control struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	MDNS    bool   `yaml:"mdns"`
	Name    string `yaml:"name"`
}

// Config is the full application configuration.
type Config struct {
	SampleRate int     `yaml:"sample_rate"`
	LiveCoding bool    `yaml:"live_coding"`
	SampleMap  string  `yaml:"sample_map"`
	PatchFile  string  `yaml:"patch_file"`
	LogFile    string  `yaml:"log_file"`
	Control    Control `yaml:"control"`
	Keys       Keys    `yaml:"keys"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SampleRate: 44100,
		LiveCoding: true,
		LogFile:    "glint.log",
		Control: Control{
			Enabled: false,
			Addr:    "127.0.0.1:8723",
			MDNS:    false,
			Name:    "glint",
		},
		Keys: Keys{
			Evaluate: "ctrl+e",
			Play:     "ctrl+p",
			Stop:     "ctrl+s",
			Quit:     "ctrl+c",
			VolumeUp: "ctrl+up",
			VolumeDn: "ctrl+down",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.SampleRate <= 0 {
		return cfg, fmt.Errorf("config %s: sample_rate must be positive", path)
	}
	return cfg, nil
}
