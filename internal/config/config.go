// Package config persists the player's small runtime configuration
// (last browsed directory, volume, telemetry flag) to a dotfile under
// $HOME/.config, following the teacher's loadConfig/saveConfig
// pattern against pulseaudio-lambda's stream_separator_config.json.
package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Config is the on-disk schema.
type Config struct {
	LastDirectory string  `json:"last_directory"`
	Volume        float64 `json:"volume"`
	Telemetry     bool    `json:"telemetry"`
}

// Default returns the configuration written on first run.
func Default() Config {
	return Config{LastDirectory: "", Volume: 1.0, Telemetry: false}
}

func dir() (string, error) {
	if d := os.Getenv("ZIM_CONFIG_DIR"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "zim"), nil
}

func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.json"), nil
}

// Load reads the config file, creating it with Default values if
// absent.
func Load() (Config, string, error) {
	p, err := path()
	if err != nil {
		return Config{}, "", err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return Config{}, "", err
		}
		cfg := Default()
		if err := Save(cfg); err != nil {
			return cfg, p, err
		}
		return cfg, p, nil
	} else if err != nil {
		return Config{}, "", err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, "", err
	}
	if cfg.Volume < 0 || cfg.Volume > 1 {
		cfg.Volume = 1.0
	}
	return cfg, p, nil
}

// Save writes cfg to disk.
func Save(cfg Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o644)
}

// SetLastDirectory updates the remembered browse root.
func (c *Config) SetLastDirectory(d string) { c.LastDirectory = d }

// SetVolume clamps and stores the last-used volume.
func (c *Config) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	c.Volume = v
}
