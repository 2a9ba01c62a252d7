package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type StoreConfig struct {
	Kind string `toml:"kind"` // memory | file | bolt | graph
	Dir  string `toml:"dir"`  // file store root
	Path string `toml:"path"` // bolt database file
}

type GraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type WikiConfig struct {
	Enabled    bool   `toml:"enabled"`
	Root       string `toml:"root"`
	DebounceMS int    `toml:"debounce_ms"`
}

type LogConfig struct {
	Level    string `toml:"level"`
	Encoding string `toml:"encoding"` // json | console
}

type Config struct {
	Store StoreConfig `toml:"store"`
	Graph GraphConfig `toml:"graph"`
	Wiki  WikiConfig  `toml:"wiki"`
	Log   LogConfig   `toml:"log"`
}

func Default() *Config {
	return &Config{
		Store: StoreConfig{Kind: "file", Dir: "data/campaigns", Path: "data/chronicle.db"},
		Wiki:  WikiConfig{Root: "wiki", DebounceMS: 200},
		Log:   LogConfig{Level: "info", Encoding: "json"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}
