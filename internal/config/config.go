// Package config loads the application configuration from TOML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	CatalogURL string  `koanf:"catalog_url"` // base URL of the track catalog service
	DataDir    string  `koanf:"data_dir"`    // session database location, empty means the XDG data dir
	Volume     float64 `koanf:"volume"`      // initial volume when no session exists, 0.0-1.0
	LogLevel   string  `koanf:"log_level"`   // "debug", "info", "warn", or "error"
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Volume:   1.0,
		LogLevel: "info",
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Normalize catalog URL (remove trailing slash)
	cfg.CatalogURL = strings.TrimSuffix(cfg.CatalogURL, "/")

	// Expand ~ in data_dir
	if cfg.DataDir != "" {
		cfg.DataDir = expandPath(cfg.DataDir)
	}

	if cfg.Volume < 0 || cfg.Volume > 1 {
		return nil, fmt.Errorf("config: volume %v out of range [0, 1]", cfg.Volume)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/reel/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "reel", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasCatalog returns true if a catalog service is configured.
func (c *Config) HasCatalog() bool {
	return c.CatalogURL != ""
}
