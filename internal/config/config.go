// Package config resolves the checklist roots and ambient settings.
//
// Priority order: defaults, then user config file (os.UserConfigDir()/ckl/
// ckl.toml), then project file (ckl.toml or .ckl.toml in the working
// directory), then CKL_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	DefaultListsRoot    = "lists"
	DefaultSessionsRoot = "sessions"
	DefaultHistory      = "jsonl"
	DefaultLogFile      = "ckl.log"
	DefaultLogLevel     = "info"
)

type Config struct {
	ListsRoot    string `toml:"lists_root"`
	SessionsRoot string `toml:"sessions_root"`
	History      string `toml:"history"` // jsonl|sqlite|off
	LogFile      string `toml:"log_file"`
	LogLevel     string `toml:"log_level"` // debug|info|warn|error
}

func Load() (*Config, error) {
	cfg := &Config{
		ListsRoot:    DefaultListsRoot,
		SessionsRoot: DefaultSessionsRoot,
		History:      DefaultHistory,
		LogFile:      DefaultLogFile,
		LogLevel:     DefaultLogLevel,
	}

	if path := userConfigFile(); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config %s: %w", path, err)
		}
	}
	if path := projectConfigFile(); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading project config %s: %w", path, err)
		}
	}
	loadEnv(cfg)
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadEnv(cfg *Config) {
	cfg.ListsRoot = envOr("CKL_LISTS_ROOT", cfg.ListsRoot)
	cfg.SessionsRoot = envOr("CKL_SESSIONS_ROOT", cfg.SessionsRoot)
	cfg.History = envOr("CKL_HISTORY", cfg.History)
	cfg.LogFile = envOr("CKL_LOG", cfg.LogFile)
	cfg.LogLevel = envOr("CKL_LOG_LEVEL", cfg.LogLevel)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func userConfigFile() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(base, "ckl", "ckl.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func projectConfigFile() string {
	for _, name := range []string{"ckl.toml", ".ckl.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
