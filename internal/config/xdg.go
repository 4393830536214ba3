// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"

	"github.com/verte-zerg/typetest/internal/model"
)

const appName = "typetest"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultHistoryPath returns the history location for a backend.
func DefaultHistoryPath(backend string) string {
	if backend == model.BackendSQLite {
		return filepath.Join(XDGDataHome(), appName, "typetest.db")
	}
	return filepath.Join(XDGDataHome(), appName, "history.json")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
