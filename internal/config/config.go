// Copyright 2025 Catalogador Inteligente Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the cataloger's YAML settings and resolves the
// per-user config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvConfigDir = "CATALOGER_CONFIG_DIR"
	EnvDatabase  = "CATALOGER_DB"
	EnvListen    = "CATALOGER_LISTEN"
)

// Settings is the on-disk configuration (settings.yaml in the config dir).
type Settings struct {
	Database        string `yaml:"database"`           // catalog database path
	Listen          string `yaml:"listen"`             // API listen address
	ProgressFile    string `yaml:"progress-file"`      // scanner progress file path
	HashWorkers     int    `yaml:"hash-workers"`       // verification concurrency
	BusyTimeout     int    `yaml:"busy-timeout"`       // SQLite busy_timeout, ms
	RootCap         int    `yaml:"root-cap"`           // max entries in a root listing
	StaleLogAgeDays int    `yaml:"stale-log-age-days"` // archive-rule age threshold
}

// ConfigDir returns the config directory path.
// Uses CATALOGER_CONFIG_DIR if set, otherwise ~/.cataloger.
// Computed dynamically to support test isolation.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cataloger")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), "settings.yaml")
}

// LockPath returns the serve lock file path, keyed by the database file so
// two servers never share one catalog.
func LockPath(database string) string {
	return filepath.Join(ConfigDir(), filepath.Base(database)+".lock")
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0700)
}

// Default returns the built-in settings.
func Default() Settings {
	s := Settings{}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills zero-value fields with their defaults.
func (s *Settings) ApplyDefaults() {
	if s.Database == "" {
		s.Database = filepath.Join(ConfigDir(), "catalog.db")
	}
	if s.Listen == "" {
		s.Listen = "127.0.0.1:8000"
	}
	if s.ProgressFile == "" {
		// The scanner drops its status file next to the database.
		s.ProgressFile = filepath.Join(filepath.Dir(s.Database), "scan_status.json")
	}
	if s.HashWorkers <= 0 {
		s.HashWorkers = 4
	}
	if s.RootCap <= 0 {
		s.RootCap = 100
	}
	if s.StaleLogAgeDays <= 0 {
		s.StaleLogAgeDays = 30
	}
}

// Load reads settings from path (SettingsPath() when empty), then layers env
// overrides and defaults on top. A missing file is not an error.
func Load(path string) (Settings, error) {
	if path == "" {
		path = SettingsPath()
	}

	var s Settings
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Settings{}, err
	}

	if db := os.Getenv(EnvDatabase); db != "" {
		s.Database = db
	}
	if listen := os.Getenv(EnvListen); listen != "" {
		s.Listen = listen
	}
	s.ApplyDefaults()
	return s, nil
}
