/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"layoutsmith/internal/domain"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
// Minimal schema to start; can evolve with config_version migrations.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields should be preserved when possible (yaml handles this by ignoring extras on unmarshal).

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
}

// CustomizeConfig holds the interaction defaults for customization mode. The
// grid size is persisted independently of layout saves so changing it later
// never rewrites committed geometry.
type CustomizeConfig struct {
	GridSize      int  `yaml:"grid_size"`
	SnapThreshold int  `yaml:"snap_threshold"`
	ShowHint      bool `yaml:"show_hint"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	General       GeneralConfig   `yaml:"general"`
	Customize     CustomizeConfig `yaml:"customize"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Customize:     CustomizeConfig{GridSize: domain.GridSizeDefault, SnapThreshold: domain.SnapThreshold, ShowHint: true},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvGridSize       = "LSM_GRID_SIZE"
	EnvSnapThreshold  = "LSM_SNAP_THRESHOLD"
	EnvShowHint       = "LSM_SHOW_HINT"
	EnvTelemetryOptIn = "LSM_TELEMETRY_OPT_IN"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "LSM_LOG_LEVEL"
	EnvLogFormat = "LSM_LOG_FORMAT"
	EnvLogSource = "LSM_LOG_SOURCE"
	EnvLogFile   = "LSM_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Layoutsmith")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Layoutsmith")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "layoutsmith")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// SaveGridSize persists just the grid size, leaving the rest of the on-disk
// config untouched.
func SaveGridSize(size int) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.Customize.GridSize = size
	cfg.Customize = cfg.Customize.normalize()
	return Save(cfg)
}

func (c CustomizeConfig) normalize() CustomizeConfig {
	if c.GridSize < domain.GridSizeMin {
		c.GridSize = domain.GridSizeDefault
	}
	if c.SnapThreshold <= 0 {
		c.SnapThreshold = domain.SnapThreshold
	}
	return c
}

// Grid converts the customize section into the engine's grid configuration.
func (c CustomizeConfig) Grid() domain.GridConfig {
	c = c.normalize()
	return domain.GridConfig{CellSize: c.GridSize}
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if src.Customize.GridSize != 0 {
		dst.Customize.GridSize = src.Customize.GridSize
	}
	if src.Customize.SnapThreshold != 0 {
		dst.Customize.SnapThreshold = src.Customize.SnapThreshold
	}
	dst.Customize.ShowHint = src.Customize.ShowHint
	dst.Customize = dst.Customize.normalize()
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvGridSize)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Customize.GridSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapThreshold)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Customize.SnapThreshold = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvShowHint)); v != "" {
		lv := strings.ToLower(v)
		cfg.Customize.ShowHint = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		lv := strings.ToLower(v)
		cfg.General.TelemetryOptIn = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	cfg.Customize = cfg.Customize.normalize()
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "customize.grid_size":
		if os.Getenv(EnvGridSize) != "" {
			return EnvGridSize, true
		}
	case "customize.snap_threshold":
		if os.Getenv(EnvSnapThreshold) != "" {
			return EnvSnapThreshold, true
		}
	case "customize.show_hint":
		if os.Getenv(EnvShowHint) != "" {
			return EnvShowHint, true
		}
	case "general.telemetry_opt_in":
		if os.Getenv(EnvTelemetryOptIn) != "" {
			return EnvTelemetryOptIn, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}
