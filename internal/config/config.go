// Package config provides configuration loading and structs for the dowgen engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Project  string         `yaml:"project"`
	Storage  StorageConfig  `yaml:"storage"`
	Template TemplateConfig `yaml:"template"`
	Export   ExportConfig   `yaml:"export"`
	Editor   EditorConfig   `yaml:"editor"`
}

// StorageConfig holds the variable store database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// TemplateConfig holds template store settings.
type TemplateConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// ExportConfig holds export output settings and PDF page geometry.
type ExportConfig struct {
	OutputDir  string  `yaml:"output_dir"`
	FontFamily string  `yaml:"font_family"`
	FontSize   float64 `yaml:"font_size"`
	MarginMM   float64 `yaml:"margin_mm"`
}

// EditorConfig holds editing session timing settings, in milliseconds.
type EditorConfig struct {
	AutosaveDelayMS int `yaml:"autosave_delay_ms"`
	ClickDebounceMS int `yaml:"click_debounce_ms"`
	ToastSuppressMS int `yaml:"toast_suppress_ms"`
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Template.Path = expandPath(cfg.Template.Path, configDir)
	cfg.Export.OutputDir = expandPath(cfg.Export.OutputDir, configDir)

	return &cfg, nil
}

// Save writes the config back to path as yaml.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" {
		return path
	}
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
