package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
project: riverside-tower
storage:
  database_path: ./data/vars.db
template:
  path: ./templates/dow.md
  watch: true
export:
  font_size: 12
editor:
  autosave_delay_ms: 500
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true")
	}
	if cfg.Project != "riverside-tower" {
		t.Errorf("project: got %q", cfg.Project)
	}
	if cfg.Storage.DatabasePath != filepath.Join(dir, "data/vars.db") {
		t.Errorf("database path not expanded relative to config dir: %q", cfg.Storage.DatabasePath)
	}
	if cfg.Template.Path != filepath.Join(dir, "templates/dow.md") {
		t.Errorf("template path not expanded: %q", cfg.Template.Path)
	}
	if !cfg.Template.Watch {
		t.Error("template watch should be true")
	}
	if cfg.Export.FontSize != 12 {
		t.Errorf("font size: got %v", cfg.Export.FontSize)
	}
	if cfg.Editor.AutosaveDelayMS != 500 {
		t.Errorf("autosave delay: got %d", cfg.Editor.AutosaveDelayMS)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Project != "default" {
		t.Errorf("project default: got %q", cfg.Project)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database path default missing")
	}
	if cfg.Export.FontFamily != "Helvetica" || cfg.Export.FontSize != 11 || cfg.Export.MarginMM != 20 {
		t.Errorf("export defaults: %+v", cfg.Export)
	}
	if cfg.Editor.ClickDebounceMS != 300 {
		t.Errorf("click debounce default: got %d", cfg.Editor.ClickDebounceMS)
	}
	if cfg.Editor.ToastSuppressMS != 1000 {
		t.Errorf("toast suppress default: got %d", cfg.Editor.ToastSuppressMS)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{Debug: true, Project: "harbour"}
	ApplyDefaults(cfg)
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Project != "harbour" || !loaded.Debug {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Editor.AutosaveDelayMS != cfg.Editor.AutosaveDelayMS {
		t.Errorf("editor timings lost: %+v", loaded.Editor)
	}
}
