package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Project == "" {
		cfg.Project = "default"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/dowgen/data/variables.db"
	}
	if cfg.Template.Path == "" {
		cfg.Template.Path = "/usr/local/var/dowgen/templates/dow.md"
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "."
	}
	if cfg.Export.FontFamily == "" {
		cfg.Export.FontFamily = "Helvetica"
	}
	if cfg.Export.FontSize == 0 {
		cfg.Export.FontSize = 11
	}
	if cfg.Export.MarginMM == 0 {
		cfg.Export.MarginMM = 20
	}
	if cfg.Editor.AutosaveDelayMS == 0 {
		cfg.Editor.AutosaveDelayMS = 800
	}
	if cfg.Editor.ClickDebounceMS == 0 {
		cfg.Editor.ClickDebounceMS = 300
	}
	if cfg.Editor.ToastSuppressMS == 0 {
		cfg.Editor.ToastSuppressMS = 1000
	}
	if cfg.Editor.WatchDebounceMS == 0 {
		cfg.Editor.WatchDebounceMS = 400
	}
}
