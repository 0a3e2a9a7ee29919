package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configDir  = ".config/memopad"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary.
type rawConfig struct {
	Storage rawStorageConfig `json:"storage"`
	Editor  rawEditorConfig  `json:"editor"`
	Export  ExportConfig     `json:"export"`
	Keymap  KeymapConfig     `json:"keymap"`
	UI      rawUIConfig      `json:"ui"`
}

type rawStorageConfig struct {
	Driver string `json:"driver"`
	Path   string `json:"path"`
}

type rawEditorConfig struct {
	Tabs              *int     `json:"tabs"`
	TypingDelay       string   `json:"typingDelay"`
	PasteDelay        string   `json:"pasteDelay"`
	FontFamilies      []string `json:"fontFamilies"`
	DefaultFontFamily string   `json:"defaultFontFamily"`
	DefaultFontSize   string   `json:"defaultFontSize"`
}

type rawUIConfig struct {
	ShowFooter *bool  `json:"showFooter"`
	Theme      string `json:"theme"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/memopad/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) || path == "":
		// Defaults when there is no config file
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		var raw rawConfig
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeConfig(cfg, &raw)
	}

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Export.Dir = ExpandPath(cfg.Export.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Storage
	if raw.Storage.Driver != "" {
		cfg.Storage.Driver = raw.Storage.Driver
	}
	if raw.Storage.Path != "" {
		cfg.Storage.Path = raw.Storage.Path
	}

	// Editor
	if raw.Editor.Tabs != nil {
		cfg.Editor.Tabs = *raw.Editor.Tabs
	}
	if raw.Editor.TypingDelay != "" {
		if d, err := time.ParseDuration(raw.Editor.TypingDelay); err == nil {
			cfg.Editor.TypingDelay = d
		}
	}
	if raw.Editor.PasteDelay != "" {
		if d, err := time.ParseDuration(raw.Editor.PasteDelay); err == nil {
			cfg.Editor.PasteDelay = d
		}
	}
	if len(raw.Editor.FontFamilies) > 0 {
		cfg.Editor.FontFamilies = raw.Editor.FontFamilies
	}
	if raw.Editor.DefaultFontFamily != "" {
		cfg.Editor.DefaultFontFamily = raw.Editor.DefaultFontFamily
	}
	if raw.Editor.DefaultFontSize != "" {
		cfg.Editor.DefaultFontSize = raw.Editor.DefaultFontSize
	}

	// Export
	if raw.Export.Dir != "" {
		cfg.Export.Dir = raw.Export.Dir
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}

	// UI
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.Theme != "" {
		cfg.UI.Theme = raw.UI.Theme
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// Dir returns the memopad config directory, where state and logs live.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir)
}
