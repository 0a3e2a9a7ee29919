package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Storage StorageConfig    `json:"storage"`
	Editor  saveEditorConfig `json:"editor"`
	Export  ExportConfig     `json:"export"`
	Keymap  KeymapConfig     `json:"keymap"`
	UI      saveUIConfig     `json:"ui"`
}

type saveEditorConfig struct {
	Tabs              int      `json:"tabs"`
	TypingDelay       string   `json:"typingDelay"`
	PasteDelay        string   `json:"pasteDelay"`
	FontFamilies      []string `json:"fontFamilies,omitempty"`
	DefaultFontFamily string   `json:"defaultFontFamily,omitempty"`
	DefaultFontSize   string   `json:"defaultFontSize,omitempty"`
}

type saveUIConfig struct {
	ShowFooter *bool  `json:"showFooter"`
	Theme      string `json:"theme,omitempty"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	showFooter := cfg.UI.ShowFooter
	return saveConfig{
		Storage: cfg.Storage,
		Editor: saveEditorConfig{
			Tabs:              cfg.Editor.Tabs,
			TypingDelay:       cfg.Editor.TypingDelay.String(),
			PasteDelay:        cfg.Editor.PasteDelay.String(),
			FontFamilies:      cfg.Editor.FontFamilies,
			DefaultFontFamily: cfg.Editor.DefaultFontFamily,
			DefaultFontSize:   cfg.Editor.DefaultFontSize,
		},
		Export: cfg.Export,
		Keymap: cfg.Keymap,
		UI: saveUIConfig{
			ShowFooter: &showFooter,
			Theme:      cfg.UI.Theme,
		},
	}
}

// Save writes the config to ~/.config/memopad/config.json
func Save(cfg *Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path. Top-level keys memopad does not manage
// are kept as they are in the existing file.
func SaveTo(path string, cfg *Config) error {
	if path == "" {
		return fmt.Errorf("save config: no path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	doc := make(map[string]json.RawMessage)
	if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse existing config: %w", err)
		}
	}

	managed, err := json.Marshal(toSaveConfig(cfg))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(managed, &fields); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	for k, v := range fields {
		doc[k] = v
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// SaveShowFooter updates only ui.showFooter in the config at path.
func SaveShowFooter(path string, show bool) error {
	if path == "" {
		path = ConfigPath()
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return err
	}
	cfg.UI.ShowFooter = show
	return SaveTo(path, cfg)
}
