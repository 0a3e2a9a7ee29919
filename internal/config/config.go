package config

import (
	"fmt"
	"slices"
	"time"
)

// Storage drivers. They match the database/sql driver names.
const (
	DriverCGO  = "sqlite3"
	DriverPure = "sqlite"
)

// MaxTabs is the number of tabs reachable with alt+1..9.
const MaxTabs = 9

// FontSizes lists the supported font sizes, smallest first.
var FontSizes = []string{"small", "medium", "large"}

// Themes lists the supported themes.
var Themes = []string{"light", "dark"}

// Config is the root configuration structure.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Editor  EditorConfig  `json:"editor"`
	Export  ExportConfig  `json:"export"`
	Keymap  KeymapConfig  `json:"keymap"`
	UI      UIConfig      `json:"ui"`
}

// StorageConfig selects the SQLite driver and database file.
type StorageConfig struct {
	Driver string `json:"driver"` // "sqlite3" (cgo) or "sqlite" (pure Go)
	Path   string `json:"path"`   // supports ~ expansion
}

// EditorConfig configures tabs, fonts and the linkify timers.
type EditorConfig struct {
	Tabs              int           `json:"tabs"`
	TypingDelay       time.Duration `json:"typingDelay"`
	PasteDelay        time.Duration `json:"pasteDelay"`
	FontFamilies      []string      `json:"fontFamilies"`
	DefaultFontFamily string        `json:"defaultFontFamily"`
	DefaultFontSize   string        `json:"defaultFontSize"`
}

// ExportConfig configures text downloads.
type ExportConfig struct {
	Dir string `json:"dir"`
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter bool   `json:"showFooter"`
	Theme      string `json:"theme"` // used until a theme is stored
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: DriverCGO,
			Path:   "~/.config/memopad/memopad.db",
		},
		Editor: EditorConfig{
			Tabs:              3,
			TypingDelay:       500 * time.Millisecond,
			PasteDelay:        time.Second,
			FontFamilies:      []string{"Paperlogy-3Light", "Pretendard", "D2Coding"},
			DefaultFontFamily: "Paperlogy-3Light",
			DefaultFontSize:   "medium",
		},
		Export: ExportConfig{
			Dir: "~/Downloads",
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter: true,
			Theme:      "light",
		},
	}
}

// Validate checks the configuration for errors. Out-of-range values are
// replaced with defaults; an unknown storage driver is an error.
func (c *Config) Validate() error {
	d := Default()

	if c.Storage.Driver != DriverCGO && c.Storage.Driver != DriverPure {
		return fmt.Errorf("storage.driver %q: want %q or %q", c.Storage.Driver, DriverCGO, DriverPure)
	}
	if c.Storage.Path == "" {
		c.Storage.Path = ExpandPath(d.Storage.Path)
	}
	if c.Editor.Tabs < 1 || c.Editor.Tabs > MaxTabs {
		c.Editor.Tabs = d.Editor.Tabs
	}
	if c.Editor.TypingDelay <= 0 {
		c.Editor.TypingDelay = d.Editor.TypingDelay
	}
	if c.Editor.PasteDelay <= 0 {
		c.Editor.PasteDelay = d.Editor.PasteDelay
	}
	if len(c.Editor.FontFamilies) == 0 {
		c.Editor.FontFamilies = d.Editor.FontFamilies
	}
	if !slices.Contains(c.Editor.FontFamilies, c.Editor.DefaultFontFamily) {
		c.Editor.DefaultFontFamily = c.Editor.FontFamilies[0]
	}
	if !slices.Contains(FontSizes, c.Editor.DefaultFontSize) {
		c.Editor.DefaultFontSize = d.Editor.DefaultFontSize
	}
	if !slices.Contains(Themes, c.UI.Theme) {
		c.UI.Theme = d.UI.Theme
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	return nil
}
