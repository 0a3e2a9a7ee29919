package store

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const settingsKey = "settings"

// Defaults applied when nothing has been stored.
const (
	DefaultTheme      = "light"
	DefaultFontFamily = "Paperlogy-3Light"
	DefaultFontSize   = "medium"
	DefaultTabs       = 3
)

// TabSettings is the per-tab display configuration.
type TabSettings struct {
	FontFamily string `json:"fontFamily"`
	FontSize   string `json:"fontSize"`
}

// GlobalSettings holds settings shared by all tabs.
type GlobalSettings struct {
	Theme string `json:"theme"`
}

// DefaultTabSettings returns the settings a tab starts with.
func DefaultTabSettings() TabSettings {
	return TabSettings{FontFamily: DefaultFontFamily, FontSize: DefaultFontSize}
}

// defaultSettings builds the settings document used before anything is
// saved: the light theme and default fonts for the first three tabs.
func defaultSettings() string {
	doc := `{"theme":"` + DefaultTheme + `","tabSettings":{}}`
	for id := 1; id <= DefaultTabs; id++ {
		doc, _ = sjson.Set(doc, tabPath(id), DefaultTabSettings())
	}
	return doc
}

// tabPath addresses a tab's entry. The colon makes sjson treat the numeric
// id as an object key instead of an array index.
func tabPath(tabID int) string {
	return "tabSettings.:" + strconv.Itoa(tabID)
}

// settingsDoc returns the stored settings document, or the defaults when
// none is stored or the stored one is not valid JSON.
func (s *Store) settingsDoc() (string, error) {
	doc, ok, err := s.getKV(settingsKey)
	if err != nil {
		return "", err
	}
	if !ok {
		return defaultSettings(), nil
	}
	if !gjson.Valid(doc) {
		s.logger.Warn("store: stored settings are not valid JSON, using defaults")
		return defaultSettings(), nil
	}
	return doc, nil
}

// updateSettings applies fn to the settings document and writes it back.
func (s *Store) updateSettings(fn func(doc string) (string, error)) error {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	doc, err := s.settingsDoc()
	if err != nil {
		return err
	}
	doc, err = fn(doc)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return s.putKV(settingsKey, doc)
}

// SaveTabSettings stores the settings for one tab, keeping every other
// entry of the settings document.
func (s *Store) SaveTabSettings(tabID int, ts TabSettings) error {
	if err := checkTabID(tabID); err != nil {
		return err
	}
	return s.updateSettings(func(doc string) (string, error) {
		return sjson.Set(doc, tabPath(tabID), ts)
	})
}

// LoadTabSettings returns the settings for a tab. Missing tabs and missing
// fields fall back to the defaults.
func (s *Store) LoadTabSettings(tabID int) (TabSettings, error) {
	if err := checkTabID(tabID); err != nil {
		return TabSettings{}, err
	}
	doc, err := s.settingsDoc()
	if err != nil {
		return TabSettings{}, err
	}

	ts := DefaultTabSettings()
	entry := gjson.Get(doc, "tabSettings."+strconv.Itoa(tabID))
	if v := entry.Get("fontFamily").String(); v != "" {
		ts.FontFamily = v
	}
	if v := entry.Get("fontSize").String(); v != "" {
		ts.FontSize = v
	}
	return ts, nil
}

// SaveGlobalSettings stores the global settings. Tab settings are kept.
func (s *Store) SaveGlobalSettings(g GlobalSettings) error {
	return s.updateSettings(func(doc string) (string, error) {
		return sjson.Set(doc, "theme", g.Theme)
	})
}

// LoadGlobalSettings returns the global settings, defaulting the theme.
func (s *Store) LoadGlobalSettings() (GlobalSettings, error) {
	doc, err := s.settingsDoc()
	if err != nil {
		return GlobalSettings{}, err
	}
	g := GlobalSettings{Theme: DefaultTheme}
	if v := gjson.Get(doc, "theme").String(); v != "" {
		g.Theme = v
	}
	return g, nil
}

// HasSettings reports whether a settings document has been saved.
func (s *Store) HasSettings() (bool, error) {
	_, ok, err := s.getKV(settingsKey)
	return ok, err
}
