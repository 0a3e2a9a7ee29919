// Package theme picks the theme memopad starts with.
package theme

import (
	"log/slog"

	"github.com/marcus/memopad/internal/config"
	"github.com/marcus/memopad/internal/store"
	"github.com/marcus/memopad/internal/styles"
)

// Settings is the stored settings source.
type Settings interface {
	HasSettings() (bool, error)
	LoadGlobalSettings() (store.GlobalSettings, error)
}

// Resolved is the effective theme and where it came from.
type Resolved struct {
	Name   string
	Source string // "stored", "config" or "default"
}

// Resolve determines the startup theme.
// Priority: stored theme > config ui.theme > light.
// Storage errors are logged and fall through to the config.
func Resolve(cfg *config.Config, settings Settings, logger *slog.Logger) Resolved {
	if logger == nil {
		logger = slog.Default()
	}
	if settings != nil {
		if r, ok := storedTheme(settings, logger); ok {
			return r
		}
	}
	if cfg != nil && styles.IsValidTheme(cfg.UI.Theme) {
		return Resolved{Name: cfg.UI.Theme, Source: "config"}
	}
	return Resolved{Name: store.DefaultTheme, Source: "default"}
}

func storedTheme(settings Settings, logger *slog.Logger) (Resolved, bool) {
	ok, err := settings.HasSettings()
	if err != nil {
		logger.Warn("theme: read settings", "error", err)
		return Resolved{}, false
	}
	if !ok {
		return Resolved{}, false
	}
	g, err := settings.LoadGlobalSettings()
	if err != nil {
		logger.Warn("theme: read settings", "error", err)
		return Resolved{}, false
	}
	if !styles.IsValidTheme(g.Theme) {
		logger.Warn("theme: unknown stored theme", "theme", g.Theme)
		return Resolved{}, false
	}
	return Resolved{Name: g.Theme, Source: "stored"}, true
}

// Apply applies a resolved theme to the styles system.
func Apply(r Resolved) {
	styles.ApplyTheme(r.Name)
}
