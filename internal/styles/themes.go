package styles

import (
	"regexp"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu protects access to themeRegistry and currentTheme for thread safety
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors
type ColorPalette struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`

	Success string `json:"success"`
	Error   string `json:"error"`

	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`

	BgPrimary   string `json:"bgPrimary"`
	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`

	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`

	Link             string `json:"link"`
	Caret            string `json:"caret"`
	ToastSuccessText string `json:"toastSuccessText"`
	ToastErrorText   string `json:"toastErrorText"`

	MarkdownTheme string `json:"markdownTheme"` // Glamour style for the help overlay
}

// Theme is a named palette.
type Theme struct {
	Name   string       `json:"name"`
	Colors ColorPalette `json:"colors"`
}

// Built-in themes
var (
	LightTheme = Theme{
		Name: "light",
		Colors: ColorPalette{
			Primary: "#6D28D9",
			Accent:  "#B45309",

			Success: "#047857",
			Error:   "#B91C1C",

			TextPrimary:   "#111827",
			TextSecondary: "#374151",
			TextMuted:     "#6B7280",

			BgPrimary:   "#FFFFFF",
			BgSecondary: "#F3F4F6",
			BgTertiary:  "#E5E7EB",

			BorderNormal: "#D1D5DB",
			BorderActive: "#6D28D9",

			Link:             "#1D4ED8",
			Caret:            "#111827",
			ToastSuccessText: "#FFFFFF",
			ToastErrorText:   "#FFFFFF",

			MarkdownTheme: "light",
		},
	}

	DarkTheme = Theme{
		Name: "dark",
		Colors: ColorPalette{
			Primary: "#7C3AED",
			Accent:  "#F59E0B",

			Success: "#10B981",
			Error:   "#EF4444",

			TextPrimary:   "#F9FAFB",
			TextSecondary: "#9CA3AF",
			TextMuted:     "#6B7280",

			BgPrimary:   "#111827",
			BgSecondary: "#1F2937",
			BgTertiary:  "#374151",

			BorderNormal: "#374151",
			BorderActive: "#7C3AED",

			Link:             "#60A5FA",
			Caret:            "#F9FAFB",
			ToastSuccessText: "#000000",
			ToastErrorText:   "#FFFFFF",

			MarkdownTheme: "dark",
		},
	}
)

// themeRegistry holds all available themes
var themeRegistry = map[string]Theme{
	"light": LightTheme,
	"dark":  DarkTheme,
}

// currentTheme tracks the active theme name
var currentTheme = "light"

// IsValidHexColor checks if a string is a valid hex color code (#RRGGBB or #RRGGBBAA)
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme checks if a theme name exists in the registry
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := themeRegistry[name]
	return ok
}

// GetTheme returns a theme by name, or the light theme if not found
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return LightTheme
}

// GetCurrentThemeName returns the name of the currently active theme
func GetCurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ApplyTheme applies a theme by name, updating all style variables.
// Unknown names apply the light theme.
func ApplyTheme(name string) {
	theme := GetTheme(name)
	ApplyThemeColors(theme)
	themeMu.Lock()
	currentTheme = theme.Name
	themeMu.Unlock()
}

// Toggle switches between light and dark and returns the new theme name.
func Toggle() string {
	next := "dark"
	if GetCurrentThemeName() == "dark" {
		next = "light"
	}
	ApplyTheme(next)
	return next
}

// ApplyThemeColors updates all style package variables from a theme.
// It must only be called from the bubbletea update loop or before the
// program starts.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Error = lipgloss.Color(c.Error)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)

	BgPrimary = lipgloss.Color(c.BgPrimary)
	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)

	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)

	LinkColor = lipgloss.Color(c.Link)
	CaretColor = lipgloss.Color(c.Caret)
	ToastSuccessTextColor = lipgloss.Color(c.ToastSuccessText)
	ToastErrorTextColor = lipgloss.Color(c.ToastErrorText)

	CurrentMarkdownTheme = c.MarkdownTheme

	rebuildStyles()
}

// GetMarkdownTheme returns the glamour style matching the current theme.
func GetMarkdownTheme() string {
	return CurrentMarkdownTheme
}
