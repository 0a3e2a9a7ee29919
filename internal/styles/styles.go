package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - light theme until ApplyTheme runs
var (
	Primary = lipgloss.Color("#6D28D9")
	Accent  = lipgloss.Color("#B45309")

	Success = lipgloss.Color("#047857")
	Error   = lipgloss.Color("#B91C1C")

	TextPrimary   = lipgloss.Color("#111827")
	TextSecondary = lipgloss.Color("#374151")
	TextMuted     = lipgloss.Color("#6B7280")

	BgPrimary   = lipgloss.Color("#FFFFFF")
	BgSecondary = lipgloss.Color("#F3F4F6")
	BgTertiary  = lipgloss.Color("#E5E7EB")

	BorderNormal = lipgloss.Color("#D1D5DB")
	BorderActive = lipgloss.Color("#6D28D9")

	LinkColor             = lipgloss.Color("#1D4ED8")
	CaretColor            = lipgloss.Color("#111827")
	ToastSuccessTextColor = lipgloss.Color("#FFFFFF")
	ToastErrorTextColor   = lipgloss.Color("#FFFFFF")

	CurrentMarkdownTheme = "light"
)

// Styles rebuilt by ApplyThemeColors.
var (
	Title    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Link     lipgloss.Style
	Caret    lipgloss.Style
	Selected lipgloss.Style
	KeyHint  lipgloss.Style
	Footer   lipgloss.Style
	Editor   lipgloss.Style
	HelpBox  lipgloss.Style
	TabBar   lipgloss.Style
	Dirty    lipgloss.Style
	tabOn    lipgloss.Style
	tabOff   lipgloss.Style
	toastOK  lipgloss.Style
	toastErr lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles recreates all lipgloss styles with current colors
func rebuildStyles() {
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Link = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)

	Caret = lipgloss.NewStyle().
		Reverse(true)

	Selected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Footer = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgSecondary)

	Editor = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	HelpBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	TabBar = lipgloss.NewStyle().
		Background(BgSecondary)

	Dirty = lipgloss.NewStyle().
		Foreground(Accent)

	tabOn = lipgloss.NewStyle().
		Background(Primary).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true)

	tabOff = lipgloss.NewStyle().
		Background(BgTertiary).
		Foreground(TextSecondary)

	toastOK = lipgloss.NewStyle().
		Background(Success).
		Foreground(ToastSuccessTextColor).
		Padding(0, 1)

	toastErr = lipgloss.NewStyle().
		Background(Error).
		Foreground(ToastErrorTextColor).
		Padding(0, 1)
}

// RenderTab renders a tab label.
func RenderTab(label string, isActive bool) string {
	padded := "  " + label + "  "
	if isActive {
		return tabOn.Render(padded)
	}
	return tabOff.Render(padded)
}

// RenderToast renders a toast message.
func RenderToast(text string, isError bool) string {
	if isError {
		return toastErr.Render(text)
	}
	return toastOK.Render(text)
}

// FontStyle maps a memo font size to text weight. Terminals have one
// glyph size, so small text is faint and large text is bold.
func FontStyle(size string) lipgloss.Style {
	switch size {
	case "small":
		return Body.Faint(true)
	case "large":
		return Body.Bold(true)
	default:
		return Body
	}
}
