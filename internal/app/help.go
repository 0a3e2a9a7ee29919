package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/marcus/memopad/internal/keymap"
	"github.com/marcus/memopad/internal/styles"
)

var helpSections = []struct {
	context string
	title   string
}{
	{"memo", "Memo"},
	{"editor", "Editing"},
	{"tabs", "Tabs"},
	{"appearance", "Appearance"},
}

const helpIntro = "URLs and email addresses become links about half a second " +
	"after you stop typing. After a paste, linking waits for the paste to settle."

// helpMarkdown builds the help text from the current bindings.
func (m Model) helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# Keyboard Shortcuts\n\n")
	b.WriteString(helpIntro + "\n\n")
	for _, section := range helpSections {
		bindings := m.keymap.BindingsForContext(section.context)
		if len(bindings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", section.title)
		seen := make(map[string]bool)
		for _, binding := range bindings {
			if seen[binding.Command] {
				continue
			}
			seen[binding.Command] = true
			keys := m.keymap.KeysForCommand(binding.Command)
			if len(keys) == 0 {
				continue
			}
			fmt.Fprintf(&b, "- `%s` %s\n", formatBindingKeys(keys), formatCommandName(binding.Command))
		}
		b.WriteString("\n")
	}
	b.WriteString("Press esc or f1 to close.\n")
	return b.String()
}

// renderHelp renders the help overlay content with glamour in the current
// theme. The raw markdown is shown if rendering fails.
func (m Model) renderHelp() string {
	md := m.helpMarkdown()
	width := max(min(m.width-8, 72), 20)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.GetMarkdownTheme()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.logger.Warn("app: help renderer", "error", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		m.logger.Warn("app: render help", "error", err)
		return md
	}
	return strings.Trim(out, "\n")
}

// formatBindingKeys formats multiple keys into a display string.
func formatBindingKeys(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	// Show up to 2 keys
	if len(keys) > 2 {
		keys = keys[:2]
	}
	return strings.Join(keys, ", ")
}

// formatCommandName converts a command ID to a display name.
func formatCommandName(cmd string) string {
	if n, ok := keymap.TabFromCommand(cmd); ok {
		return fmt.Sprintf("memo %d", n)
	}
	return strings.ReplaceAll(cmd, "-", " ")
}
