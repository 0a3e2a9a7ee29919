package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/memopad/internal/keymap"
	"github.com/marcus/memopad/internal/styles"
	"github.com/marcus/memopad/internal/ui"
)

const (
	minWidth  = 30
	minHeight = 8
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show warning if terminal is too small
	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render(msg))
	}

	var b strings.Builder
	b.WriteString(m.renderTabBar())
	b.WriteString("\n")
	b.WriteString(m.renderEditor())
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	bg := b.String()
	if m.showHelp {
		return ui.Overlay(bg, styles.HelpBox.Render(m.helpView), m.width, m.height)
	}
	return bg
}

// renderTabBar renders the memo tabs with the active tab's font settings on
// the right.
func (m Model) renderTabBar() string {
	tabs := make([]string, 0, m.cfg.Editor.Tabs)
	for n := 1; n <= m.cfg.Editor.Tabs; n++ {
		label := fmt.Sprintf("Memo %d", n)
		if n == m.ActiveTab() && m.session.NeedsSave() {
			label += styles.Dirty.Render(" •")
		}
		tabs = append(tabs, styles.RenderTab(label, n == m.ActiveTab()))
	}
	tabBar := strings.Join(tabs, " ")

	ts := m.settings()
	info := styles.Muted.Render(fmt.Sprintf("%s · %s ", ts.FontFamily, ts.FontSize))
	if !m.clock.IsZero() {
		info += styles.Muted.Render(m.clock.Format("15:04") + " ")
	}

	spacing := max(m.width-lipgloss.Width(tabBar)-lipgloss.Width(info), 0)
	line := tabBar + strings.Repeat(" ", spacing) + info
	return styles.TabBar.Width(m.width).MaxWidth(m.width).Render(line)
}

// renderEditor renders the memo through the viewport at the buffer's
// scroll offset.
func (m Model) renderEditor() string {
	if m.loading && m.ActiveTab() == 0 {
		_, height := m.editorSize()
		return styles.Editor.Render(lipgloss.Place(m.width-editorChrome-editorPad, height,
			lipgloss.Center, lipgloss.Center, styles.Muted.Render("Loading memo...")))
	}
	m.syncViewport()
	return styles.Editor.Render(m.viewport.View())
}

// renderFooter renders the bottom bar with key hints and status.
func (m Model) renderFooter() string {
	var status string
	if m.statusMsg != "" {
		status = styles.RenderToast(m.statusMsg, m.statusIsError)
	}

	statusWidth := lipgloss.Width(status)
	minSpacing := 2
	hints := renderHintLineTruncated(m.footerHints(), m.width-statusWidth-minSpacing)

	spacing := max(m.width-lipgloss.Width(hints)-statusWidth, 0)
	footer := hints + strings.Repeat(" ", spacing) + status

	// Use MaxWidth to prevent wrapping and ensure single line
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

type footerHint struct {
	keys  string
	label string
}

func (m Model) footerHints() []footerHint {
	specs := []struct {
		id    string
		label string
	}{
		{id: keymap.CmdSave, label: "save"},
		{id: keymap.CmdPaste, label: "paste"},
		{id: keymap.CmdOpenLink, label: "open link"},
		{id: keymap.CmdNextTab, label: "next memo"},
		{id: keymap.CmdToggleTheme, label: "theme"},
		{id: keymap.CmdDownload, label: "download"},
		{id: keymap.CmdHelp, label: "help"},
		{id: keymap.CmdQuit, label: "quit"},
	}

	var hints []footerHint
	for _, spec := range specs {
		keys := m.keymap.KeysForCommand(spec.id)
		if len(keys) == 0 {
			continue
		}
		hints = append(hints, footerHint{keys: keys[0], label: spec.label})
	}
	return hints
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is exceeded.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	separator := "  "
	for _, hint := range hints {
		if hint.keys == "" || hint.label == "" {
			continue
		}
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if result != "" {
			candidate = result + separator + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break
		}
		result = candidate
	}
	return result
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
