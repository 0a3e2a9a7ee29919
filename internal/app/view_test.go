package app

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/memopad/internal/keymap"
)

func TestView_Layout(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, typeText("hello"))

	view := ansi.Strip(m.View())
	for _, want := range []string{"Memo 1 •", "Memo 2", "Memo 3", "hello", "ctrl+s  save"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if n := strings.Count(view, "\n") + 1; n != 24 {
		t.Errorf("View() has %d lines, want 24", n)
	}
}

func TestView_TooSmall(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 4})
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("View() should warn about a small terminal")
	}
}

func TestView_ScrollsToCaret(t *testing.T) {
	m, _ := newTestModel(t)
	for range 40 {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	m, _ = update(t, m, typeText("bottom"))

	_, height := m.editorSize()
	if got, want := m.session.Buffer().ScrollOffset(), 40-height+1; got != want {
		t.Errorf("ScrollOffset() = %d, want %d", got, want)
	}
	if !strings.Contains(ansi.Strip(m.View()), "bottom") {
		t.Error("the caret line should be visible")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	if got, want := m.session.Buffer().ScrollOffset(), 40-2*height+1; got != want {
		t.Errorf("ScrollOffset() after pgup = %d, want %d", got, want)
	}
}

func TestHelp_ToggleAndClose(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if !m.showHelp || m.helpView == "" {
		t.Fatal("f1 should open the help overlay")
	}

	// Typing is ignored while help is open.
	m, _ = update(t, m, typeText("x"))
	if m.session.Content() != "" {
		t.Errorf("typing under help changed content to %q", m.session.Content())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Error("esc should close help")
	}
}

func TestHelpMarkdown(t *testing.T) {
	m, _ := newTestModel(t)
	md := m.helpMarkdown()
	for _, want := range []string{"## Editing", "`ctrl+v` paste", "`alt+2` memo 2", "`ctrl+c, ctrl+q` quit"} {
		if !strings.Contains(md, want) {
			t.Errorf("helpMarkdown() missing %q", want)
		}
	}
}

func TestFormatCommandName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{keymap.CmdCycleFontSize, "cycle font size"},
		{keymap.TabCommand(4), "memo 4"},
		{keymap.CmdSave, "save"},
	}
	for _, tt := range tests {
		if got := formatCommandName(tt.in); got != tt.want {
			t.Errorf("formatCommandName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderHintLineTruncated(t *testing.T) {
	hints := []footerHint{{"ctrl+s", "save"}, {"f1", "help"}, {"", "skipped"}}
	// key hints carry one cell of padding on each side
	if got := ansi.Strip(renderHintLineTruncated(hints, 100)); got != " ctrl+s  save   f1  help" {
		t.Errorf("renderHintLineTruncated() = %q", got)
	}
	if got := renderHintLineTruncated(hints, 3); got != "" {
		t.Errorf("renderHintLineTruncated(narrow) = %q, want empty", got)
	}
}
