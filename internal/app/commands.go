package app

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/memopad/internal/config"
	"github.com/marcus/memopad/internal/export"
	"github.com/marcus/memopad/internal/store"
)

// Message types for tea.Cmd
type (
	// TickMsg is sent on each clock tick.
	TickMsg time.Time

	// ErrorMsg represents an error condition.
	ErrorMsg struct {
		Err error
	}

	// tabLoadedMsg carries a tab read from the store. Err is set when
	// saving the previous tab failed; LoadErr when the tab could not be
	// read.
	tabLoadedMsg struct {
		TabID    int
		Content  string
		Settings store.TabSettings
		Err      error
		LoadErr  error
	}

	// memoSavedMsg reports a finished memo write. Written is false when a
	// newer write for the tab made this one obsolete.
	memoSavedMsg struct {
		TabID   int
		Content string
		Notify  bool
		Written bool
		Err     error
	}

	// clipboardMsg carries clipboard text for a paste.
	clipboardMsg struct {
		Text string
		Err  error
	}

	// exportedMsg reports a finished download, copy or link open.
	exportedMsg struct {
		Status string
		Err    error
	}

	// configReloadedMsg delivers a config file change.
	configReloadedMsg struct {
		Config *config.Config
	}
)

// tickCmd returns a command that ticks every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// ReportError returns a command to report an error.
func ReportError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// switchTabCmd saves the outgoing tab when it has changes and then loads
// the next one. Both steps run in one command so switches never interleave.
func switchTabCmd(w *memoWriter, from int, content string, dirty bool, to int) tea.Cmd {
	var seq uint64
	if dirty && from > 0 {
		seq = w.issue()
	}
	return func() tea.Msg {
		msg := tabLoadedMsg{TabID: to}
		if seq > 0 {
			if _, err := w.save(seq, from, content); err != nil {
				msg.Err = fmt.Errorf("save tab %d: %w", from, err)
			}
		}
		content, err := w.st.LoadMemo(to)
		if err != nil {
			msg.LoadErr = fmt.Errorf("load tab %d: %w", to, err)
			return msg
		}
		settings, err := w.st.LoadTabSettings(to)
		if err != nil {
			msg.LoadErr = fmt.Errorf("load tab %d settings: %w", to, err)
			return msg
		}
		msg.Content = content
		msg.Settings = settings
		return msg
	}
}

// saveMemoCmd writes a memo. Notify shows a toast once it is saved.
func saveMemoCmd(w *memoWriter, tabID int, content string, notify bool) tea.Cmd {
	seq := w.issue()
	return func() tea.Msg {
		written, err := w.save(seq, tabID, content)
		return memoSavedMsg{TabID: tabID, Content: content, Notify: notify, Written: written, Err: err}
	}
}

// persistCmd runs a settings write and reports only failures.
func persistCmd(what string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return ErrorMsg{Err: fmt.Errorf("%s: %w", what, err)}
		}
		return nil
	}
}

func readClipboardCmd() tea.Cmd {
	return func() tea.Msg {
		text, err := clipboard.ReadAll()
		return clipboardMsg{Text: text, Err: err}
	}
}

func downloadCmd(dir string, tabID int, markup string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := export.Download(dir, tabID, markup, now)
		if err != nil {
			return exportedMsg{Err: err}
		}
		return exportedMsg{Status: "Saved " + path}
	}
}

func copyCmd(text, status string) tea.Cmd {
	return func() tea.Msg {
		if err := export.CopyToClipboard(text); err != nil {
			return exportedMsg{Err: err}
		}
		return exportedMsg{Status: status}
	}
}

func openLinkCmd(href string) tea.Cmd {
	return func() tea.Msg {
		if err := export.OpenLink(href); err != nil {
			return exportedMsg{Err: err}
		}
		return exportedMsg{Status: "Opened " + href}
	}
}

// waitForConfig blocks until the watcher delivers a reload.
func waitForConfig(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-w.Updates()
		if !ok {
			return nil
		}
		return configReloadedMsg{Config: cfg}
	}
}
