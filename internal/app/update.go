package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/memopad/internal/config"
	"github.com/marcus/memopad/internal/editor"
	"github.com/marcus/memopad/internal/export"
	"github.com/marcus/memopad/internal/keymap"
	"github.com/marcus/memopad/internal/msg"
	"github.com/marcus/memopad/internal/store"
	"github.com/marcus/memopad/internal/styles"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.clampScroll()
		if m.showHelp {
			m.helpView = m.renderHelp()
		}
		return m, nil

	case TickMsg:
		m.clock = time.Time(message)
		m.ClearToast()
		return m, tickCmd()

	case msg.ToastMsg:
		if message.IsError {
			m.ShowErrorToast(message.Message, message.Duration)
		} else {
			m.ShowToast(message.Message, message.Duration)
		}
		return m, nil

	case ErrorMsg:
		m.reportError("error", message.Err)
		return m, nil

	case editor.LinkifyTickMsg, editor.PasteSettledMsg:
		ran, cmd := m.session.HandleTick(message)
		if !ran {
			return m, cmd
		}
		if m.ready {
			m.clampScroll()
		}
		// Every settled edit is saved, linkified or not.
		if m.session.NeedsSave() {
			save := saveMemoCmd(m.writer, m.ActiveTab(), m.session.Content(), false)
			return m, tea.Batch(cmd, save)
		}
		return m, cmd

	case tabLoadedMsg:
		m.loading = false
		if message.Err != nil {
			m.reportError("save memo", message.Err)
		}
		if message.LoadErr != nil {
			m.reportError("load memo", message.LoadErr)
		}
		m.applyTab(message)
		return m, nil

	case memoSavedMsg:
		if message.Err != nil {
			m.reportError("save memo", message.Err)
			return m, nil
		}
		if message.Written && message.TabID == m.ActiveTab() {
			m.session.MarkSaved(message.Content)
		}
		if message.Notify {
			m.ShowToast("Saved", toastDuration)
		}
		return m, nil

	case clipboardMsg:
		if message.Err != nil {
			m.reportError("read clipboard", message.Err)
			return m, nil
		}
		if message.Text == "" {
			return m, msg.ShowErrorToast("Clipboard is empty", toastDuration)
		}
		return m.paste(message.Text)

	case exportedMsg:
		if message.Err != nil {
			m.reportError("export", message.Err)
			return m, nil
		}
		m.ShowToast(message.Status, toastDuration)
		return m, nil

	case configReloadedMsg:
		m.applyConfig(message)
		return m, waitForConfig(m.watcher)
	}

	return m, nil
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp && key.Type == tea.KeyEsc {
		m.showHelp = false
		return m, nil
	}
	if key.Paste {
		return m.paste(string(key.Runes))
	}
	if cmdID, ok := m.keymap.Lookup(key.String()); ok {
		return m.runCommand(cmdID)
	}
	if m.showHelp {
		return m, nil
	}
	switch key.Type {
	case tea.KeyRunes, tea.KeySpace:
		text := string(key.Runes)
		return m.edit(func(b *editor.Buffer) { b.InsertText(text) })
	case tea.KeyTab:
		return m.edit(func(b *editor.Buffer) { b.InsertText("\t") })
	}
	return m, nil
}

// edit applies an edit to the buffer and restarts the linkify debounce.
func (m Model) edit(fn func(*editor.Buffer)) (tea.Model, tea.Cmd) {
	if m.loading || m.showHelp {
		return m, nil
	}
	fn(m.session.Buffer())
	m.scrollToCaret()
	return m, m.session.Input()
}

// move applies a caret movement and drops the keyboard selection.
// Movement does not schedule linkify.
func (m Model) move(fn func(*editor.Buffer)) (tea.Model, tea.Cmd) {
	if m.loading || m.showHelp {
		return m, nil
	}
	m.session.Buffer().ClearMark()
	fn(m.session.Buffer())
	m.scrollToCaret()
	return m, nil
}

// selectMove extends the keyboard selection with a caret movement.
func (m Model) selectMove(fn func(*editor.Buffer)) (tea.Model, tea.Cmd) {
	if m.loading || m.showHelp {
		return m, nil
	}
	m.session.Buffer().SetMark()
	fn(m.session.Buffer())
	m.scrollToCaret()
	return m, nil
}

// paste inserts text and suppresses linkify until the paste settles.
func (m Model) paste(text string) (tea.Model, tea.Cmd) {
	if m.loading || m.showHelp {
		return m, nil
	}
	cmd := m.session.Paste(text)
	m.scrollToCaret()
	return m, cmd
}

// runCommand executes a keymap command.
func (m Model) runCommand(cmdID string) (tea.Model, tea.Cmd) {
	if n, ok := keymap.TabFromCommand(cmdID); ok {
		cmd := m.switchTab(n)
		return m, cmd
	}

	switch cmdID {
	case keymap.CmdQuit:
		cmd := m.quit()
		return m, cmd

	case keymap.CmdHelp:
		m.showHelp = !m.showHelp
		if m.showHelp {
			m.helpView = m.renderHelp()
		}
		return m, nil

	case keymap.CmdToggleFooter:
		m.showFooter = !m.showFooter
		show, path := m.showFooter, m.cfgPath
		m.clampScroll()
		return m, persistCmd("save config", func() error {
			return config.SaveShowFooter(path, show)
		})

	case keymap.CmdNextTab:
		cmd := m.cycleTab(1)
		return m, cmd
	case keymap.CmdPrevTab:
		cmd := m.cycleTab(-1)
		return m, cmd

	case keymap.CmdToggleTheme:
		theme := styles.Toggle()
		if m.showHelp {
			m.helpView = m.renderHelp()
		}
		st := m.store
		return m, persistCmd("save theme", func() error {
			return st.SaveGlobalSettings(store.GlobalSettings{Theme: theme})
		})
	}

	if m.loading || m.showHelp {
		return m, nil
	}

	switch cmdID {
	case keymap.CmdSave:
		if !m.session.NeedsSave() {
			m.ShowToast("Already saved", toastDuration)
			return m, nil
		}
		return m, saveMemoCmd(m.writer, m.ActiveTab(), m.session.Content(), true)

	case keymap.CmdPaste:
		return m, readClipboardCmd()

	case keymap.CmdCycleFont:
		ts := m.settings()
		ts.FontFamily = m.nextFontFamily()
		cmd := m.saveTabSettings(ts)
		return m, cmd

	case keymap.CmdCycleFontSize:
		ts := m.settings()
		ts.FontSize = m.nextFontSize()
		cmd := m.saveTabSettings(ts)
		return m, cmd

	case keymap.CmdDownload:
		return m, downloadCmd(m.cfg.Export.Dir, m.ActiveTab(), m.session.Content(), m.now())

	case keymap.CmdCopy:
		if sel := m.session.Buffer().SelectedText(); sel != "" {
			return m, copyCmd(sel, "Copied selection")
		}
		return m, copyCmd(export.PlainText(m.session.Content()), "Copied memo")

	case keymap.CmdOpenLink:
		href, ok := m.session.Buffer().LinkAtCaret()
		if !ok {
			m.ShowToast("No link at caret", toastDuration)
			return m, nil
		}
		return m, openLinkCmd(href)

	case keymap.CmdLinkifyNow:
		if m.session.Linkify() {
			m.clampScroll()
		}
		return m, nil

	case keymap.CmdNewline:
		return m.edit((*editor.Buffer).InsertLineBreak)
	case keymap.CmdDeleteBack:
		return m.edit((*editor.Buffer).DeleteBackward)
	case keymap.CmdCursorLeft:
		return m.move((*editor.Buffer).MoveLeft)
	case keymap.CmdCursorRight:
		return m.move((*editor.Buffer).MoveRight)
	case keymap.CmdCursorUp:
		return m.move((*editor.Buffer).MoveUp)
	case keymap.CmdCursorDown:
		return m.move((*editor.Buffer).MoveDown)
	case keymap.CmdCursorEnd:
		return m.move((*editor.Buffer).MoveToEnd)
	case keymap.CmdSelectLeft:
		return m.selectMove((*editor.Buffer).MoveLeft)
	case keymap.CmdSelectRight:
		return m.selectMove((*editor.Buffer).MoveRight)
	case keymap.CmdSelectUp:
		return m.selectMove((*editor.Buffer).MoveUp)
	case keymap.CmdSelectDown:
		return m.selectMove((*editor.Buffer).MoveDown)

	case keymap.CmdScrollUp:
		_, h := m.editorSize()
		m.scrollBy(-h)
		return m, nil
	case keymap.CmdScrollDown:
		_, h := m.editorSize()
		m.scrollBy(h)
		return m, nil
	}
	return m, nil
}

// saveTabSettings applies ts to the active tab and persists it.
func (m *Model) saveTabSettings(ts store.TabSettings) tea.Cmd {
	tab := m.ActiveTab()
	m.tabSettings[tab] = ts
	m.clampScroll()
	st := m.store
	return tea.Batch(
		persistCmd("save tab settings", func() error { return st.SaveTabSettings(tab, ts) }),
		msg.ShowToast(ts.FontFamily+" · "+ts.FontSize, toastDuration),
	)
}

// quit saves the active memo and scroll position, then exits.
func (m *Model) quit() tea.Cmd {
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.logger.Warn("app: close config watcher", "error", err)
		}
	}
	if m.loading || m.ActiveTab() < 1 {
		return tea.Quit
	}
	m.rememberScroll()
	if !m.session.NeedsSave() {
		return tea.Quit
	}
	return tea.Sequence(saveMemoCmd(m.writer, m.ActiveTab(), m.session.Content(), false), tea.Quit)
}

// applyConfig applies the settings that take effect without a restart.
func (m *Model) applyConfig(reload configReloadedMsg) {
	cfg := reload.Config
	m.session.SetOptions(sessionOptions(cfg))
	m.cfg.Editor.TypingDelay = cfg.Editor.TypingDelay
	m.cfg.Editor.PasteDelay = cfg.Editor.PasteDelay
	m.cfg.Editor.FontFamilies = cfg.Editor.FontFamilies
	m.cfg.Export = cfg.Export
	for key, cmdID := range cfg.Keymap.Overrides {
		m.keymap.SetUserOverride(key, cmdID)
	}
	if cfg.UI.ShowFooter != m.showFooter {
		m.showFooter = cfg.UI.ShowFooter
		m.clampScroll()
	}
	m.logger.Info("app: config reloaded")
}
