package app

import (
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/memopad/internal/config"
	"github.com/marcus/memopad/internal/editor"
	"github.com/marcus/memopad/internal/keymap"
	"github.com/marcus/memopad/internal/state"
	"github.com/marcus/memopad/internal/store"
	"github.com/marcus/memopad/internal/styles"
	"github.com/marcus/memopad/internal/ui"
)

const (
	tabBarHeight = 1
	footerHeight = 1
	editorChrome = 2 // border rows and columns around the editor
	editorPad    = 2 // horizontal padding inside the border

	toastDuration = 3 * time.Second
)

// Model is the root Bubble Tea model for memopad.
type Model struct {
	// Configuration
	cfg     *config.Config
	cfgPath string
	watcher *config.Watcher

	// Collaborators
	store   *store.Store
	writer  *memoWriter
	keymap  *keymap.Registry
	logger  *slog.Logger
	session *editor.Session

	// Tabs
	tabSettings map[int]store.TabSettings
	loading     bool // a tab switch is in flight; edits are dropped

	// UI state
	width, height int
	viewport      viewport.Model
	showHelp      bool
	showFooter    bool
	helpView      string
	clock         time.Time

	// Status/toast messages
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	// Error handling
	lastError error

	// Ready state
	ready bool

	now func() time.Time
}

// New creates the application model. The first tab load starts in Init.
// watcher may be nil.
func New(cfg *config.Config, cfgPath string, st *store.Store, km *keymap.Registry, watcher *config.Watcher, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		cfg:         cfg,
		cfgPath:     cfgPath,
		watcher:     watcher,
		store:       st,
		writer:      newMemoWriter(st),
		keymap:      km,
		logger:      logger,
		session:     editor.NewSession(sessionOptions(cfg), logger),
		tabSettings: make(map[int]store.TabSettings),
		loading:     true,
		viewport:    viewport.New(0, 0),
		showFooter:  cfg.UI.ShowFooter,
		now:         time.Now,
	}
}

func sessionOptions(cfg *config.Config) editor.Options {
	return editor.Options{
		TypingDelay: cfg.Editor.TypingDelay,
		PasteDelay:  cfg.Editor.PasteDelay,
	}
}

// Init loads the last active tab and starts the clock and config watch.
func (m Model) Init() tea.Cmd {
	tab := min(max(state.GetActiveTab(), 1), m.cfg.Editor.Tabs)
	return tea.Batch(
		switchTabCmd(m.writer, 0, "", false, tab),
		tickCmd(),
		waitForConfig(m.watcher),
	)
}

// ActiveTab returns the tab being edited, or 0 before the first load.
func (m Model) ActiveTab() int {
	return m.session.TabID()
}

// settings returns the active tab's settings.
func (m Model) settings() store.TabSettings {
	if ts, ok := m.tabSettings[m.ActiveTab()]; ok {
		return ts
	}
	return store.TabSettings{
		FontFamily: m.cfg.Editor.DefaultFontFamily,
		FontSize:   m.cfg.Editor.DefaultFontSize,
	}
}

// switchTab starts loading tab n. Requests while a switch is in flight or
// for the current tab are ignored.
func (m *Model) switchTab(n int) tea.Cmd {
	if m.loading || n < 1 || n > m.cfg.Editor.Tabs || n == m.ActiveTab() {
		return nil
	}
	m.loading = true
	m.rememberScroll()
	return switchTabCmd(m.writer, m.ActiveTab(), m.session.Content(), m.session.NeedsSave(), n)
}

// cycleTab moves delta tabs, wrapping around.
func (m *Model) cycleTab(delta int) tea.Cmd {
	n := m.cfg.Editor.Tabs
	next := ((m.ActiveTab()-1+delta)%n+n)%n + 1
	return m.switchTab(next)
}

// applyTab installs a loaded tab. A tab that failed to load is shown empty
// with default settings.
func (m *Model) applyTab(msg tabLoadedMsg) {
	if msg.LoadErr != nil {
		m.session.Reset(msg.TabID, "")
		delete(m.tabSettings, msg.TabID)
	} else {
		m.session.Reset(msg.TabID, msg.Content)
		m.tabSettings[msg.TabID] = msg.Settings
	}
	m.session.Buffer().SetScrollOffset(state.GetScroll(msg.TabID))
	if m.ready {
		m.clampScroll()
	}
	if err := state.SetActiveTab(msg.TabID); err != nil {
		m.logger.Warn("app: save active tab", "error", err)
	}
}

func (m *Model) rememberScroll() {
	if m.ActiveTab() < 1 {
		return
	}
	if err := state.SetScroll(m.ActiveTab(), m.session.Buffer().ScrollOffset()); err != nil {
		m.logger.Warn("app: save scroll", "tab", m.ActiveTab(), "error", err)
	}
}

// editorSize returns the text area inside the editor frame.
func (m Model) editorSize() (width, height int) {
	width = m.width - editorChrome - editorPad
	height = m.height - tabBarHeight - editorChrome
	if m.showFooter {
		height -= footerHeight
	}
	return max(width, 1), max(height, 1)
}

// page lays out the active memo.
func (m Model) page() ui.Page {
	width, _ := m.editorSize()
	buf := m.session.Buffer()
	start, end, _ := buf.Marked()
	segs := segments(buf.Spans(), start, end)
	return ui.Layout(segs, buf.Caret(), width, styles.FontStyle(m.settings().FontSize))
}

// segments converts spans to layout segments, splitting them so that the
// flat range [start, end) is marked selected.
func segments(spans []editor.Span, start, end int) []ui.Segment {
	segs := make([]ui.Segment, 0, len(spans))
	pos := 0
	for _, s := range spans {
		link := s.Href != ""
		lo := min(max(start-pos, 0), len(s.Text))
		hi := min(max(end-pos, lo), len(s.Text))
		for _, part := range []struct {
			text     string
			selected bool
		}{
			{s.Text[:lo], false},
			{s.Text[lo:hi], true},
			{s.Text[hi:], false},
		} {
			if part.text != "" {
				segs = append(segs, ui.Segment{Text: part.text, Link: link, Selected: part.selected})
			}
		}
		pos += len(s.Text)
	}
	return segs
}

// scrollToCaret scrolls the minimum needed to show the caret.
func (m *Model) scrollToCaret() {
	_, height := m.editorSize()
	row := m.page().CaretRow
	buf := m.session.Buffer()
	top := buf.ScrollOffset()
	switch {
	case row < top:
		top = row
	case row >= top+height:
		top = row - height + 1
	}
	buf.SetScrollOffset(top)
}

// scrollBy scrolls the editor by delta lines within the memo.
func (m *Model) scrollBy(delta int) {
	m.syncViewport()
	m.viewport.SetYOffset(m.viewport.YOffset + delta)
	m.session.Buffer().SetScrollOffset(m.viewport.YOffset)
}

// clampScroll keeps the scroll offset within the memo.
func (m *Model) clampScroll() {
	m.scrollBy(0)
}

// syncViewport loads the laid out memo into the viewport at the buffer's
// scroll offset.
func (m *Model) syncViewport() {
	width, height := m.editorSize()
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(joinLines(m.page().Lines))
	m.viewport.SetYOffset(m.session.Buffer().ScrollOffset())
}

// nextFontFamily returns the family after the active one.
func (m Model) nextFontFamily() string {
	families := m.cfg.Editor.FontFamilies
	i := slices.Index(families, m.settings().FontFamily)
	if i < 0 {
		return m.cfg.Editor.DefaultFontFamily
	}
	return families[(i+1)%len(families)]
}

// nextFontSize returns the size after the active one.
func (m Model) nextFontSize() string {
	i := slices.Index(config.FontSizes, m.settings().FontSize)
	if i < 0 {
		return m.cfg.Editor.DefaultFontSize
	}
	return config.FontSizes[(i+1)%len(config.FontSizes)]
}

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(msg string, duration time.Duration) {
	m.statusMsg = msg
	m.statusExpiry = m.now().Add(duration)
	m.statusIsError = false
}

// ShowErrorToast displays a temporary error message.
func (m *Model) ShowErrorToast(msg string, duration time.Duration) {
	m.ShowToast(msg, duration)
	m.statusIsError = true
}

// ClearToast clears an expired status message.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && m.now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// reportError logs err and shows it as a toast. Storage and export
// failures never stop the editor.
func (m *Model) reportError(what string, err error) {
	m.lastError = err
	m.logger.Warn("app: "+what, "tab", m.ActiveTab(), "error", err)
	m.ShowErrorToast("Error: "+err.Error(), 5*time.Second)
}
