package editor

import (
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/memopad/internal/caret"
	"github.com/marcus/memopad/internal/linkify"
)

const (
	DefaultTypingDelay = 500 * time.Millisecond
	DefaultPasteDelay  = time.Second
)

// Options tunes the debounce timers.
type Options struct {
	// TypingDelay is the idle time after the last keystroke before a
	// linkify pass runs.
	TypingDelay time.Duration
	// PasteDelay is how long scheduling stays suppressed after a paste.
	PasteDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.TypingDelay <= 0 {
		o.TypingDelay = DefaultTypingDelay
	}
	if o.PasteDelay <= 0 {
		o.PasteDelay = DefaultPasteDelay
	}
	return o
}

// LinkifyTickMsg fires when the typing debounce expires.
type LinkifyTickMsg struct {
	TabID int
	ID    int
}

// PasteSettledMsg fires when the paste suppression window ends.
type PasteSettledMsg struct {
	TabID int
	ID    int
}

// Session is the editing state of the active tab. It owns the buffer, the
// caret preserver and the single debounce timer generation. Only the
// newest timer is honored; older ticks are dropped when they arrive.
type Session struct {
	tabID  int
	buf    *Buffer
	caret  *caret.Preserver
	opts   Options
	logger *slog.Logger

	linkifyID int  // Incremented on each schedule to identify the debounce timer
	pasteID   int  // Incremented on each paste
	suppress  bool // True while a paste is settling

	savedHash uint64 // xxhash of the last persisted content
}

// NewSession creates an empty session.
func NewSession(opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	buf := NewBuffer()
	return &Session{
		buf:       buf,
		caret:     caret.NewPreserver(buf, logger),
		opts:      opts.withDefaults(),
		logger:    logger,
		savedHash: xxhash.Sum64String(""),
	}
}

// TabID returns the tab the session is editing.
func (s *Session) TabID() int { return s.tabID }

// Buffer returns the editing surface.
func (s *Session) Buffer() *Buffer { return s.buf }

// Options returns the active timer settings.
func (s *Session) Options() Options { return s.opts }

// SetOptions replaces the timer settings. Running timers keep their delay.
func (s *Session) SetOptions(opts Options) { s.opts = opts.withDefaults() }

// Suppressed reports whether linkify scheduling is paused after a paste.
func (s *Session) Suppressed() bool { return s.suppress }

// Reset loads content for tabID. Pending timers become stale and any
// captured caret anchor is discarded.
func (s *Session) Reset(tabID int, content string) {
	s.tabID = tabID
	s.buf.SetHTML(content)
	s.buf.SetScrollOffset(0)
	s.buf.MoveToEnd()
	s.buf.ClearMark()
	s.caret.Invalidate()
	s.linkifyID++
	s.pasteID++
	s.suppress = false
	s.savedHash = xxhash.Sum64String(s.buf.HTML())
}

// Content returns the serialized document.
func (s *Session) Content() string { return s.buf.HTML() }

// NeedsSave reports whether the content differs from what was last saved.
func (s *Session) NeedsSave() bool {
	return xxhash.Sum64String(s.Content()) != s.savedHash
}

// MarkSaved records content as persisted.
func (s *Session) MarkSaved(content string) {
	s.savedHash = xxhash.Sum64String(content)
}

// Input must be called after every edit. It restarts the typing debounce
// unless a paste is settling.
func (s *Session) Input() tea.Cmd {
	if s.suppress {
		return nil
	}
	return s.scheduleLinkify(s.opts.TypingDelay)
}

// Paste inserts text at the caret and suppresses linkify scheduling until
// the paste has settled.
func (s *Session) Paste(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	s.buf.InsertText(text)

	s.suppress = true
	s.linkifyID++ // a typing tick still in flight must not run mid-paste
	s.pasteID++
	id, tab := s.pasteID, s.tabID
	return tea.Tick(s.opts.PasteDelay, func(time.Time) tea.Msg {
		return PasteSettledMsg{TabID: tab, ID: id}
	})
}

// HandleTick handles the session's timer messages. It reports whether the
// typing debounce fired and ran a linkify pass, whether or not the pass
// changed anything. Stale ticks report false.
func (s *Session) HandleTick(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case LinkifyTickMsg:
		if msg.TabID != s.tabID || msg.ID != s.linkifyID {
			return false, nil
		}
		if s.Linkify() {
			s.logger.Debug("editor: linkified", "tab", s.tabID)
		}
		return true, nil

	case PasteSettledMsg:
		if msg.TabID != s.tabID || msg.ID != s.pasteID {
			return false, nil
		}
		s.suppress = false
		return false, s.scheduleLinkify(s.opts.TypingDelay)
	}
	return false, nil
}

// Linkify runs one linkify pass over the buffer, keeping the caret and
// scroll position. It reports whether the content changed.
func (s *Session) Linkify() bool {
	before := s.buf.HTML()
	after := linkify.Linkify(before)
	if after == before {
		return false
	}

	s.caret.Capture()
	s.buf.SetHTML(after)
	if !s.caret.Restore() {
		s.logger.Debug("editor: caret moved to end after linkify", "tab", s.tabID)
	}
	s.buf.NormalizeCaret()
	return true
}

func (s *Session) scheduleLinkify(delay time.Duration) tea.Cmd {
	s.linkifyID++
	id, tab := s.linkifyID, s.tabID
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return LinkifyTickMsg{TabID: tab, ID: id}
	})
}
