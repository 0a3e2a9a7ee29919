package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/memopad/internal/styles"
)

// Segment is a run of memo text.
type Segment struct {
	Text     string
	Link     bool
	Selected bool
}

// Page is memo text wrapped to a width with the caret drawn in.
type Page struct {
	Lines    []string
	CaretRow int
}

type cellKind int

const (
	cellText cellKind = iota
	cellLink
	cellSelected
	cellCaret
)

type pageWriter struct {
	body  lipgloss.Style
	width int
	page  Page
	line  strings.Builder
	run   strings.Builder
	kind  cellKind
	col   int
}

func (w *pageWriter) flush() {
	if w.run.Len() == 0 {
		return
	}
	style := w.body
	switch w.kind {
	case cellLink:
		style = styles.Link
	case cellSelected:
		style = styles.Selected
	case cellCaret:
		style = styles.Caret
	}
	w.line.WriteString(style.Render(w.run.String()))
	w.run.Reset()
}

func (w *pageWriter) newline() {
	w.flush()
	w.page.Lines = append(w.page.Lines, w.line.String())
	w.line.Reset()
	w.col = 0
}

func (w *pageWriter) put(s string, cells int, kind cellKind) {
	if w.col > 0 && w.col+cells > w.width {
		w.newline()
	}
	if kind != w.kind {
		w.flush()
		w.kind = kind
	}
	w.run.WriteString(s)
	w.col += cells
	if kind == cellCaret {
		w.page.CaretRow = len(w.page.Lines)
	}
}

// Layout wraps segments to width cells and draws the caret at byte offset
// caret of the concatenated text. A caret at a line end is drawn as a
// reversed space.
func Layout(segs []Segment, caret, width int, body lipgloss.Style) Page {
	w := &pageWriter{body: body, width: max(width, 1)}
	pos := 0
	drawn := false
	for _, seg := range segs {
		kind := cellText
		switch {
		case seg.Selected:
			kind = cellSelected
		case seg.Link:
			kind = cellLink
		}
		for i := 0; i < len(seg.Text); {
			r, size := utf8.DecodeRuneInString(seg.Text[i:])
			atCaret := !drawn && pos+i >= caret
			if r == '\n' {
				if atCaret {
					w.put(" ", 1, cellCaret)
					drawn = true
				}
				w.newline()
				i += size
				continue
			}
			cells := runewidth.RuneWidth(r)
			if cells <= 0 {
				cells = 1
			}
			k := kind
			if atCaret {
				k = cellCaret
				drawn = true
			}
			w.put(seg.Text[i:i+size], cells, k)
			i += size
		}
		pos += len(seg.Text)
	}
	if !drawn {
		w.put(" ", 1, cellCaret)
	}
	w.newline()
	return w.page
}
