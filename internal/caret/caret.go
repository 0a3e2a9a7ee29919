// Package caret keeps the cursor and scroll position of an editing surface
// across destructive re-renders of its content.
//
// Positions are content-addressed: an anchor remembers the text of the node
// holding the caret, not the node itself. After the document is rebuilt the
// first text node with identical content receives the selection. When the
// same text appears in several nodes the first one wins, which may not be
// the node that held the caret.
package caret

import (
	"log/slog"

	"golang.org/x/net/html"

	"github.com/marcus/memopad/internal/richtext"
)

// Range is a selection in a document. Offsets are byte offsets into a text
// node's value, or child indexes when the container is an element.
type Range struct {
	StartNode   *html.Node
	StartOffset int
	EndNode     *html.Node
	EndOffset   int
}

// Collapsed returns an empty range at node/offset.
func Collapsed(node *html.Node, offset int) Range {
	return Range{StartNode: node, StartOffset: offset, EndNode: node, EndOffset: offset}
}

// IsCollapsed reports whether the range is empty.
func (r Range) IsCollapsed() bool {
	return r.StartNode == r.EndNode && r.StartOffset == r.EndOffset
}

// Surface is the editing surface the preserver reads and writes.
type Surface interface {
	Root() *html.Node
	Selection() (Range, bool)
	SetSelection(Range) error
	ScrollOffset() int
	SetScrollOffset(int)
}

// Anchor is a snapshot of the caret taken before a rewrite. It is only
// meaningful until the next structural edit.
type Anchor struct {
	ContainingText string
	StartOffset    int
	EndOffset      int
	ScrollOffset   int

	// betweenChildren is set when the caret sat in an element, where the
	// offsets are child indexes and cannot be applied to a text node.
	betweenChildren bool
}

// Preserver captures and restores one anchor at a time.
type Preserver struct {
	surface Surface
	logger  *slog.Logger
	anchor  *Anchor
}

// NewPreserver creates a preserver for surface.
func NewPreserver(surface Surface, logger *slog.Logger) *Preserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preserver{surface: surface, logger: logger}
}

// Capture records the current selection and scroll offset. It stores
// nothing and returns false when the surface has no selection.
func (p *Preserver) Capture() (Anchor, bool) {
	r, ok := p.surface.Selection()
	if !ok || r.StartNode == nil {
		p.anchor = nil
		return Anchor{}, false
	}

	a := Anchor{
		ContainingText: richtext.TextContent(r.StartNode),
		ScrollOffset:   p.surface.ScrollOffset(),
	}
	if r.StartNode.Type == html.TextNode {
		a.StartOffset, a.EndOffset = r.StartOffset, r.EndOffset
	} else {
		a.betweenChildren = true
	}
	p.anchor = &a
	return a, true
}

// Invalidate drops the stored anchor.
func (p *Preserver) Invalidate() {
	p.anchor = nil
}

// Restore applies and consumes the stored anchor. It reports whether the
// anchor's text was found; otherwise, and always for a caret that sat
// between elements, the caret is put at the end of the document. Selection errors are logged and leave the selection as it was.
func (p *Preserver) Restore() bool {
	if p.anchor == nil {
		return false
	}
	a := *p.anchor
	p.anchor = nil

	p.surface.SetScrollOffset(a.ScrollOffset)

	root := p.surface.Root()
	if root == nil {
		p.logger.Warn("caret: restore without document")
		return false
	}

	for n := range richtext.TextNodes(root) {
		if a.betweenChildren {
			break
		}
		if n.Data != a.ContainingText {
			continue
		}
		r := Range{
			StartNode:   n,
			StartOffset: clamp(a.StartOffset, len(n.Data)),
			EndNode:     n,
			EndOffset:   clamp(a.EndOffset, len(n.Data)),
		}
		if err := p.surface.SetSelection(r); err != nil {
			p.logger.Warn("caret: restore selection failed", "error", err)
			return false
		}
		return true
	}

	if err := p.surface.SetSelection(EndOf(root)); err != nil {
		p.logger.Warn("caret: fallback selection failed", "error", err)
	}
	return false
}

// EndOf returns a collapsed range at the very end of the document: inside
// the last text node when the document ends with text, otherwise after the
// root's last child.
func EndOf(root *html.Node) Range {
	var last *html.Node
	for n := range richtext.Leaves(root) {
		last = n
	}
	if last == nil || last.Type != html.TextNode {
		return Collapsed(root, richtext.ChildCount(root))
	}
	return Collapsed(last, len(last.Data))
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
