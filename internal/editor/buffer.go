// Package editor implements the memo editing surface and the per-tab
// editing session that drives linkify passes.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/marcus/memopad/internal/caret"
	"github.com/marcus/memopad/internal/richtext"
)

var (
	// ErrDetached is returned when a selection refers to a node outside the
	// current document.
	ErrDetached = errors.New("node not in document")
	// ErrOffset is returned for a selection offset outside its container.
	ErrOffset = errors.New("offset out of range")
)

// Buffer is the editing surface: an owned document with a selection and a
// scroll offset. The editor keeps content flat (text, <br> and inline
// elements), so every caret position maps to a byte offset in PlainText.
type Buffer struct {
	root   *html.Node
	sel    caret.Range
	hasSel bool
	scroll int

	// mark is the flat offset where a keyboard selection started. Flat
	// offsets survive linkify, which never changes the text.
	mark    int
	marking bool
}

var _ caret.Surface = (*Buffer)(nil)

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{root: richtext.NewContainer()}
}

// Root returns the document container.
func (b *Buffer) Root() *html.Node { return b.root }

// HTML serializes the document.
func (b *Buffer) HTML() string { return richtext.Render(b.root) }

// PlainText returns the document text with line breaks as newlines.
func (b *Buffer) PlainText() string { return richtext.PlainText(b.root) }

// SetHTML replaces the document. Block containers are unwrapped into line
// breaks. The selection is dropped, as it would be when a browser replaces
// innerHTML.
func (b *Buffer) SetHTML(markup string) {
	b.root = richtext.Parse(markup)
	flattenBlocks(b.root)
	b.hasSel = false
}

// Span is a run of document text. Href is set for link text.
type Span struct {
	Text string
	Href string
}

// Spans returns the document as text runs in order. Line breaks are
// single "\n" spans, so the concatenated text equals PlainText.
func (b *Buffer) Spans() []Span {
	var out []Span
	for leaf := range richtext.Leaves(b.root) {
		if leaf.Type != html.TextNode {
			out = append(out, Span{Text: "\n"})
			continue
		}
		var href string
		if link := richtext.EnclosingLink(leaf); link != nil {
			href, _ = richtext.Attr(link, "href")
		}
		out = append(out, Span{Text: leaf.Data, Href: href})
	}
	return out
}

// Selection returns the current selection.
func (b *Buffer) Selection() (caret.Range, bool) {
	if !b.hasSel {
		return caret.Range{}, false
	}
	return b.sel, true
}

// SetSelection sets the selection after checking both boundary points.
func (b *Buffer) SetSelection(r caret.Range) error {
	if err := b.checkPoint(r.StartNode, r.StartOffset); err != nil {
		return err
	}
	if err := b.checkPoint(r.EndNode, r.EndOffset); err != nil {
		return err
	}
	b.sel, b.hasSel = r, true
	return nil
}

func (b *Buffer) checkPoint(n *html.Node, off int) error {
	if n == nil || !richtext.Contains(b.root, n) {
		return ErrDetached
	}
	limit := richtext.ChildCount(n)
	if n.Type == html.TextNode {
		limit = len(n.Data)
	}
	if off < 0 || off > limit {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrOffset, off, limit)
	}
	return nil
}

// ScrollOffset returns the first visible line.
func (b *Buffer) ScrollOffset() int { return b.scroll }

// SetScrollOffset sets the first visible line.
func (b *Buffer) SetScrollOffset(v int) {
	if v < 0 {
		v = 0
	}
	b.scroll = v
}

// Caret returns the flat text offset of the selection start. Without a
// selection the caret is at the end of the document.
func (b *Buffer) Caret() int {
	if b.hasSel && richtext.Contains(b.root, b.sel.StartNode) {
		return b.offsetOf(b.sel.StartNode, b.sel.StartOffset)
	}
	return len(b.PlainText())
}

// SetCaret collapses the selection at a flat text offset.
func (b *Buffer) SetCaret(pos int) {
	b.sel, b.hasSel = b.locate(pos), true
}

// NormalizeCaret moves a collapsed caret off the edges of link text, where
// typing would extend the link.
func (b *Buffer) NormalizeCaret() {
	if b.hasSel && b.sel.IsCollapsed() {
		b.SetCaret(b.Caret())
	}
}

// SetMark starts a keyboard selection at the caret. An active mark is kept.
func (b *Buffer) SetMark() {
	if !b.marking {
		b.mark, b.marking = b.Caret(), true
	}
}

// ClearMark ends the keyboard selection.
func (b *Buffer) ClearMark() { b.marking = false }

// Marked returns the flat range between the mark and the caret. It reports
// false when there is no mark or the range is empty.
func (b *Buffer) Marked() (start, end int, ok bool) {
	if !b.marking {
		return 0, 0, false
	}
	start, end = min(b.mark, len(b.PlainText())), b.Caret()
	if start > end {
		start, end = end, start
	}
	return start, end, start < end
}

// SelectedText returns the text covered by the selection, or by the
// keyboard selection when the selection is collapsed.
func (b *Buffer) SelectedText() string {
	if b.hasSel && !b.sel.IsCollapsed() {
		start := b.offsetOf(b.sel.StartNode, b.sel.StartOffset)
		end := b.offsetOf(b.sel.EndNode, b.sel.EndOffset)
		if start > end {
			start, end = end, start
		}
		return b.PlainText()[start:end]
	}
	if start, end, ok := b.Marked(); ok {
		return b.PlainText()[start:end]
	}
	return ""
}

// InsertText inserts s at the caret. Newlines become line breaks.
func (b *Buffer) InsertText(s string) {
	b.marking = false
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.InsertLineBreak()
		}
		if line != "" {
			b.insertRun(line)
		}
	}
}

func (b *Buffer) insertRun(s string) {
	r := b.caretPoint()
	if n := r.StartNode; n.Type == html.TextNode {
		off := r.StartOffset
		n.Data = n.Data[:off] + s + n.Data[off:]
		b.sel = caret.Collapsed(n, off+len(s))
		return
	}

	parent, idx := r.StartNode, r.StartOffset
	if idx > 0 {
		if prev := richtext.ChildAt(parent, idx-1); prev != nil && prev.Type == html.TextNode {
			prev.Data += s
			b.sel = caret.Collapsed(prev, len(prev.Data))
			return
		}
	}
	next := richtext.ChildAt(parent, idx)
	if next != nil && next.Type == html.TextNode {
		next.Data = s + next.Data
		b.sel = caret.Collapsed(next, len(s))
		return
	}
	t := richtext.NewText(s)
	parent.InsertBefore(t, next)
	b.sel = caret.Collapsed(t, len(s))
}

// InsertLineBreak inserts a <br> at the caret.
func (b *Buffer) InsertLineBreak() {
	b.marking = false
	r := b.caretPoint()
	br := richtext.NewLineBreak()

	n := r.StartNode
	if n.Type != html.TextNode {
		n.InsertBefore(br, richtext.ChildAt(n, r.StartOffset))
		b.sel = caret.Collapsed(n, r.StartOffset+1)
		b.hasSel = true
		return
	}

	left, right := n.Data[:r.StartOffset], n.Data[r.StartOffset:]
	n.Data = left
	n.Parent.InsertBefore(br, n.NextSibling)
	var t *html.Node
	if right != "" {
		t = richtext.NewText(right)
		br.Parent.InsertBefore(t, br.NextSibling)
	}
	if left == "" {
		removeEmpty(n)
	}

	if t != nil {
		b.sel = caret.Collapsed(t, 0)
	} else {
		b.sel = caret.Collapsed(br.Parent, richtext.ChildIndex(br)+1)
	}
	b.hasSel = true
}

// DeleteBackward removes the character before the caret.
func (b *Buffer) DeleteBackward() {
	b.marking = false
	pos := b.Caret()
	if pos == 0 {
		return
	}

	at := 0
	newPos := pos
	for _, leaf := range b.leaves() {
		if leaf.Type != html.TextNode {
			if at == pos-1 {
				leaf.Parent.RemoveChild(leaf)
				newPos = pos - 1
				break
			}
			at++
			continue
		}
		end := at + len(leaf.Data)
		if pos-1 < end {
			rel := pos - at
			_, size := utf8.DecodeLastRuneInString(leaf.Data[:rel])
			leaf.Data = leaf.Data[:rel-size] + leaf.Data[rel:]
			newPos = pos - size
			if leaf.Data == "" {
				removeEmpty(leaf)
			}
			break
		}
		at = end
	}
	b.SetCaret(newPos)
}

// MoveLeft moves the caret one character back.
func (b *Buffer) MoveLeft() {
	pos := b.Caret()
	if pos == 0 {
		b.SetCaret(0)
		return
	}
	_, size := utf8.DecodeLastRuneInString(b.PlainText()[:pos])
	b.SetCaret(pos - size)
}

// MoveRight moves the caret one character forward.
func (b *Buffer) MoveRight() {
	text := b.PlainText()
	pos := b.Caret()
	if pos >= len(text) {
		b.SetCaret(len(text))
		return
	}
	_, size := utf8.DecodeRuneInString(text[pos:])
	b.SetCaret(pos + size)
}

// MoveUp moves the caret to the previous line, keeping the column.
func (b *Buffer) MoveUp() {
	text := b.PlainText()
	pos := b.Caret()
	lineStart := strings.LastIndexByte(text[:pos], '\n') + 1
	if lineStart == 0 {
		b.SetCaret(0)
		return
	}
	col := utf8.RuneCountInString(text[lineStart:pos])
	prevStart := strings.LastIndexByte(text[:lineStart-1], '\n') + 1
	b.SetCaret(prevStart + byteColumn(text[prevStart:lineStart-1], col))
}

// MoveDown moves the caret to the next line, keeping the column.
func (b *Buffer) MoveDown() {
	text := b.PlainText()
	pos := b.Caret()
	lineStart := strings.LastIndexByte(text[:pos], '\n') + 1
	nl := strings.IndexByte(text[pos:], '\n')
	if nl < 0 {
		b.SetCaret(len(text))
		return
	}
	col := utf8.RuneCountInString(text[lineStart:pos])
	nextStart := pos + nl + 1
	nextEnd := len(text)
	if i := strings.IndexByte(text[nextStart:], '\n'); i >= 0 {
		nextEnd = nextStart + i
	}
	b.SetCaret(nextStart + byteColumn(text[nextStart:nextEnd], col))
}

// MoveToEnd puts the caret at the end of the document.
func (b *Buffer) MoveToEnd() {
	b.SetCaret(len(b.PlainText()))
}

// CaretLine returns the zero-based line of the caret.
func (b *Buffer) CaretLine() int {
	return strings.Count(b.PlainText()[:b.Caret()], "\n")
}

// LinkAtCaret returns the href of the link the caret is in or touching.
func (b *Buffer) LinkAtCaret() (string, bool) {
	if !b.hasSel || !richtext.Contains(b.root, b.sel.StartNode) {
		return "", false
	}
	n, off := b.sel.StartNode, b.sel.StartOffset
	candidates := []*html.Node{n}
	if n.Type != html.TextNode {
		candidates = []*html.Node{richtext.ChildAt(n, off)}
		if off > 0 {
			candidates = append(candidates, richtext.ChildAt(n, off-1))
		}
	}
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if link := richtext.EnclosingLink(c); link != nil {
			return richtext.Attr(link, "href")
		}
	}
	return "", false
}

// caretPoint returns the collapsed selection start, or the end of the
// document when there is no usable selection.
func (b *Buffer) caretPoint() caret.Range {
	if b.hasSel && richtext.Contains(b.root, b.sel.StartNode) {
		return caret.Collapsed(b.sel.StartNode, b.sel.StartOffset)
	}
	r := b.locate(len(b.PlainText()))
	b.sel, b.hasSel = r, true
	return r
}

func (b *Buffer) leaves() []*html.Node {
	var out []*html.Node
	for leaf := range richtext.Leaves(b.root) {
		out = append(out, leaf)
	}
	return out
}

// offsetOf maps a boundary point to a flat text offset. Unknown nodes map
// to the end of the document.
func (b *Buffer) offsetOf(node *html.Node, off int) int {
	pos := 0
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		i := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if n == node && i == off {
				return true
			}
			switch {
			case c == node && c.Type == html.TextNode:
				pos += min(off, len(c.Data))
				return true
			case c.Type == html.TextNode:
				pos += len(c.Data)
			case richtext.IsLineBreak(c):
				pos++
			default:
				if walk(c) {
					return true
				}
			}
			i++
		}
		return n == node
	}
	walk(b.root)
	return pos
}

// locate maps a flat text offset to a collapsed range. Positions at the
// edges of link text resolve to the outside of the link so typing does not
// extend it.
func (b *Buffer) locate(pos int) caret.Range {
	if pos < 0 {
		pos = 0
	}
	at := 0
	var last *html.Node
	for leaf := range richtext.Leaves(b.root) {
		last = leaf
		if leaf.Type != html.TextNode {
			if pos == at {
				return caret.Collapsed(leaf.Parent, richtext.ChildIndex(leaf))
			}
			at++
			continue
		}

		end := at + len(leaf.Data)
		link := richtext.EnclosingLink(leaf)
		switch {
		case link == nil && pos <= end:
			return caret.Collapsed(leaf, pos-at)
		case link != nil && pos == at:
			return caret.Collapsed(link.Parent, richtext.ChildIndex(link))
		case link != nil && pos < end:
			return caret.Collapsed(leaf, pos-at)
		}
		at = end
	}

	if last != nil && last.Type == html.TextNode && richtext.EnclosingLink(last) == nil {
		return caret.Collapsed(last, len(last.Data))
	}
	return caret.Collapsed(b.root, richtext.ChildCount(b.root))
}

// removeEmpty detaches n and any ancestors it leaves empty, stopping below
// the document root.
func removeEmpty(n *html.Node) {
	for n.Parent != nil {
		parent := n.Parent
		parent.RemoveChild(n)
		if parent.FirstChild != nil || parent.Parent == nil {
			return
		}
		n = parent
	}
}

// flattenBlocks unwraps <div> and <p> elements so their lines are separated
// by <br> instead.
func flattenBlocks(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		flattenBlocks(c)
		if richtext.IsBlock(c) {
			unwrapBlock(c)
		}
		c = next
	}
}

func unwrapBlock(block *html.Node) {
	var kids []*html.Node
	for k := block.FirstChild; k != nil; k = k.NextSibling {
		kids = append(kids, k)
	}
	for _, k := range kids {
		block.RemoveChild(k)
	}

	if prev := block.PrevSibling; prev != nil && !richtext.IsLineBreak(prev) && len(kids) > 0 {
		kids = append([]*html.Node{richtext.NewLineBreak()}, kids...)
	}
	if block.NextSibling != nil && (len(kids) == 0 || !richtext.IsLineBreak(kids[len(kids)-1])) {
		kids = append(kids, richtext.NewLineBreak())
	}

	if len(kids) == 0 {
		block.Parent.RemoveChild(block)
		return
	}
	richtext.ReplaceWith(block, kids...)
}

// byteColumn returns the byte offset of rune column col in line, clamped to
// the line length.
func byteColumn(line string, col int) int {
	off := 0
	for i := 0; i < col && off < len(line); i++ {
		_, size := utf8.DecodeRuneInString(line[off:])
		off += size
	}
	return off
}
