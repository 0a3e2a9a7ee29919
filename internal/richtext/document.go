// Package richtext holds the document model shared by the editor surface,
// the linkify transformer and the caret preserver. A document is an owned
// *html.Node container (<div>) whose children are the memo's content.
package richtext

import (
	"iter"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewContainer returns an empty <div> that can own document content.
func NewContainer() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
}

// Parse parses markup as the content of a <div> and returns that <div>.
// Malformed markup is repaired the way an HTML5 parser does; empty input
// yields an empty container.
func Parse(markup string) *html.Node {
	root := NewContainer()
	if markup == "" {
		return root
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), NewContainer())
	if err != nil {
		// Only reader errors end up here; keep the input as opaque text.
		root.AppendChild(NewText(markup))
		return root
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root
}

// NewText creates a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// NewLink creates a detached <a> element with the given attributes and a
// single text child.
func NewLink(text string, attrs ...html.Attribute) *html.Node {
	a := &html.Node{Type: html.ElementNode, Data: "a", DataAtom: atom.A, Attr: attrs}
	a.AppendChild(NewText(text))
	return a
}

// NewLineBreak creates a detached <br> element.
func NewLineBreak() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br}
}

// IsLink reports whether n is a hyperlink element.
func IsLink(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == atom.A
}

// IsLineBreak reports whether n is a <br> element.
func IsLineBreak(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == atom.Br
}

// Attr returns the value of the attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// EnclosingLink returns the nearest <a> ancestor of n, or n itself when it
// is a link. It returns nil when n is not inside a link.
func EnclosingLink(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if IsLink(n) {
			return n
		}
	}
	return nil
}

// EligibleTextNodes yields the text nodes under root in document order,
// skipping every <a> subtree and elements such as <style> or <textarea>
// whose content is text rather than markup. Callers that mutate the tree must collect the
// sequence first.
func EligibleTextNodes(root *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		walkText(root, true, yield)
	}
}

// TextNodes yields every text node under root in document order, including
// those inside links.
func TextNodes(root *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		walkText(root, false, yield)
	}
}

func walkText(n *html.Node, skipLinks bool, yield func(*html.Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if !yield(c) {
				return false
			}
		case skipLinks && (IsLink(c) || holdsText(c)):
			continue
		default:
			if !walkText(c, skipLinks, yield) {
				return false
			}
		}
	}
	return true
}

// Leaves yields text nodes and <br> elements in document order. These are
// the only nodes that contribute characters to the editor's flat text.
func Leaves(root *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		walkLeaves(root, yield)
	}
}

func walkLeaves(n *html.Node, yield func(*html.Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode || IsLineBreak(c) {
			if !yield(c) {
				return false
			}
			continue
		}
		if !walkLeaves(c, yield) {
			return false
		}
	}
	return true
}

// TextContent returns the concatenated text of n and its descendants.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for t := range TextNodes(n) {
		sb.WriteString(t.Data)
	}
	return sb.String()
}

// IsBlock reports whether n is a block element (<div> or <p>), the only
// blocks an editing surface produces.
func IsBlock(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && (n.DataAtom == atom.Div || n.DataAtom == atom.P)
}

// PlainText flattens the document to text. A <br> is a newline, and a block
// starts and ends on its own line.
func PlainText(root *html.Node) string {
	var w plainWriter
	w.walk(root)
	return w.sb.String()
}

type plainWriter struct {
	sb strings.Builder
	// pending is a block boundary not yet written as a newline.
	pending bool
}

func (w *plainWriter) walk(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			w.write(c.Data)
		case IsLineBreak(c):
			w.write("\n")
		case IsBlock(c):
			w.pending = true
			w.walk(c)
			w.pending = true
		default:
			w.walk(c)
		}
	}
}

func (w *plainWriter) write(s string) {
	if s == "" {
		return
	}
	if w.pending {
		if out := w.sb.String(); out != "" && !strings.HasSuffix(out, "\n") {
			w.sb.WriteByte('\n')
		}
		w.pending = false
	}
	w.sb.WriteString(s)
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// ChildIndex returns the position of n in its parent's child list.
func ChildIndex(n *html.Node) int {
	i := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		i++
	}
	return i
}

// ChildCount returns the number of children of n.
func ChildCount(n *html.Node) int {
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		i++
	}
	return i
}

// ChildAt returns the i-th child of n, or nil.
func ChildAt(n *html.Node, i int) *html.Node {
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// ReplaceWith replaces old in its parent's child list by nodes, keeping
// their order and position. The nodes must be detached.
func ReplaceWith(old *html.Node, nodes ...*html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	for _, n := range nodes {
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)
}
