package linkify

import (
	"slices"

	"golang.org/x/net/html"

	"github.com/marcus/memopad/internal/richtext"
)

const mailtoPrefix = "mailto:"

// Linkify converts URL and email text in markup into links and returns the
// new markup. Text already inside a link is left alone. When nothing is
// linkable the input is returned unchanged, byte for byte.
func Linkify(markup string) string {
	if markup == "" {
		return ""
	}
	root := richtext.Parse(markup)
	if Document(root) == 0 {
		return markup
	}
	return richtext.Render(root)
}

// Document linkifies an owned document tree in place and returns the number
// of links it created.
func Document(root *html.Node) int {
	// Replacing nodes while walking would derail the walk.
	nodes := slices.Collect(richtext.EligibleTextNodes(root))

	created := 0
	for _, n := range nodes {
		matches := FindMatches(n.Data)
		if len(matches) == 0 {
			continue
		}
		nodes, n2 := split(n.Data, matches)
		richtext.ReplaceWith(n, nodes...)
		created += n2
	}
	return created
}

// split breaks text into gap text nodes and link nodes and returns the
// number of links. Empty gaps are omitted. Each gap becomes its own text
// node, so it is matched again on its own: a gap left by a dropped overlap
// can still hold a match, and a later pass would link it.
func split(text string, matches []Match) ([]*html.Node, int) {
	nodes := make([]*html.Node, 0, 2*len(matches)+1)
	created := 0
	gap := func(s string) {
		if s == "" {
			return
		}
		if sub := FindMatches(s); len(sub) > 0 {
			more, n := split(s, sub)
			nodes = append(nodes, more...)
			created += n
			return
		}
		nodes = append(nodes, richtext.NewText(s))
	}

	last := 0
	for _, m := range matches {
		gap(text[last:m.Start])
		nodes = append(nodes, NewLink(m))
		created++
		last = m.End
	}
	gap(text[last:])
	return nodes, created
}

// NewLink builds the link element for a match. URLs open in a new browsing
// context; emails become mailto links.
func NewLink(m Match) *html.Node {
	if m.Kind == KindEmail {
		return richtext.NewLink(m.Text, html.Attribute{Key: "href", Val: mailtoPrefix + m.Text})
	}
	return richtext.NewLink(m.Text,
		html.Attribute{Key: "href", Val: m.Text},
		html.Attribute{Key: "target", Val: "_blank"},
		html.Attribute{Key: "rel", Val: "noopener noreferrer"},
	)
}
