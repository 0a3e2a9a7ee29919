package richtext

import (
	"strings"

	"golang.org/x/net/html"
)

// html.Render escapes quotes inside text, which would rewrite every stored
// apostrophe. Memo content is serialized the way a browser serializes
// innerHTML instead.
var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"\u00a0", "&nbsp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"\u00a0", "&nbsp;",
		`"`, "&quot;",
	)
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// The parser runs with scripting enabled, so <noscript> holds raw text.
var rawTextElements = map[string]bool{
	"style": true, "script": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "plaintext": true, "noscript": true,
}

// rcdataElements hold escaped text but never child elements.
var rcdataElements = map[string]bool{
	"textarea": true, "title": true,
}

// holdsText reports whether n's content is text rather than markup.
func holdsText(n *html.Node) bool {
	return n.Type == html.ElementNode && (rawTextElements[n.Data] || rcdataElements[n.Data])
}

// Render serializes the children of root.
func Render(root *html.Node) string {
	var sb strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		renderNode(&sb, c)
	}
	return sb.String()
}

func renderNode(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if n.Parent != nil && n.Parent.Type == html.ElementNode && rawTextElements[n.Parent.Data] {
			sb.WriteString(n.Data)
			return
		}
		textEscaper.WriteString(sb, n.Data)

	case html.CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.Data)
		sb.WriteString("-->")

	case html.ElementNode:
		sb.WriteByte('<')
		sb.WriteString(n.Data)
		for _, a := range n.Attr {
			sb.WriteByte(' ')
			if a.Namespace != "" {
				sb.WriteString(a.Namespace)
				sb.WriteByte(':')
			}
			sb.WriteString(a.Key)
			sb.WriteString(`="`)
			attrEscaper.WriteString(sb, a.Val)
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
		if voidElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderNode(sb, c)
		}
		sb.WriteString("</")
		sb.WriteString(n.Data)
		sb.WriteByte('>')

	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderNode(sb, c)
		}
	}
}
