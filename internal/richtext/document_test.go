package richtext

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

func TestParseRender_RoundTrip(t *testing.T) {
	tests := []string{
		"",
		"plain",
		"a &amp; b<br>c",
		`it's "quoted"`,
		"a&nbsp;b",
		"1 &lt; 2 &gt; 0",
		`<a href="http://x.io/?a=1&amp;b=2" target="_blank">x</a>`,
		`<div title="say &quot;hi&quot;">hi</div>`,
		"<b>bold <i>both</i></b><!-- note -->",
	}
	for _, in := range tests {
		if got := Render(Parse(in)); got != in {
			t.Errorf("Render(Parse(%q)) = %q", in, got)
		}
	}
}

func TestParse_RepairsMarkup(t *testing.T) {
	got := Render(Parse("<b>open"))
	if got != "<b>open</b>" {
		t.Errorf("Render(Parse(%q)) = %q, want %q", "<b>open", got, "<b>open</b>")
	}
}

func texts(seq func(func(*html.Node) bool)) []string {
	var out []string
	for n := range seq {
		out = append(out, n.Data)
	}
	return out
}

func TestEligibleTextNodes(t *testing.T) {
	root := Parse(`one <a href="x">two <b>deep</b></a> <b>three</b>`)

	got := texts(EligibleTextNodes(root))
	want := []string{"one ", " ", "three"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EligibleTextNodes mismatch (-want +got):\n%s", diff)
	}

	// A fresh call walks from the root again.
	if again := texts(EligibleTextNodes(root)); !slices.Equal(again, want) {
		t.Errorf("second walk = %v, want %v", again, want)
	}
}

func TestEligibleTextNodes_SkipsTextOnlyElements(t *testing.T) {
	root := Parse(`a<style>s</style>b<textarea>t</textarea>c<noscript>n</noscript>d`)

	got := texts(EligibleTextNodes(root))
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, got); diff != "" {
		t.Errorf("EligibleTextNodes mismatch (-want +got):\n%s", diff)
	}
	if n := len(texts(TextNodes(root))); n != 7 {
		t.Errorf("TextNodes yielded %d nodes, want 7", n)
	}
}

func TestEligibleTextNodes_StopsEarly(t *testing.T) {
	root := Parse("a<b>b</b>c")
	var seen []string
	for n := range EligibleTextNodes(root) {
		seen = append(seen, n.Data)
		if n.Data == "b" {
			break
		}
	}
	if diff := cmp.Diff([]string{"a", "b"}, seen); diff != "" {
		t.Errorf("early stop mismatch (-want +got):\n%s", diff)
	}
}

func TestTextNodes_IncludesLinks(t *testing.T) {
	root := Parse(`one <a href="x">two</a> three`)
	got := texts(TextNodes(root))
	want := []string{"one ", "two", " three"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TextNodes mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a<br>b", "a\nb"},
		{`x <a href="y">link</a><br><br>z`, "x link\n\nz"},
		{"a &amp; b", "a & b"},
		{"<div>a</div><div>b</div>", "a\nb"},
		{"x<p>y</p>z", "x\ny\nz"},
		{"<div>a<br></div><div>b</div>", "a\nb"},
		{"<div></div><div>b</div>", "b"},
		{"<div><div>a</div></div>b", "a\nb"},
	}
	for _, tt := range tests {
		if got := PlainText(Parse(tt.in)); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReplaceWith(t *testing.T) {
	root := Parse("a<b>b</b>c")
	b := ChildAt(root, 1)
	ReplaceWith(b, NewText("x"), NewLineBreak(), NewText("y"))
	if got := Render(root); got != "ax<br>yc" {
		t.Errorf("Render after ReplaceWith = %q, want %q", got, "ax<br>yc")
	}
	if ChildCount(root) != 5 {
		t.Errorf("ChildCount = %d, want 5", ChildCount(root))
	}
}

func TestEnclosingLink(t *testing.T) {
	root := Parse(`<a href="h"><b>t</b></a>u`)
	a := root.FirstChild
	inner := a.FirstChild.FirstChild
	if EnclosingLink(inner) != a {
		t.Error("EnclosingLink(text in link) should return the link")
	}
	if EnclosingLink(a.NextSibling) != nil {
		t.Error("EnclosingLink(text outside link) should be nil")
	}
	if !Contains(root, inner) || Contains(a.FirstChild, a.NextSibling) {
		t.Error("Contains returned the wrong answer")
	}
	if href, ok := Attr(a, "href"); !ok || href != "h" {
		t.Errorf("Attr(a, href) = %q, %v", href, ok)
	}
}
