package editor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marcus/memopad/internal/caret"
	"github.com/marcus/memopad/internal/richtext"
)

func TestSetHTML_FlattensBlocks(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"<div>a</div><div>b</div>", "a<br>b"},
		{"x<div>y</div>", "x<br>y"},
		{"<p>para</p>", "para"},
		{"a<br><div>b</div>", "a<br>b"},
		{"<div></div>", ""},
	}
	for _, tt := range tests {
		b := NewBuffer()
		b.SetHTML(tt.in)
		if got := b.HTML(); got != tt.want {
			t.Errorf("SetHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSetHTML_DropsSelection(t *testing.T) {
	b := NewBuffer()
	b.SetHTML("abc")
	b.SetCaret(1)
	b.SetHTML("def")
	if _, ok := b.Selection(); ok {
		t.Error("SetHTML should drop the selection")
	}
	if b.Caret() != 3 {
		t.Errorf("Caret() without selection = %d, want 3", b.Caret())
	}
}

func TestInsertText(t *testing.T) {
	b := NewBuffer()
	b.InsertText("hello")
	if b.HTML() != "hello" || b.Caret() != 5 {
		t.Fatalf("after insert: %q caret %d", b.HTML(), b.Caret())
	}

	b.InsertText(" a\nb")
	if got := b.HTML(); got != "hello a<br>b" {
		t.Errorf("HTML() = %q, want %q", got, "hello a<br>b")
	}
	if got := b.PlainText(); got != "hello a\nb" {
		t.Errorf("PlainText() = %q", got)
	}
	if b.Caret() != len("hello a\nb") {
		t.Errorf("Caret() = %d, want %d", b.Caret(), len("hello a\nb"))
	}
}

func TestInsertText_EscapesMarkup(t *testing.T) {
	b := NewBuffer()
	b.InsertText("1 < 2 & <b>")
	if got := b.HTML(); got != "1 &lt; 2 &amp; &lt;b&gt;" {
		t.Errorf("HTML() = %q", got)
	}
}

func TestInsertLineBreak_Middle(t *testing.T) {
	b := NewBuffer()
	b.SetHTML("abcd")
	b.SetCaret(2)
	b.InsertLineBreak()
	if got := b.HTML(); got != "ab<br>cd" {
		t.Errorf("HTML() = %q, want %q", got, "ab<br>cd")
	}
	if b.Caret() != 3 {
		t.Errorf("Caret() = %d, want 3", b.Caret())
	}
	if b.CaretLine() != 1 {
		t.Errorf("CaretLine() = %d, want 1", b.CaretLine())
	}
}

func TestInsertLineBreak_Start(t *testing.T) {
	b := NewBuffer()
	b.SetHTML("abc")
	b.SetCaret(0)
	b.InsertLineBreak()
	b.InsertText("x")
	if got := b.HTML(); got != "<br>xabc" {
		t.Errorf("HTML() = %q, want %q", got, "<br>xabc")
	}
}

func TestDeleteBackward(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		caret int
		want  string
		pos   int
	}{
		{"char", "abc", 3, "ab", 2},
		{"line break", "ab<br>cd", 3, "abcd", 2},
		{"multibyte", "añ", 3, "a", 1},
		{"start", "abc", 0, "abc", 0},
		{"last char", "x", 1, "", 0},
		{"inside link", `<a href="h">ab</a>c`, 2, `<a href="h">a</a>c`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer()
			b.SetHTML(tt.in)
			b.SetCaret(tt.caret)
			b.DeleteBackward()
			if got := b.HTML(); got != tt.want {
				t.Errorf("HTML() = %q, want %q", got, tt.want)
			}
			if b.Caret() != tt.pos {
				t.Errorf("Caret() = %d, want %d", b.Caret(), tt.pos)
			}
		})
	}
}

const linkDoc = `see <a href="http://x.io">http://x.io</a> ok`

func TestTyping_AtLinkEdges(t *testing.T) {
	tests := []struct {
		name  string
		caret int
		want  string
	}{
		{"before", 4, `see Z<a href="http://x.io">http://x.io</a> ok`},
		{"after", 15, `see <a href="http://x.io">http://x.io</a>Z ok`},
		{"inside", 8, `see <a href="http://x.io">httpZ://x.io</a> ok`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer()
			b.SetHTML(linkDoc)
			b.SetCaret(tt.caret)
			b.InsertText("Z")
			if got := b.HTML(); got != tt.want {
				t.Errorf("HTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTyping_LinkOnlyDocument(t *testing.T) {
	b := NewBuffer()
	b.SetHTML(`<a href="h">link</a>`)
	b.SetCaret(0)
	b.InsertText("x")
	b.MoveToEnd()
	b.InsertText("y")
	if got, want := b.HTML(), `x<a href="h">link</a>y`; got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestLinkAtCaret(t *testing.T) {
	b := NewBuffer()
	b.SetHTML(linkDoc)

	b.SetCaret(8)
	if href, ok := b.LinkAtCaret(); !ok || href != "http://x.io" {
		t.Errorf("LinkAtCaret() inside link = %q, %v", href, ok)
	}
	b.SetCaret(1)
	if _, ok := b.LinkAtCaret(); ok {
		t.Error("LinkAtCaret() outside link should report false")
	}
}

func TestMovement(t *testing.T) {
	b := NewBuffer()
	b.SetHTML("abc<br>de")

	b.SetCaret(2)
	b.MoveDown()
	if b.Caret() != 6 {
		t.Errorf("MoveDown clamps to line end: Caret() = %d, want 6", b.Caret())
	}
	b.MoveUp()
	if b.Caret() != 2 {
		t.Errorf("MoveUp: Caret() = %d, want 2", b.Caret())
	}
	b.MoveUp()
	if b.Caret() != 0 {
		t.Errorf("MoveUp on first line: Caret() = %d, want 0", b.Caret())
	}
	b.MoveLeft()
	if b.Caret() != 0 {
		t.Errorf("MoveLeft at start: Caret() = %d, want 0", b.Caret())
	}
	b.MoveDown()
	b.MoveDown()
	if b.Caret() != 6 {
		t.Errorf("MoveDown on last line: Caret() = %d, want 6", b.Caret())
	}
	b.MoveRight()
	if b.Caret() != 6 {
		t.Errorf("MoveRight at end: Caret() = %d, want 6", b.Caret())
	}
}

func TestMovement_Multibyte(t *testing.T) {
	b := NewBuffer()
	b.SetHTML("aé")
	b.SetCaret(1)
	b.MoveRight()
	if b.Caret() != 3 {
		t.Errorf("MoveRight over é: Caret() = %d, want 3", b.Caret())
	}
	b.MoveLeft()
	if b.Caret() != 1 {
		t.Errorf("MoveLeft over é: Caret() = %d, want 1", b.Caret())
	}
}

func TestSetSelection_Errors(t *testing.T) {
	b := NewBuffer()
	b.SetHTML("abc")

	detached := richtext.NewText("abc")
	if err := b.SetSelection(caret.Collapsed(detached, 0)); !errors.Is(err, ErrDetached) {
		t.Errorf("detached node: err = %v, want ErrDetached", err)
	}
	n := b.Root().FirstChild
	if err := b.SetSelection(caret.Collapsed(n, 9)); !errors.Is(err, ErrOffset) {
		t.Errorf("bad offset: err = %v, want ErrOffset", err)
	}
	if err := b.SetSelection(caret.Collapsed(n, 3)); err != nil {
		t.Errorf("valid selection: err = %v", err)
	}
}

func TestSelectedText(t *testing.T) {
	b := NewBuffer()
	b.SetHTML("hello world")
	n := b.Root().FirstChild
	if err := b.SetSelection(caret.Range{StartNode: n, StartOffset: 6, EndNode: n, EndOffset: 11}); err != nil {
		t.Fatal(err)
	}
	if got := b.SelectedText(); got != "world" {
		t.Errorf("SelectedText() = %q, want %q", got, "world")
	}
}

func TestMark(t *testing.T) {
	b := NewBuffer()
	b.SetHTML(`see <a href="https://go.dev">go.dev</a> now`)
	b.SetCaret(4)

	b.SetMark()
	for range 6 {
		b.MoveRight()
	}
	b.SetMark() // an active mark keeps its start
	if got := b.SelectedText(); got != "go.dev" {
		t.Errorf("SelectedText() = %q, want %q", got, "go.dev")
	}

	// Linkify rewrites the tree but not the text, so the mark holds.
	b.SetHTML(b.HTML())
	b.SetCaret(10)
	start, end, ok := b.Marked()
	if !ok || start != 4 || end != 10 {
		t.Errorf("Marked() = %d, %d, %v, want 4, 10, true", start, end, ok)
	}

	b.MoveLeft()
	b.MoveLeft()
	b.MoveLeft()
	b.MoveLeft()
	b.MoveLeft()
	b.MoveLeft()
	b.MoveLeft()
	if got := b.SelectedText(); got != " " {
		t.Errorf("SelectedText() after moving before the mark = %q, want %q", got, " ")
	}

	b.InsertText("x")
	if _, _, ok := b.Marked(); ok {
		t.Error("an edit should clear the mark")
	}
	if got := b.SelectedText(); got != "" {
		t.Errorf("SelectedText() = %q, want empty", got)
	}
}

func TestScrollOffset_NeverNegative(t *testing.T) {
	b := NewBuffer()
	b.SetScrollOffset(-4)
	if b.ScrollOffset() != 0 {
		t.Errorf("ScrollOffset() = %d, want 0", b.ScrollOffset())
	}
}

func TestSpans(t *testing.T) {
	b := NewBuffer()
	b.SetHTML(`go <a href="https://go.dev">go.dev</a><br>now`)
	want := []Span{
		{Text: "go "},
		{Text: "go.dev", Href: "https://go.dev"},
		{Text: "\n"},
		{Text: "now"},
	}
	if diff := cmp.Diff(want, b.Spans()); diff != "" {
		t.Errorf("Spans() mismatch (-want +got):\n%s", diff)
	}
}
