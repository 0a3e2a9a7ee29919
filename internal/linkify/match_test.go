package linkify

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindMatches(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Match
	}{
		{"empty", "", nil},
		{"plain text", "no links here", nil},
		{"scheme only", "http://", nil},
		{"no word boundary", "xhttp://example.com", nil},
		{
			"single url",
			"visit http://example.com now",
			[]Match{{Start: 6, End: 24, Text: "http://example.com", Kind: KindURL}},
		},
		{
			"single email",
			"email me at a@b.com please",
			[]Match{{Start: 12, End: 19, Text: "a@b.com", Kind: KindEmail}},
		},
		{
			"case insensitive scheme, trailing dot excluded",
			"HTTPS://EXAMPLE.COM/x.",
			[]Match{{Start: 0, End: 21, Text: "HTTPS://EXAMPLE.COM/x", Kind: KindURL}},
		},
		{
			"ftp then email",
			"ftp://files.example.org, then b@c.io",
			[]Match{
				{Start: 0, End: 23, Text: "ftp://files.example.org", Kind: KindURL},
				{Start: 30, End: 36, Text: "b@c.io", Kind: KindEmail},
			},
		},
		{
			"url containing an email keeps the url",
			"see http://me@host.com/page",
			[]Match{{Start: 4, End: 27, Text: "http://me@host.com/page", Kind: KindURL}},
		},
		{
			"longer email beats overlapping url",
			"http://x@y.z" + strings.Repeat(".", 10),
			[]Match{{Start: 7, End: 22, Text: "x@y.z" + strings.Repeat(".", 10), Kind: KindEmail}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindMatches(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindMatches(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestFindMatches_Invariants(t *testing.T) {
	inputs := []string{
		"a@b.com http://a@b.com/x mail c.d@e.f.g ftp://h.i/j@k.lm",
		"https://one.io,https://two.io;x@y.zz",
		"x@y.z@w.v http://p.q/r?s=t&u=v#w",
	}
	for _, in := range inputs {
		ms := FindMatches(in)
		for i, m := range ms {
			if m.Start >= m.End {
				t.Errorf("FindMatches(%q)[%d] has Start %d >= End %d", in, i, m.Start, m.End)
			}
			if in[m.Start:m.End] != m.Text {
				t.Errorf("FindMatches(%q)[%d].Text = %q, want %q", in, i, m.Text, in[m.Start:m.End])
			}
			if i > 0 && m.Start < ms[i-1].End {
				t.Errorf("FindMatches(%q) overlap between %v and %v", in, ms[i-1], m)
			}
		}
	}
}

func TestResolveOverlaps_TieKeepsEarlier(t *testing.T) {
	in := []Match{
		{Start: 0, End: 4, Text: "abcd", Kind: KindURL},
		{Start: 2, End: 6, Text: "cdef", Kind: KindEmail},
		{Start: 8, End: 9, Text: "x", Kind: KindEmail},
	}
	got := resolveOverlaps(in)
	want := []Match{
		{Start: 0, End: 4, Text: "abcd", Kind: KindURL},
		{Start: 8, End: 9, Text: "x", Kind: KindEmail},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resolveOverlaps mismatch (-want +got):\n%s", diff)
	}
}

func TestKindString(t *testing.T) {
	if KindURL.String() != "url" {
		t.Errorf("KindURL.String() = %q, want url", KindURL.String())
	}
	if KindEmail.String() != "email" {
		t.Errorf("KindEmail.String() = %q, want email", KindEmail.String())
	}
}
