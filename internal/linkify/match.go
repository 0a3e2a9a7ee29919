// Package linkify turns URLs and email addresses found in memo text into
// hyperlinks.
package linkify

import (
	"regexp"
	"slices"
	"sort"
)

// Kind classifies a match.
type Kind int

const (
	KindURL Kind = iota
	KindEmail
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	default:
		return "url"
	}
}

// Match is a linkable span of a single text node's value. Start and End are
// byte offsets, End exclusive.
type Match struct {
	Start int
	End   int
	Text  string
	Kind  Kind
}

var (
	// urlPattern requires an http, https or ftp scheme and refuses to end
	// on sentence punctuation.
	urlPattern = regexp.MustCompile(`(?i)\b(?:https?|ftp)://[-A-Z0-9+&@#/%?=~_|!:,.;]*[-A-Z0-9+&@#/%=~_|]`)

	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9._-]+`)
)

// FindMatches returns the non-overlapping URL and email spans of text,
// sorted by Start. Where a URL and an email overlap the longer span wins;
// on a tie the earlier one is kept.
func FindMatches(text string) []Match {
	var matches []Match
	matches = appendMatches(matches, urlPattern, text, KindURL)
	matches = appendMatches(matches, emailPattern, text, KindEmail)
	if len(matches) == 0 {
		return nil
	}

	// Stable so that a URL and an email starting at the same byte keep
	// URL-first order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})

	return resolveOverlaps(matches)
}

func appendMatches(dst []Match, re *regexp.Regexp, text string, kind Kind) []Match {
	for _, loc := range re.FindAllStringIndex(text, -1) {
		dst = append(dst, Match{
			Start: loc[0],
			End:   loc[1],
			Text:  text[loc[0]:loc[1]],
			Kind:  kind,
		})
	}
	return dst
}

// resolveOverlaps drops the shorter of every adjacent overlapping pair
// until none overlap. The input must be sorted by Start.
func resolveOverlaps(matches []Match) []Match {
	for i := 0; i+1 < len(matches); {
		cur, next := matches[i], matches[i+1]
		if next.Start >= cur.End {
			i++
			continue
		}
		if len(cur.Text) >= len(next.Text) {
			matches = slices.Delete(matches, i+1, i+2)
		} else {
			matches = slices.Delete(matches, i, i+1)
		}
	}
	return matches
}
