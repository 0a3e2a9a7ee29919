package store

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// memoPolicy allows the inline markup the editor produces and links with
// safe schemes. Scripts, event handlers and other active content are
// removed.
func memoPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("br", "b", "i", "u", "em", "strong", "s", "span", "div", "p")
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
		p.AllowAttrs("rel").Matching(regexp.MustCompile(`^[a-z ]+$`)).OnElements("a")
		p.AllowURLSchemes("http", "https", "ftp", "mailto")
		p.RequireParseableURLs(true)
		policy = p
	})
	return policy
}

// Sanitize strips active content from stored memo markup.
func Sanitize(markup string) string {
	if markup == "" {
		return ""
	}
	return memoPolicy().Sanitize(markup)
}
