// Package sanitize strips active content from field values before they are
// written to the CRM.
//
// Ordinary formatting markup (paragraphs, emphasis, lists, links, images,
// tables) survives. Scripts, forms, styles, frames, link tags and embedded
// media are removed along with id, class and name attributes, which could
// otherwise be used to spoof the CRM's own form elements.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans a single string value
type Sanitizer interface {
	Sanitize(s string) string
}

// Policy is the HTML policy applied to field values
type Policy struct {
	policy *bluemonday.Policy
}

// New returns the default field value policy
func New() *Policy {
	p := bluemonday.NewPolicy()

	p.AllowStandardURLs()
	p.AllowElements(
		"p", "br", "hr", "div", "span", "blockquote", "pre", "code",
		"b", "strong", "i", "em", "u", "s", "strike", "sub", "sup", "small",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "dl", "dt", "dd",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
	)
	p.AllowAttrs("href", "title").OnElements("a")
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowAttrs("title", "dir", "lang").Globally()

	// script and style bodies are dropped by default; do the same for the
	// other forbidden containers so their text doesn't leak through.
	p.SkipElementsContent("script", "style", "iframe", "frame", "object", "video", "audio", "form")

	return &Policy{policy: p}
}

// Sanitize returns s with disallowed markup removed. Quotes in text are
// left alone, so names like O'Brien or Bob "the builder" reach the CRM as
// typed.
func (p *Policy) Sanitize(s string) string {
	// attribute values are always double quoted, so apostrophes never need
	// escaping anywhere
	out := strings.ReplaceAll(p.policy.Sanitize(s), "&#39;", "'")
	return unescapeTextQuotes(out)
}

// unescapeTextQuotes turns &#34; back into " outside of tags. The input is
// policy output, where < and > inside attribute values are always escaped,
// so every literal < opens a tag and the next > closes it.
func unescapeTextQuotes(s string) string {
	if !strings.Contains(s, "&#34;") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(strings.ReplaceAll(s, "&#34;", `"`))
			break
		}
		b.WriteString(strings.ReplaceAll(s[:lt], "&#34;", `"`))
		s = s[lt:]

		gt := strings.IndexByte(s, '>')
		if gt < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:gt+1])
		s = s[gt+1:]
	}
	return b.String()
}

// Nop returns its input unchanged
type Nop struct{}

// Sanitize implements Sanitizer
func (Nop) Sanitize(s string) string { return s }
