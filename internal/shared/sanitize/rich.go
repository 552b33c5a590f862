package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy     *bluemonday.Policy
	richPolicyOnce sync.Once
)

// RichPolicy returns the shared allow-list policy for authored content: paragraphs, emphasis,
// lists, links, images, blockquotes and code. Attributes outside the list, including every
// on* handler, are dropped, and href/src must be http(s), mailto or relative.
func RichPolicy() *bluemonday.Policy {
	richPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("p", "br", "strong", "b", "em", "i", "u", "ul", "ol", "li", "blockquote", "code", "pre")

		p.AllowAttrs("href", "title").OnElements("a")
		p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
		p.AllowURLSchemes("http", "https", "mailto")
		p.AllowRelativeURLs(true)
		p.RequireNoFollowOnLinks(true)
		p.RequireParseableURLs(true)

		richPolicy = p
	})
	return richPolicy
}

// RichText keeps the allow-listed formatting tags of s and strips everything else.
func RichText(s string) string {
	if s == "" {
		return s
	}
	return RichPolicy().Sanitize(s)
}
