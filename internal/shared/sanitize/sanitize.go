// Package sanitize neutralizes markup in untrusted strings before they are stored or rendered.
//
// Text is the default for every field. RichText keeps a small set of formatting tags for
// fields that hold authored content. URL accepts only http(s) and root-relative links.
// Detect reports whether a string looks like an injection attempt and is used for audit logs.
// None of the functions panic and all of them are safe for concurrent use.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)
	// Tolerates whitespace between letters, as browsers ignore some of it inside schemes.
	jsSchemePattern     = regexp.MustCompile(`(?i)j\s*a\s*v\s*a\s*s\s*c\s*r\s*i\s*p\s*t\s*:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
)

// Text returns s with every HTML special character entity-encoded, any surviving tags removed,
// and javascript: schemes plus on*= handler patterns stripped, in that order.
func Text(s string) string {
	if s == "" {
		return s
	}
	out := html.EscapeString(s)
	out = tagPattern.ReplaceAllString(out, "")
	out = stripRepeatedly(out, jsSchemePattern)
	out = stripRepeatedly(out, eventHandlerPattern)
	return out
}

// TextPtr is Text for optional values. A nil input yields nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := Text(*s)
	return &out
}

// stripRepeatedly removes matches until none remain, so "javajavascript:script:" cannot
// reassemble into a scheme after a single pass.
func stripRepeatedly(s string, pattern *regexp.Regexp) string {
	for pattern.MatchString(s) {
		s = pattern.ReplaceAllString(s, "")
	}
	return s
}

var dangerousSubstrings = []string{
	"<script",
	"javascript:",
	"<iframe",
	"<object",
	"<embed",
	"eval(",
	"expression(",
}

// Detect reports whether s contains a known injection marker. It never modifies input
// and is not meant to block requests on its own.
func Detect(s string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, marker := range dangerousSubstrings {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return jsSchemePattern.MatchString(s) || eventHandlerPattern.MatchString(s)
}
