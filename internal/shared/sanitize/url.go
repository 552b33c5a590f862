package sanitize

import (
	"net/url"
	"regexp"
	"strings"
)

var unsafePrefixPattern = regexp.MustCompile(`(?i)^\s*(javascript|data|vbscript)\s*:`)

// URL returns s when it is an absolute http(s) URL with a host or a root-relative path,
// and "" otherwise. Scheme prefixes such as javascript: are stripped before the check.
func URL(s string) string {
	trimmed := strings.TrimSpace(s)
	for unsafePrefixPattern.MatchString(trimmed) {
		trimmed = strings.TrimSpace(unsafePrefixPattern.ReplaceAllString(trimmed, ""))
	}
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "/") {
		// "//host" and "/\host" are protocol-relative in browsers.
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, `/\`) {
			return ""
		}
		if strings.ContainsAny(trimmed, "<>\"") {
			return ""
		}
		return trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return trimmed
}
