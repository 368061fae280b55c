package utils

import (
	"regexp"
	"strings"
)

var (
	// Matches characters outside the slug alphabet (letters, digits,
	// whitespace, dashes).
	invalidSlugCharRe = regexp.MustCompile(`[^a-z0-9\s-]`)
	// Matches whitespace runs (for replacement with a single dash).
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// Slugify converts free text to a canonical URL-safe token.
//
// Rules:
//  1. Trim whitespace and lowercase
//  2. Remove characters outside [a-z0-9\s-]
//  3. Collapse whitespace runs to single dashes
//  4. Trim leading/trailing dashes
//
// Slugify is total: any input yields a result, empty input yields "".
// Callers that need a non-empty identifier must reject "" themselves.
//
// Examples:
//
//	"Open Source"   → "open-source"
//	"Next.js 14!"   → "nextjs-14"
//	"  Web   Dev  " → "web-dev"
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = invalidSlugCharRe.ReplaceAllString(s, "")
	s = whitespaceRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
