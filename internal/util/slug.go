// Package util provides general-purpose helpers, most notably URL slug
// derivation and validation.
package util

import (
	"regexp"
	"strings"
)

var (
	// disallowed matches everything outside lowercase alphanumerics and spaces
	disallowed = regexp.MustCompile(`[^a-z0-9 ]+`)
	// spaceRuns matches runs of one or more spaces
	spaceRuns = regexp.MustCompile(` +`)
)

// Slugify derives a URL-safe slug from a title: the title is lowercased,
// everything outside [a-z0-9 ] is removed, and runs of spaces become single
// hyphens. Punctuation and hyphens in the title are dropped rather than kept,
// so "My-Cool App" slugs to "mycool-app".
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = disallowed.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	return spaceRuns.ReplaceAllString(s, "-")
}

// IsValidSlug reports whether s is a well-formed slug: non-empty, only
// lowercase letters, digits and hyphens, with no leading, trailing or
// consecutive hyphens.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	return !strings.Contains(s, "--")
}
