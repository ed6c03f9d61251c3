package workspaces_models

import (
	"strings"
	"unicode"
)

// Slugify turns a workspace name into a URL-safe slug: lowercase
// alphanumerics with single dashes between words. Uniqueness is handled
// by the caller with a suffix.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true

	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "workspace"
	}

	return slug
}
