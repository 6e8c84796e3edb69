package workflow

import (
	"strings"
	"unicode"
)

// Slugify turns a theme into a filesystem-safe directory name: lowercase,
// spaces to underscores, anything outside [a-z0-9_-] dropped. Identical input
// always yields an identical slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		case r == '_' || r == '-' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'):
			b.WriteRune(r)
			lastUnderscore = false
		}
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		slug = "untitled"
	}
	return slug
}
