package storage

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

const maxSlugRunes = 48

// Slug derives a filesystem-safe ASCII fragment from a presentation title,
// used to make artifact file names recognizable. Empty or fully
// non-translatable titles yield "presentation".
func Slug(title string) string {
	folded, _, err := transform.String(deaccent, title)
	if err != nil {
		folded = title
	}
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
		if sb.Len() >= maxSlugRunes {
			break
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		return "presentation"
	}
	return slug
}
