package match

import (
	"strings"
	"unicode"
)

// Normalize folds a field name for fuzzy comparison: letters are lowered and
// the separators '_', '-' and ' ' are dropped, so "password_hash",
// "passwordHash" and "PasswordHash" all normalize to "passwordhash".
func Normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
