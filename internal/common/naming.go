package common

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// commonInitialisms are upper-cased as a whole when building Go identifiers.
var commonInitialisms = map[string]bool{
	"api": true, "id": true, "ip": true, "json": true, "url": true,
	"uri": true, "uuid": true, "http": true, "html": true, "sql": true,
}

// ExportedName turns a stored field name into an exported Go identifier.
// Examples:
//   - "name" -> "Name"
//   - "password_hash" -> "PasswordHash"
//   - "zip-code" -> "ZipCode"
//   - "user_id" -> "UserID"
//   - "createdAt" -> "CreatedAt"
func ExportedName(s string) string {
	var b strings.Builder

	for _, word := range splitWords(s) {
		if commonInitialisms[strings.ToLower(word)] {
			b.WriteString(strings.ToUpper(word))
			continue
		}

		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(word[size:])
	}

	res := b.String()
	if res == "" {
		return "X"
	}

	if r, _ := utf8.DecodeRuneInString(res); !unicode.IsLetter(r) {
		res = "X" + res
	}

	return res
}

// splitWords splits on any rune that cannot appear in a Go identifier.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// SnakeName turns a Go identifier into a lower snake_case file name stem.
// Examples:
//   - "User" -> "user"
//   - "UserSettings" -> "user_settings"
//   - "HTTPHeader" -> "http_header"
//   - "UserID" -> "user_id"
func SnakeName(s string) string {
	runes := []rune(s)

	var b strings.Builder

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
