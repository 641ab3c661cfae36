package indexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Preprocess normalizes a catalog fragment before tokenizing: underscores become spaces
// (so "netzwerk_kabel_5m" yields separate words) and whitespace runs collapse to one space.
func Preprocess(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "_", " "))
	var b strings.Builder
	wasSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}

// isKeyword reports whether token is worth storing: at least minLength runes and at least one letter.
func isKeyword(token string, minLength int) bool {
	if utf8.RuneCountInString(token) < minLength {
		return false
	}
	for _, r := range token {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
