package utils

import (
	"strings"
	"unicode"
)

// isFlattenedSpace reports whitespace as unicode.IsSpace does, plus the ASCII file, group,
// record and unit separators.
func isFlattenedSpace(character rune) bool {
	return unicode.IsSpace(character) || (character >= '\x1c' && character <= '\x1f')
}

// FlattenWhitespace collapses every run of whitespace, newlines and separator characters
// included, into a single space and drops leading and trailing whitespace.
func FlattenWhitespace(text string) string {
	return strings.Join(strings.FieldsFunc(text, isFlattenedSpace), " ")
}
