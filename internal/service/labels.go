package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NoDescription is used when a label carries no description part.
const NoDescription = "No description available."

// SplitLabel splits a stored label of the form
// "esco role: <title> \n description: <text>" into a display title and
// description. The title keeps only its first letter upper case.
func SplitLabel(raw string) (title, description string) {
	head, tail, found := strings.Cut(raw, "description:")
	title = capitalize(strings.TrimSpace(strings.ReplaceAll(head, "esco role:", "")))
	description = NoDescription
	if found {
		description = strings.TrimSpace(tail)
	}
	return title, description
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Snippet shortens s to at most n runes, adding "..." when cut.
func Snippet(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
