// Package analysis implements the word-frequency core: token normalization,
// filter policies, frequency ranking, and the per-user analysis session that
// drives the dashboard chart.
package analysis

import (
	"strings"
	"unicode"
)

// Normalize converts raw text into a lowercase token stream.
// Every rune that is not a Unicode letter or whitespace is stripped (digits,
// punctuation, emoji), then the result is split on whitespace runs.
// No stemming and no per-item dedup: repeated tokens count once per occurrence.
func Normalize(text string) []string {
	if text == "" {
		return nil
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			sb.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}
	return strings.Fields(sb.String())
}

// NormalizeJoined returns the normalized text as a single space-joined string.
// Used for substring matching in Session.Detail.
func NormalizeJoined(text string) string {
	return strings.Join(Normalize(text), " ")
}
