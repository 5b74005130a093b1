// Package voice listens for wake phrases in recognized speech.
package voice

import "strings"

// DefaultWakePhrases are the spellings a recognizer produces for the
// product name.
var DefaultWakePhrases = []string{
	"msa3d",
	"msa 3d",
	"msa three d",
	"m s a 3 d",
	"m s a three d",
}

// MatchWake reports whether text contains any of the phrases,
// ignoring case. Phrases are expected in lower case.
func MatchWake(text string, phrases []string) bool {
	text = strings.ToLower(text)
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}
