// Package drill holds the fill-in-the-blank logic shared by the web and
// terminal front ends.
package drill

import (
	"regexp"
	"strings"
)

// Placeholder replaces the headword in masked sentences.
const Placeholder = "________"

// Mask replaces every case-insensitive occurrence of word in sentence with
// Placeholder. Occurrences inside longer words are replaced too.
func Mask(sentence, word string) string {
	if word == "" {
		return sentence
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))
	return re.ReplaceAllLiteralString(sentence, Placeholder)
}

// CheckWord reports whether answer names word, ignoring case and
// surrounding spaces.
func CheckWord(answer, word string) bool {
	answer = strings.TrimSpace(answer)
	return answer != "" && strings.EqualFold(answer, word)
}

// CheckMeaning reports whether answer is a non-empty part of meaning.
func CheckMeaning(answer, meaning string) bool {
	answer = strings.TrimSpace(answer)
	return answer != "" && strings.Contains(meaning, answer)
}
