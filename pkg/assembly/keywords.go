// FILE: pkg/assembly/keywords.go
// PURPOSE: Locale-specific keyword tables for yes/no and intent matching.
// The tables are configuration injected into the engine, the matching
// logic is locale-agnostic.

package assembly

import "strings"

// Keywords carries the keyword sets of the working locale.
type Keywords struct {
	Yes []string
	No  []string
}

// MatchYesNo finds a yes/no keyword in the utterance. The second return
// value is false when neither set matches. No wins over yes so "ne, hvala"
// with a polite "da" later in the sentence reads as a refusal.
func (k Keywords) MatchYesNo(text string) (yes bool, matched bool) {
	if MatchAny(text, k.No) {
		return false, true
	}
	if MatchAny(text, k.Yes) {
		return true, true
	}
	return false, false
}

// MatchAny reports whether the utterance contains any of the keywords as a
// whole word, case-insensitively.
func MatchAny(text string, keywords []string) bool {
	words := tokenize(text)
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(kw, " ") {
			if strings.Contains(strings.ToLower(text), kw) {
				return true
			}
			continue
		}
		for _, w := range words {
			if w == kw {
				return true
			}
		}
	}
	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', ',', '.', '!', '?', ';', ':':
			return true
		}
		return false
	})
}
