// FILE: pkg/assembly/extractor.go
// PURPOSE: Pulls a typed value for an expected field out of a free-text
// user utterance. Pattern based, no NLU.

package assembly

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind tells the extractor what shape of value the current question expects.
type Kind string

// Yes/no answers never reach the extractor; the engine matches them
// against the locale keyword tables directly.
const (
	KindFreeText Kind = "free_text" // names, addresses, descriptions
	KindNumber   Kind = "number"    // counts, risk factors
	KindPIB      Kind = "pib"       // exactly 9 digits
	KindJMBG     Kind = "jmbg"      // exactly 13 digits
	KindActivity Kind = "activity"  // exactly 4 digits
	KindMeasures Kind = "measures"  // free text, split later on delimiters
)

// Confidence grades how literally the extracted value can be trusted.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// Result is the outcome of one extraction attempt. A miss is Found=false,
// never an error.
type Result struct {
	Value      string
	Found      bool
	Confidence Confidence
}

var digitRun = regexp.MustCompile(`\d+`)

// Extract attempts to pull a value of the expected kind out of raw text.
// Total: never panics, absence of a match is Found=false.
func Extract(raw string, kind Kind) Result {
	trimmed := strings.TrimSpace(raw)

	switch kind {
	case KindNumber:
		m := digitRun.FindString(trimmed)
		if m == "" {
			return Result{}
		}
		return Result{Value: m, Found: true, Confidence: ConfidenceHigh}

	case KindPIB:
		return extractFixedDigits(trimmed, 9)
	case KindJMBG:
		return extractFixedDigits(trimmed, 13)
	case KindActivity:
		return extractFixedDigits(trimmed, 4)

	default:
		// Free-text kinds take the whole utterance.
		if trimmed == "" {
			return Result{}
		}
		conf := ConfidenceHigh
		if utf8.RuneCountInString(trimmed) < 2 {
			conf = ConfidenceLow
		}
		return Result{Value: trimmed, Found: true, Confidence: conf}
	}
}

// extractFixedDigits finds the first digit run of exactly n digits. A longer
// run does not satisfy a shorter kind.
func extractFixedDigits(s string, n int) Result {
	for _, m := range digitRun.FindAllString(s, -1) {
		if len(m) == n {
			return Result{Value: m, Found: true, Confidence: ConfidenceHigh}
		}
	}
	return Result{}
}
