// FILE: pkg/risk/risk.go
// PURPOSE: E×P×F risk index arithmetic and the residual-risk rules used
// by the document assembly engine and the final document summary.

package risk

import "fmt"

// Level is the three-band risk classification used for both initial and
// residual risk.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

const (
	// FactorMin and FactorMax bound each of the E, P and F factors.
	FactorMin = 1
	FactorMax = 10

	// AcceptableMax is the upper bound of the medium band. A residual risk
	// above this value is not an acceptable outcome of mitigation.
	AcceptableMax = 70

	// LowMax is the upper bound of the low band.
	LowMax = 36
)

// ValidFactor reports whether n is a usable E, P or F value.
func ValidFactor(n int) bool {
	return n >= FactorMin && n <= FactorMax
}

// CheckFactor wraps ValidFactor into a domain error for the given factor name.
func CheckFactor(name string, n int) error {
	if ValidFactor(n) {
		return nil
	}
	return &ValidationError{
		Field:   name,
		Value:   fmt.Sprintf("%d", n),
		Message: fmt.Sprintf("Vrednost %d nije dozvoljena za faktor %s. Unesite broj od %d do %d.", n, name, FactorMin, FactorMax),
	}
}

// Index computes the risk index from the three factors.
func Index(e, p, f int) int {
	return e * p * f
}

// Classify maps a risk index into the three bands. Boundaries are exact:
// 36 is low, 37 and 70 are medium, 71 is high.
func Classify(r int) Level {
	switch {
	case r <= LowMax:
		return LevelLow
	case r <= AcceptableMax:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// CheckResidual enforces the residual-risk rules for a hazard whose initial
// index is ri: the residual must be strictly lower than ri, and when the
// initial risk is in the high band the residual must come down to the
// acceptable range (≤ 70).
func CheckResidual(residual, ri int) error {
	if residual < 0 {
		return &ValidationError{
			Field:   "residual",
			Value:   fmt.Sprintf("%d", residual),
			Message: "Preostali rizik ne može biti negativan broj.",
		}
	}
	if residual >= ri {
		return &ValidationError{
			Field:   "residual",
			Value:   fmt.Sprintf("%d", residual),
			Message: fmt.Sprintf("Preostali rizik (%d) mora biti strogo manji od početnog rizika (%d). Mere za smanjenje rizika moraju da smanje rizik.", residual, ri),
		}
	}
	if ri > AcceptableMax && residual > AcceptableMax {
		return &ValidationError{
			Field:   "residual",
			Value:   fmt.Sprintf("%d", residual),
			Message: fmt.Sprintf("Početni rizik (%d) je u zoni neprihvatljivog rizika. Preostali rizik mora biti najviše %d, uneto je %d.", ri, AcceptableMax, residual),
		}
	}
	return nil
}
