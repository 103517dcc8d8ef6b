// FILE: pkg/risk/validators.go
// PURPOSE: Checksum validators for the national identifiers collected
// during document assembly (PIB, JMBG, šifra delatnosti).

package risk

import "fmt"

// ValidationError is a user-correctable domain rejection. Message is shown
// to the user verbatim, so it is written in the working locale.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidatePIB checks a 9-digit tax identification number.
// The check digit is the iterative ISO 7064 MOD 11,10 over the first 8
// digits. Total: malformed input returns false, never panics.
func ValidatePIB(pib string) bool {
	if len(pib) != 9 || !allDigits(pib) {
		return false
	}

	v := 10
	for i := 0; i < 8; i++ {
		v = (v + int(pib[i]-'0')) % 10
		if v == 0 {
			v = 10
		}
		v = v * 2 % 11
	}

	return (11-v)%10 == int(pib[8]-'0')
}

// CheckPIB wraps ValidatePIB into a domain error carrying the offending value.
func CheckPIB(pib string) error {
	if ValidatePIB(pib) {
		return nil
	}
	return &ValidationError{
		Field:   "pib",
		Value:   pib,
		Message: fmt.Sprintf("PIB \"%s\" nije ispravan (kontrolna cifra se ne poklapa). Unesite tačan devetocifreni PIB.", pib),
	}
}

// ValidateJMBG checks a 13-digit personal identification number
// (DDMMYYYRRSSSK). Day and month ranges are checked before the checksum.
// Checksum walks digits from the 12th down to the 1st with cycling weights
// 2..7; a computed check of 10 marks the whole number invalid, 11 maps to 0.
func ValidateJMBG(jmbg string) bool {
	if len(jmbg) != 13 || !allDigits(jmbg) {
		return false
	}

	day := int(jmbg[0]-'0')*10 + int(jmbg[1]-'0')
	month := int(jmbg[2]-'0')*10 + int(jmbg[3]-'0')
	if day < 1 || day > 31 {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}

	sum := 0
	weight := 2
	for i := 11; i >= 0; i-- {
		sum += weight * int(jmbg[i]-'0')
		weight++
		if weight > 7 {
			weight = 2
		}
	}

	expected := 11 - sum%11
	if expected == 10 {
		return false
	}
	if expected == 11 {
		expected = 0
	}

	return expected == int(jmbg[12]-'0')
}

// CheckJMBG wraps ValidateJMBG into a domain error carrying the offending value.
func CheckJMBG(jmbg string) error {
	if ValidateJMBG(jmbg) {
		return nil
	}
	return &ValidationError{
		Field:   "jmbg",
		Value:   jmbg,
		Message: fmt.Sprintf("JMBG \"%s\" nije ispravan. Proverite svih 13 cifara i unesite ponovo.", jmbg),
	}
}

// ValidateActivityCode checks the 4-digit šifra delatnosti. Pure format
// check, there is no checksum in the classification.
func ValidateActivityCode(code string) bool {
	return len(code) == 4 && allDigits(code)
}

// CheckActivityCode wraps ValidateActivityCode into a domain error.
func CheckActivityCode(code string) error {
	if ValidateActivityCode(code) {
		return nil
	}
	return &ValidationError{
		Field:   "activity_code",
		Value:   code,
		Message: fmt.Sprintf("Šifra delatnosti \"%s\" nije ispravna. Očekuje se četvorocifrena šifra, npr. 4520.", code),
	}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
