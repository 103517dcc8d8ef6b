package risk

import (
	"math/rand"
	"testing"
)

// computePIBCheckDigit recomputes the 9th digit for an 8-digit prefix using
// the same iterative scheme as the validator.
func computePIBCheckDigit(prefix string) int {
	v := 10
	for i := 0; i < 8; i++ {
		v = (v + int(prefix[i]-'0')) % 10
		if v == 0 {
			v = 10
		}
		v = v * 2 % 11
	}
	return (11 - v) % 10
}

func TestValidatePIB(t *testing.T) {
	tests := []struct {
		name string
		pib  string
		want bool
	}{
		{"golden sample", "100000008", true},
		{"mutated check digit", "100000009", false},
		{"too short", "10000000", false},
		{"too long", "1000000080", false},
		{"non-digit", "10000000a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePIB(tt.pib); got != tt.want {
				t.Errorf("ValidatePIB(%q) = %v, want %v", tt.pib, got, tt.want)
			}
		})
	}
}

func TestValidatePIBRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	digits := "0123456789"

	for i := 0; i < 200; i++ {
		prefix := make([]byte, 8)
		for j := range prefix {
			prefix[j] = digits[rng.Intn(10)]
		}
		check := computePIBCheckDigit(string(prefix))
		pib := string(prefix) + string(digits[check])

		if !ValidatePIB(pib) {
			t.Fatalf("generated PIB %q should validate", pib)
		}

		// Mutate a single digit; the checksum must catch it.
		pos := rng.Intn(9)
		delta := 1 + rng.Intn(9)
		mutated := []byte(pib)
		mutated[pos] = digits[(int(mutated[pos]-'0')+delta)%10]

		if ValidatePIB(string(mutated)) {
			t.Errorf("mutated PIB %q (from %q) should not validate", mutated, pib)
		}
	}
}

func TestValidateJMBG(t *testing.T) {
	tests := []struct {
		name string
		jmbg string
		want bool
	}{
		// 0101990 (1 Jan 1990), region 17, serial 751, check digit computed
		// by the cycling-weight scheme.
		{"valid id", validJMBG(t, "010199017751"), true},
		{"day zero", "000199017751" + "0", false},
		{"day 32", "320199017751" + "0", false},
		{"month zero", "010099017751" + "0", false},
		{"month 13", "011399017751" + "0", false},
		{"too short", "0101990177", false},
		{"non-digit", "01019901775a0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateJMBG(tt.jmbg); got != tt.want {
				t.Errorf("ValidateJMBG(%q) = %v, want %v", tt.jmbg, got, tt.want)
			}
		})
	}
}

func TestValidateJMBGWrongCheckDigit(t *testing.T) {
	id := validJMBG(t, "010199017751")
	wrong := int(id[12]-'0'+1) % 10
	mutated := id[:12] + string(rune('0'+wrong))
	if ValidateJMBG(mutated) {
		t.Errorf("JMBG with wrong check digit %q should not validate", mutated)
	}
}

// validJMBG appends the check digit to a 12-digit JMBG body. Bodies whose
// computed check is 10 have no valid form and fail the test setup.
func validJMBG(t *testing.T, body string) string {
	t.Helper()
	if len(body) != 12 {
		t.Fatalf("jmbg body must be 12 digits, got %q", body)
	}
	sum := 0
	weight := 2
	for i := 11; i >= 0; i-- {
		sum += weight * int(body[i]-'0')
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	check := 11 - sum%11
	if check == 10 {
		t.Fatalf("jmbg body %q has no valid check digit", body)
	}
	if check == 11 {
		check = 0
	}
	return body + string(rune('0'+check))
}

func TestValidateActivityCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"4520", true},
		{"0000", true},
		{"452", false},
		{"45201", false},
		{"45a0", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateActivityCode(tt.code); got != tt.want {
			t.Errorf("ValidateActivityCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestCheckWrappersCarryValue(t *testing.T) {
	err := CheckPIB("123456789")
	if err == nil {
		t.Fatal("expected error for invalid PIB")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Value != "123456789" {
		t.Errorf("error should carry the offending value, got %q", verr.Value)
	}

	if err := CheckPIB("100000008"); err != nil {
		t.Errorf("valid PIB should produce nil error, got %v", err)
	}
}
