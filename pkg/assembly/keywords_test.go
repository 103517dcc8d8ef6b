package assembly

import "testing"

var testKeywords = Keywords{
	Yes: []string{"da", "jeste", "hoću", "važi", "ok"},
	No:  []string{"ne", "neću", "nema", "ne želim"},
}

func TestMatchYesNo(t *testing.T) {
	tests := []struct {
		text        string
		wantYes     bool
		wantMatched bool
	}{
		{"da", true, true},
		{"Da, naravno", true, true},
		{"važi!", true, true},
		{"ne", false, true},
		{"Ne, hvala.", false, true},
		{"ne želim više", false, true},
		{"možda kasnije", false, false},
		{"", false, false},
		// "ne" wins even when a polite "da" appears later.
		{"ne, mada da razmislim", false, true},
		// keyword must match a whole word, not a substring
		{"nedelja", false, false},
		{"dalje", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			yes, matched := testKeywords.MatchYesNo(tt.text)
			if matched != tt.wantMatched {
				t.Fatalf("matched = %v, want %v", matched, tt.wantMatched)
			}
			if matched && yes != tt.wantYes {
				t.Errorf("yes = %v, want %v", yes, tt.wantYes)
			}
		})
	}
}

func TestMatchAny(t *testing.T) {
	intents := []string{"akt", "procena rizika", "dokument"}

	if !MatchAny("treba mi akt o proceni rizika", intents) {
		t.Error("should match whole word keyword")
	}
	if !MatchAny("radimo novu procena rizika analizu", intents) {
		t.Error("should match multi-word keyword as substring")
	}
	if MatchAny("aktuelna tema", intents) {
		t.Error("should not match keyword inside a longer word")
	}
}
