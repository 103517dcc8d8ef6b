package assembly

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		kind      Kind
		wantFound bool
		wantValue string
		wantConf  Confidence
	}{
		{"free text trimmed", "  Acme doo Beograd  ", KindFreeText, true, "Acme doo Beograd", ConfidenceHigh},
		{"free text empty", "   ", KindFreeText, false, "", ""},
		{"free text single rune", "a", KindFreeText, true, "a", ConfidenceLow},
		{"number first run", "imamo 12 zaposlenih", KindNumber, true, "12", ConfidenceHigh},
		{"number none", "nemam pojma", KindNumber, false, "", ""},
		{"pib embedded", "PIB nam je 100000008, tako piše", KindPIB, true, "100000008", ConfidenceHigh},
		{"pib wrong width", "broj je 12345678", KindPIB, false, "", ""},
		{"pib skips longer run", "0101990177512 pa 100000008", KindPIB, true, "100000008", ConfidenceHigh},
		{"jmbg exact width", "jmbg 0101990177512", KindJMBG, true, "0101990177512", ConfidenceHigh},
		{"jmbg too short", "0101990", KindJMBG, false, "", ""},
		{"activity code", "šifra je 4520", KindActivity, true, "4520", ConfidenceHigh},
		{"activity code from year-like text", "osnovani 2015, šifra 4520", KindActivity, true, "2015", ConfidenceHigh},
		{"measures free text", "obuka, rukavice", KindMeasures, true, "obuka, rukavice", ConfidenceHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.raw, tt.kind)
			if got.Found != tt.wantFound {
				t.Fatalf("Found = %v, want %v", got.Found, tt.wantFound)
			}
			if got.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", got.Value, tt.wantValue)
			}
			if tt.wantFound && got.Confidence != tt.wantConf {
				t.Errorf("Confidence = %s, want %s", got.Confidence, tt.wantConf)
			}
		})
	}
}

func TestSplitMeasures(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"obuka zaposlenih, zaštitne rukavice; redovan servis", 3},
		{"jedna mera", 1},
		{"prva\ndruga\n\ntreća", 3},
		{"  ,  ;  ", 0},
	}

	for _, tt := range tests {
		if got := splitMeasures(tt.raw); len(got) != tt.want {
			t.Errorf("splitMeasures(%q) = %d parts, want %d", tt.raw, len(got), tt.want)
		}
	}
}
