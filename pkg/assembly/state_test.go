package assembly

import "testing"

func TestParseStateEmpty(t *testing.T) {
	s, err := ParseState(nil)
	if err != nil {
		t.Fatalf("ParseState(nil) error = %v", err)
	}
	if s.Step != StepCompanyInfo {
		t.Errorf("fresh state step = %s, want %s", s.Step, StepCompanyInfo)
	}
	if s.Version != StateVersion {
		t.Errorf("fresh state version = %d, want %d", s.Version, StateVersion)
	}
}

func TestParseStateRoundTrip(t *testing.T) {
	orig := NewDocumentState()
	orig.Step = StepPositions
	orig.Phase = PhaseHazardE
	orig.Company.Name = "Acme doo"
	orig.Positions = []Position{{Name: "vozač", Hazards: []Hazard{{Name: "buka", E: 3}}}}

	raw, err := orig.Marshal()
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	got, err := ParseState(raw)
	if err != nil {
		t.Fatalf("ParseState error = %v", err)
	}
	if got.Step != StepPositions || got.Phase != PhaseHazardE {
		t.Errorf("round trip lost position: step=%s phase=%s", got.Step, got.Phase)
	}
	if got.CurrentHazard() == nil || got.CurrentHazard().E != 3 {
		t.Error("round trip lost hazard factor")
	}
}

func TestParseStateUpgradesLegacySteps(t *testing.T) {
	tests := []struct {
		raw       string
		wantStep  Step
		wantPhase Phase
	}{
		{`{"version":1,"step":"hazards","company":{}}`, StepPositions, PhaseHazardName},
		{`{"version":1,"step":"measures","company":{}}`, StepPositions, PhaseMeasures},
	}

	for _, tt := range tests {
		s, err := ParseState([]byte(tt.raw))
		if err != nil {
			t.Fatalf("ParseState(%s) error = %v", tt.raw, err)
		}
		if s.Step != tt.wantStep || s.Phase != tt.wantPhase {
			t.Errorf("upgraded to step=%s phase=%s, want %s/%s", s.Step, s.Phase, tt.wantStep, tt.wantPhase)
		}
		if s.Version != StateVersion {
			t.Errorf("upgraded version = %d, want %d", s.Version, StateVersion)
		}
	}
}

func TestParseStateRejectsCorruption(t *testing.T) {
	if _, err := ParseState([]byte(`{"step":"banana"}`)); err == nil {
		t.Error("unknown step tag should be a corruption error")
	}
	if _, err := ParseState([]byte(`not json`)); err == nil {
		t.Error("invalid JSON should be a corruption error")
	}
}

func TestBuildSummary(t *testing.T) {
	r36, r90 := 36, 70
	s := NewDocumentState()
	s.Positions = []Position{
		{Name: "prodavac", Hazards: []Hazard{
			{Name: "dugotrajno stajanje", Ri: 30, Residual: &r36},
		}},
		{Name: "viljuškarista", Hazards: []Hazard{
			{Name: "unutrašnji transport", Ri: 90, Residual: &r90},
			{Name: "buka", Ri: 50, Residual: &r36},
		}},
	}

	sum := s.BuildSummary()
	if sum.TotalPositions != 2 || sum.TotalRisks != 3 {
		t.Errorf("totals = %d/%d, want 2/3", sum.TotalPositions, sum.TotalRisks)
	}
	if sum.LowRiskCount != 1 || sum.MediumRiskCount != 1 || sum.HighRiskCount != 1 {
		t.Errorf("bands = %d/%d/%d, want 1/1/1", sum.LowRiskCount, sum.MediumRiskCount, sum.HighRiskCount)
	}
	if len(sum.HighRiskPositions) != 1 || sum.HighRiskPositions[0] != "viljuškarista" {
		t.Errorf("high risk positions = %v", sum.HighRiskPositions)
	}
}
