package assembly

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// Valid sample identifiers: check digits recomputed by the validators'
// own schemes.
const (
	testPIB   = "100000008"
	testJMBG1 = "0101990177512"
	testJMBG2 = "0101850712345"
)

func newTestEngine() *Engine {
	return NewEngine(testKeywords, nil, nil)
}

func mustAdvance(t *testing.T, e *Engine, msg string, state *DocumentState) *TurnResult {
	t.Helper()
	res, err := e.Advance(context.Background(), uuid.Nil, msg, state)
	if err != nil {
		t.Fatalf("Advance(%q) error = %v", msg, err)
	}
	return res
}

func TestCompanyInfoFlow(t *testing.T) {
	e := newTestEngine()
	state := NewDocumentState()

	answers := []string{
		"Acme Ltd",
		testPIB,
		"1 Main St",
		"Springfield",
		"Jane Doe",
		testJMBG1,
		"John Roe",
		testJMBG2,
		"4520",
		"Retail",
		"12",
	}

	for i, answer := range answers {
		if state.Step != StepCompanyInfo {
			t.Fatalf("step advanced to %s before answer %d", state.Step, i+1)
		}
		mustAdvance(t, e, answer, state)
	}

	if state.Step != StepPositions {
		t.Fatalf("after 11 accepted answers step = %s, want %s", state.Step, StepPositions)
	}
	if state.Phase != PhasePositionName {
		t.Errorf("phase = %s, want %s", state.Phase, PhasePositionName)
	}
	if state.Company.PIB != testPIB || state.Company.EmployeeCount != "12" {
		t.Errorf("company data incomplete: %+v", state.Company)
	}
}

func TestCompanyInfoRejectsInvalidPIB(t *testing.T) {
	e := newTestEngine()
	state := NewDocumentState()

	mustAdvance(t, e, "Acme Ltd", state)

	res := mustAdvance(t, e, "123456789", state)
	if state.Company.PIB != "" {
		t.Fatal("invalid PIB must not be stored")
	}
	if !strings.Contains(res.Message, "123456789") {
		t.Errorf("rejection should name the offending value, got %q", res.Message)
	}
	if res.Question != qCompanyPIB {
		t.Errorf("should re-ask the PIB question, got %q", res.Question)
	}

	// The turn did not advance; a valid PIB now lands on the same field.
	mustAdvance(t, e, testPIB, state)
	if state.Company.PIB != testPIB {
		t.Error("valid PIB should be stored after rejection")
	}
}

func TestCompanyInfoReAsksOnMiss(t *testing.T) {
	e := newTestEngine()
	state := NewDocumentState()

	res := mustAdvance(t, e, "   ", state)
	if state.Company.Name != "" {
		t.Fatal("empty utterance must not fill a field")
	}
	if !strings.HasPrefix(res.Message, msgClarifyPreamble) {
		t.Errorf("miss should add the clarification preamble, got %q", res.Message)
	}
}

// driveToHazardFactors walks a fresh positions-step state up to the E factor
// question for one hazard.
func driveToHazardFactors(t *testing.T, e *Engine, state *DocumentState) {
	t.Helper()
	state.Step = StepPositions
	state.Phase = PhasePositionName

	mustAdvance(t, e, "viljuškarista", state)
	mustAdvance(t, e, "4", state)
	mustAdvance(t, e, "Prevoz paleta po magacinu i utovar kamiona", state)
	mustAdvance(t, e, "unutrašnji transport", state)

	if state.Phase != PhaseHazardE {
		t.Fatalf("expected hazard E phase, got %s", state.Phase)
	}
}

func TestHazardFlowEnforcesResidualInvariant(t *testing.T) {
	e := newTestEngine()
	state := NewDocumentState()
	driveToHazardFactors(t, e, state)

	mustAdvance(t, e, "3", state)
	mustAdvance(t, e, "5", state)
	res := mustAdvance(t, e, "6", state)

	h := state.CurrentHazard()
	if h.Ri != 90 {
		t.Fatalf("Ri = %d, want 90", h.Ri)
	}
	if !strings.Contains(res.Message, "90") {
		t.Errorf("factor acceptance should report the computed index, got %q", res.Message)
	}

	mustAdvance(t, e, "add guardrails", state)

	// 95 >= 90: rejected, sub-loop does not advance.
	res = mustAdvance(t, e, "95", state)
	if h := state.CurrentHazard(); h.Residual != nil {
		t.Fatal("rejected residual must not be stored")
	}
	if state.Phase != PhaseResidual {
		t.Fatalf("phase advanced to %s on a rejected residual", state.Phase)
	}
	if !strings.Contains(res.Message, "95") {
		t.Errorf("rejection should name the offending value, got %q", res.Message)
	}

	// 75 < 90 but above the acceptable band while Ri > 70: rejected.
	mustAdvance(t, e, "75", state)
	if state.Phase != PhaseResidual {
		t.Fatal("residual above the acceptable band must be rejected when Ri > 70")
	}

	// 36 passes both rules.
	res = mustAdvance(t, e, "36", state)
	h = state.CurrentHazard()
	if h.Residual == nil || *h.Residual != 36 {
		t.Fatalf("accepted residual not stored: %+v", h)
	}
	if !h.Complete() {
		t.Error("hazard should be complete once residual lands")
	}
	if !strings.Contains(res.Message, "nizak") {
		t.Errorf("residual 36 should classify as low, got %q", res.Message)
	}
	if state.Phase != PhaseAnotherHazard {
		t.Errorf("phase = %s, want %s", state.Phase, PhaseAnotherHazard)
	}
}

func TestFactorRangeRejected(t *testing.T) {
	e := newTestEngine()
	state := NewDocumentState()
	driveToHazardFactors(t, e, state)

	res := mustAdvance(t, e, "11", state)
	if state.CurrentHazard().E != 0 {
		t.Fatal("out-of-range factor must not be stored")
	}
	if res.Question != qHazardE {
		t.Errorf("should re-ask E, got %q", res.Question)
	}
}

func TestCompletionFlow(t *testing.T) {
	e := newTestEngine()
	state := NewDocumentState()
	state.Company.Name = "Acme Ltd"
	driveToHazardFactors(t, e, state)

	for _, msg := range []string{"3", "5", "6", "add guardrails", "36"} {
		mustAdvance(t, e, msg, state)
	}

	// No more hazards, no more positions.
	mustAdvance(t, e, "ne", state)
	res := mustAdvance(t, e, "ne", state)
	if state.Step != StepComplete {
		t.Fatalf("step = %s, want %s", state.Step, StepComplete)
	}
	if res.Question != qConfirm {
		t.Errorf("should ask for confirmation, got %q", res.Question)
	}
	if !strings.Contains(res.Message, "1 radnih mesta") {
		t.Errorf("summary should report position count, got %q", res.Message)
	}

	// "no" re-opens the positions step.
	mustAdvance(t, e, "ne", state)
	if state.Step != StepPositions || state.Phase != PhaseAnotherPosition {
		t.Fatalf("refusal should re-enter positions at the add-another gate, got %s/%s", state.Step, state.Phase)
	}

	// Back to confirmation, then "yes" finalizes.
	mustAdvance(t, e, "ne", state)
	res = mustAdvance(t, e, "da", state)

	if !res.IsComplete {
		t.Fatal("confirmation should complete the document")
	}
	if res.Document == nil {
		t.Fatal("completion must carry the document payload")
	}
	if res.Document.Summary.TotalRisks != 1 || res.Document.Summary.HighRiskCount != 1 {
		t.Errorf("summary = %+v", res.Document.Summary)
	}
	if res.Document.ValidYears != ValidYears {
		t.Errorf("validity = %d, want %d", res.Document.ValidYears, ValidYears)
	}
}

// fake suggester for the description phase

type fakeSuggester struct {
	suggestions []Suggestion
	usage       SuggestionUsage
	ok          bool
	calls       int
}

func (f *fakeSuggester) SuggestHazards(_ context.Context, _ uuid.UUID, _, _ string) ([]Suggestion, SuggestionUsage, bool) {
	f.calls++
	return f.suggestions, f.usage, f.ok
}

func TestDescriptionTriggersSuggestions(t *testing.T) {
	fake := &fakeSuggester{
		suggestions: []Suggestion{{Code: "03", Name: "Unutrašnji transport", Category: "mechanical"}},
		ok:          true,
	}
	e := NewEngine(testKeywords, fake, nil)
	state := NewDocumentState()
	state.Step = StepPositions
	state.Phase = PhasePositionName

	mustAdvance(t, e, "viljuškarista", state)
	mustAdvance(t, e, "4", state)
	res := mustAdvance(t, e, "Prevoz paleta po magacinu", state)

	if fake.calls != 1 {
		t.Fatalf("suggester calls = %d, want 1", fake.calls)
	}
	if !strings.Contains(res.Message, "[03]") {
		t.Errorf("suggestions should appear in the prompt, got %q", res.Message)
	}
	if res.Question != qHazardName {
		t.Errorf("question = %q, want hazard name", res.Question)
	}
}

func TestSuggestionUsageReachesTurnResult(t *testing.T) {
	fake := &fakeSuggester{
		suggestions: []Suggestion{{Code: "03", Name: "Unutrašnji transport"}},
		usage: SuggestionUsage{
			Provider:     "gemini",
			Model:        "gemini-1.5-flash",
			InputTokens:  840,
			OutputTokens: 55,
			CostUSD:      0.0000795,
		},
		ok: true,
	}
	e := NewEngine(testKeywords, fake, nil)
	state := NewDocumentState()
	state.Step = StepPositions
	state.Phase = PhasePositionName

	mustAdvance(t, e, "viljuškarista", state)
	mustAdvance(t, e, "4", state)
	res := mustAdvance(t, e, "Prevoz paleta po magacinu", state)

	if res.Usage != fake.usage {
		t.Errorf("usage = %+v, want %+v", res.Usage, fake.usage)
	}
}

func TestSuggestionUsageSurvivesFallback(t *testing.T) {
	fake := &fakeSuggester{
		usage: SuggestionUsage{Provider: "gemini", Model: "gemini-1.5-flash", InputTokens: 840, OutputTokens: 12, CostUSD: 0.0000666},
		ok:    false,
	}
	e := NewEngine(testKeywords, fake, nil)
	state := NewDocumentState()
	state.Step = StepPositions
	state.Phase = PhasePositionName

	mustAdvance(t, e, "viljuškarista", state)
	mustAdvance(t, e, "4", state)
	res := mustAdvance(t, e, "Prevoz paleta po magacinu", state)

	// An unparsable or timed-out call still consumed tokens.
	if res.Usage.InputTokens != 840 || res.Usage.CostUSD == 0 {
		t.Errorf("fallback must keep usage for billing, got %+v", res.Usage)
	}
}

func TestSuggestionFailureOnlyAffectsPromptText(t *testing.T) {
	fake := &fakeSuggester{ok: false}
	e := NewEngine(testKeywords, fake, nil)
	state := NewDocumentState()
	state.Step = StepPositions
	state.Phase = PhasePositionName

	mustAdvance(t, e, "viljuškarista", state)
	mustAdvance(t, e, "4", state)
	res := mustAdvance(t, e, "Prevoz paleta po magacinu", state)

	if res.Message != "" {
		t.Errorf("fallback should leave the prompt bare, got %q", res.Message)
	}
	if state.Phase != PhaseHazardName {
		t.Errorf("suggestion failure must not block the flow, phase = %s", state.Phase)
	}
	if state.CurrentPosition().Description == "" {
		t.Error("description must be stored regardless of suggestion outcome")
	}
}

func TestUnknownPhaseIsCorruption(t *testing.T) {
	e := newTestEngine()
	state := NewDocumentState()
	state.Step = StepPositions
	state.Phase = Phase("banana")

	if _, err := e.Advance(context.Background(), uuid.Nil, "da", state); err == nil {
		t.Error("unknown phase should propagate as an error")
	}
}
