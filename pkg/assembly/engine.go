// FILE: pkg/assembly/engine.go
// PURPOSE: The conversation state machine. One Advance call per user turn:
// extract the expected field, validate it, mutate the state, decide the
// next question. On any unresolved turn the state is left untouched.

package assembly

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"bzr-portal-be/pkg/risk"

	"github.com/google/uuid"
)

// Suggestion is one AI-suggested hazard shown to the user while they pick
// hazards for a position.
type Suggestion struct {
	Code     string
	Name     string
	Category string
}

// SuggestionUsage reports what a suggestion lookup consumed. Document
// turns are otherwise scripted, so this is the only billable part of the
// flow and the orchestrator needs it even when the lookup failed.
type SuggestionUsage struct {
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// Suggester provides hazard suggestions for a described work position.
// The last return value is false when no suggestions are available; the
// engine then asks for manual entry, never fails the turn. Usage is
// reported regardless, a timed-out or unparsable call still cost tokens.
type Suggester interface {
	SuggestHazards(ctx context.Context, scopeId uuid.UUID, positionName, description string) ([]Suggestion, SuggestionUsage, bool)
}

// DocumentData is the complete payload handed to the downstream document
// renderer once the user confirms completion.
type DocumentData struct {
	Company     Company    `json:"company"`
	Positions   []Position `json:"positions"`
	Summary     Summary    `json:"summary"`
	GeneratedAt time.Time  `json:"generated_at"`
	ValidYears  int        `json:"valid_years"`
}

// ValidYears is how long a generated risk-assessment act stays valid.
const ValidYears = 3

// TurnResult is the outcome of one user turn.
type TurnResult struct {
	Message    string
	Question   string
	IsComplete bool
	Document   *DocumentData

	// Usage is non-zero only on turns that ran a suggestion lookup.
	Usage SuggestionUsage
}

// Reply joins the feedback message and the next question into one chat
// response.
func (r *TurnResult) Reply() string {
	switch {
	case r.Message == "":
		return r.Question
	case r.Question == "":
		return r.Message
	default:
		return r.Message + "\n\n" + r.Question
	}
}

// Engine drives document assembly. It is stateless between turns; all
// carry-over lives in the DocumentState the caller persists.
type Engine struct {
	keywords  Keywords
	suggester Suggester
	logger    *log.Logger
}

func NewEngine(keywords Keywords, suggester Suggester, logger *log.Logger) *Engine {
	return &Engine{
		keywords:  keywords,
		suggester: suggester,
		logger:    logger,
	}
}

// Start returns the opening message of a fresh document conversation. The
// triggering user message is intent, not an answer, so nothing is consumed.
func (e *Engine) Start(state *DocumentState) *TurnResult {
	return &TurnResult{
		Message:  msgWelcome,
		Question: e.nextCompanyQuestion(state),
	}
}

// Advance processes one user turn against the given state. The state is
// mutated only when the turn resolves; extraction misses and validation
// rejections re-ask the same question.
func (e *Engine) Advance(ctx context.Context, scopeId uuid.UUID, message string, state *DocumentState) (*TurnResult, error) {
	if state == nil {
		return nil, errors.New("advance called with nil document state")
	}

	switch state.Step {
	case StepCompanyInfo:
		return e.advanceCompany(message, state), nil
	case StepPositions:
		return e.advancePositions(ctx, scopeId, message, state)
	case StepComplete:
		return e.advanceComplete(message, state), nil
	default:
		return nil, fmt.Errorf("document state carries unknown step %q", state.Step)
	}
}

// --- company_info ---

type companyField struct {
	kind     Kind
	question string
	get      func(*Company) string
	set      func(*Company, string)
	validate func(string) error
}

var companyFields = []companyField{
	{KindFreeText, qCompanyName,
		func(c *Company) string { return c.Name },
		func(c *Company, v string) { c.Name = v }, nil},
	{KindPIB, qCompanyPIB,
		func(c *Company) string { return c.PIB },
		func(c *Company, v string) { c.PIB = v }, risk.CheckPIB},
	{KindFreeText, qCompanyAddress,
		func(c *Company) string { return c.Address },
		func(c *Company, v string) { c.Address = v }, nil},
	{KindFreeText, qCompanyCity,
		func(c *Company) string { return c.City },
		func(c *Company, v string) { c.City = v }, nil},
	{KindFreeText, qDirectorName,
		func(c *Company) string { return c.DirectorName },
		func(c *Company, v string) { c.DirectorName = v }, nil},
	{KindJMBG, qDirectorJMBG,
		func(c *Company) string { return c.DirectorJMBG },
		func(c *Company, v string) { c.DirectorJMBG = v }, risk.CheckJMBG},
	{KindFreeText, qSafetyOfficerName,
		func(c *Company) string { return c.SafetyOfficerName },
		func(c *Company, v string) { c.SafetyOfficerName = v }, nil},
	{KindJMBG, qSafetyOfficerJMBG,
		func(c *Company) string { return c.SafetyOfficerJMBG },
		func(c *Company, v string) { c.SafetyOfficerJMBG = v }, risk.CheckJMBG},
	{KindActivity, qActivityCode,
		func(c *Company) string { return c.ActivityCode },
		func(c *Company, v string) { c.ActivityCode = v }, risk.CheckActivityCode},
	{KindFreeText, qActivityDescription,
		func(c *Company) string { return c.ActivityDescription },
		func(c *Company, v string) { c.ActivityDescription = v }, nil},
	{KindNumber, qEmployeeCount,
		func(c *Company) string { return c.EmployeeCount },
		func(c *Company, v string) { c.EmployeeCount = v }, checkPositiveCount},
}

func checkPositiveCount(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return &risk.ValidationError{
			Field:   "count",
			Value:   v,
			Message: fmt.Sprintf("Broj \"%s\" nije ispravan. Unesite ceo broj veći od nule.", v),
		}
	}
	return nil
}

func (e *Engine) nextCompanyQuestion(state *DocumentState) string {
	for _, f := range companyFields {
		if f.get(&state.Company) == "" {
			return f.question
		}
	}
	return qPositionName
}

func (e *Engine) advanceCompany(message string, state *DocumentState) *TurnResult {
	for i := range companyFields {
		f := companyFields[i]
		if f.get(&state.Company) != "" {
			continue
		}

		res := Extract(message, f.kind)
		if !res.Found || res.Confidence == ConfidenceLow {
			return &TurnResult{
				Message:  msgClarifyPreamble,
				Question: f.question,
			}
		}
		if f.validate != nil {
			if err := f.validate(res.Value); err != nil {
				return &TurnResult{
					Message:  err.Error(),
					Question: f.question,
				}
			}
		}

		f.set(&state.Company, res.Value)

		if i == len(companyFields)-1 {
			state.Step = StepPositions
			state.Phase = PhasePositionName
			return &TurnResult{
				Message:  msgCompanyDone,
				Question: qPositionName,
			}
		}
		return &TurnResult{Question: companyFields[i+1].question}
	}

	// All fields present but step not advanced: a blob written by a
	// defective writer. Resynchronize instead of failing the user.
	state.Step = StepPositions
	state.Phase = PhasePositionName
	return &TurnResult{Message: msgCompanyDone, Question: qPositionName}
}

// --- positions ---

func (e *Engine) advancePositions(ctx context.Context, scopeId uuid.UUID, message string, state *DocumentState) (*TurnResult, error) {
	switch state.Phase {
	case PhaseNone, PhasePositionName:
		res := Extract(message, KindFreeText)
		if !res.Found || res.Confidence == ConfidenceLow {
			return &TurnResult{Message: msgClarifyPreamble, Question: qPositionName}, nil
		}
		state.Positions = append(state.Positions, Position{Name: res.Value})
		state.Phase = PhaseWorkerCount
		return &TurnResult{Question: qWorkerCount}, nil

	case PhaseWorkerCount:
		res := Extract(message, KindNumber)
		if !res.Found {
			return &TurnResult{Message: msgClarifyPreamble, Question: qWorkerCount}, nil
		}
		if err := checkPositiveCount(res.Value); err != nil {
			return &TurnResult{Message: err.Error(), Question: qWorkerCount}, nil
		}
		state.CurrentPosition().WorkerCount = res.Value
		state.Phase = PhaseDescription
		return &TurnResult{Question: qWorkDescription}, nil

	case PhaseDescription:
		res := Extract(message, KindFreeText)
		if !res.Found || res.Confidence == ConfidenceLow {
			return &TurnResult{Message: msgClarifyPreamble, Question: qWorkDescription}, nil
		}
		pos := state.CurrentPosition()
		pos.Description = res.Value
		state.Phase = PhaseHazardName
		text, usage := e.suggestionText(ctx, scopeId, pos)
		return &TurnResult{
			Message:  text,
			Question: qHazardName,
			Usage:    usage,
		}, nil

	case PhaseHazardName:
		res := Extract(message, KindFreeText)
		if !res.Found || res.Confidence == ConfidenceLow {
			return &TurnResult{Message: msgClarifyPreamble, Question: qHazardName}, nil
		}
		pos := state.CurrentPosition()
		pos.Hazards = append(pos.Hazards, Hazard{Name: res.Value})
		state.Phase = PhaseHazardE
		return &TurnResult{Question: qHazardE}, nil

	case PhaseHazardE:
		return e.acceptFactor(message, state, "E", qHazardE, qHazardP, PhaseHazardP,
			func(h *Hazard, n int) { h.E = n })

	case PhaseHazardP:
		return e.acceptFactor(message, state, "P", qHazardP, qHazardF, PhaseHazardF,
			func(h *Hazard, n int) { h.P = n })

	case PhaseHazardF:
		res := Extract(message, KindNumber)
		n, ok := parseInt(res)
		if !ok {
			return &TurnResult{Message: msgClarifyPreamble, Question: qHazardF}, nil
		}
		if err := risk.CheckFactor("F", n); err != nil {
			return &TurnResult{Message: err.Error(), Question: qHazardF}, nil
		}
		h := state.CurrentHazard()
		if h == nil {
			return nil, errors.New("factor phase reached without a current hazard")
		}
		h.F = n
		h.Ri = risk.Index(h.E, h.P, h.F)
		h.RiskLevel = string(risk.Classify(h.Ri))
		state.Phase = PhaseMeasures
		return &TurnResult{
			Message:  fmt.Sprintf("Početni rizik: E×P×F = %d×%d×%d = %d (%s).", h.E, h.P, h.F, h.Ri, riskLevelLabel(h.Ri)),
			Question: qMeasures,
		}, nil

	case PhaseMeasures:
		res := Extract(message, KindMeasures)
		if !res.Found || res.Confidence == ConfidenceLow {
			return &TurnResult{Message: msgClarifyPreamble, Question: qMeasures}, nil
		}
		h := state.CurrentHazard()
		if h == nil {
			return nil, errors.New("measures phase reached without a current hazard")
		}
		h.Measures = splitMeasures(res.Value)
		state.Phase = PhaseResidual
		return &TurnResult{Question: qResidual}, nil

	case PhaseResidual:
		res := Extract(message, KindNumber)
		n, ok := parseInt(res)
		if !ok {
			return &TurnResult{Message: msgClarifyPreamble, Question: qResidual}, nil
		}
		h := state.CurrentHazard()
		if h == nil {
			return nil, errors.New("residual phase reached without a current hazard")
		}
		if err := risk.CheckResidual(n, h.Ri); err != nil {
			return &TurnResult{Message: err.Error(), Question: qResidual}, nil
		}
		h.Residual = &n
		state.Phase = PhaseAnotherHazard
		return &TurnResult{
			Message:  fmt.Sprintf("%s Preostali rizik: %d (%s).", msgHazardRecorded, n, riskLevelLabel(n)),
			Question: qAnotherHazard,
		}, nil

	case PhaseAnotherHazard:
		yes, matched := e.keywords.MatchYesNo(message)
		if !matched {
			return &TurnResult{Message: msgClarifyPreamble, Question: qAnotherHazard}, nil
		}
		if yes {
			state.Phase = PhaseHazardName
			return &TurnResult{Question: qHazardName}, nil
		}
		state.Phase = PhaseAnotherPosition
		return &TurnResult{Question: qAnotherPosition}, nil

	case PhaseAnotherPosition:
		yes, matched := e.keywords.MatchYesNo(message)
		if !matched {
			return &TurnResult{Message: msgClarifyPreamble, Question: qAnotherPosition}, nil
		}
		if yes {
			state.Phase = PhasePositionName
			return &TurnResult{Question: qPositionName}, nil
		}
		state.Step = StepComplete
		state.Phase = PhaseConfirm
		return &TurnResult{
			Message:  e.summaryText(state),
			Question: qConfirm,
		}, nil

	default:
		return nil, fmt.Errorf("positions step carries unknown phase %q", state.Phase)
	}
}

func (e *Engine) acceptFactor(message string, state *DocumentState, name, ownQ, nextQ string, next Phase, set func(*Hazard, int)) (*TurnResult, error) {
	res := Extract(message, KindNumber)
	n, ok := parseInt(res)
	if !ok {
		return &TurnResult{Message: msgClarifyPreamble, Question: ownQ}, nil
	}
	if err := risk.CheckFactor(name, n); err != nil {
		return &TurnResult{Message: err.Error(), Question: ownQ}, nil
	}
	h := state.CurrentHazard()
	if h == nil {
		return nil, errors.New("factor phase reached without a current hazard")
	}
	set(h, n)
	state.Phase = next
	return &TurnResult{Question: nextQ}, nil
}

// --- complete ---

func (e *Engine) advanceComplete(message string, state *DocumentState) *TurnResult {
	yes, matched := e.keywords.MatchYesNo(message)
	if !matched {
		return &TurnResult{Message: msgClarifyPreamble, Question: qConfirm}
	}
	if !yes {
		state.Step = StepPositions
		state.Phase = PhaseAnotherPosition
		return &TurnResult{Message: msgKeepEditing, Question: qAnotherPosition}
	}

	return &TurnResult{
		Message:    msgDocumentReady,
		IsComplete: true,
		Document: &DocumentData{
			Company:     state.Company,
			Positions:   state.Positions,
			Summary:     state.BuildSummary(),
			GeneratedAt: time.Now(),
			ValidYears:  ValidYears,
		},
	}
}

// --- helpers ---

func (e *Engine) suggestionText(ctx context.Context, scopeId uuid.UUID, pos *Position) (string, SuggestionUsage) {
	if e.suggester == nil {
		return "", SuggestionUsage{}
	}
	suggestions, usage, ok := e.suggester.SuggestHazards(ctx, scopeId, pos.Name, pos.Description)
	if !ok || len(suggestions) == 0 {
		if e.logger != nil {
			e.logger.Printf("[ENGINE] No hazard suggestions for position %q, falling back to manual entry", pos.Name)
		}
		return "", usage
	}

	var b strings.Builder
	b.WriteString(msgSuggestionIntro)
	for _, s := range suggestions {
		b.WriteString(fmt.Sprintf("\n- [%s] %s", s.Code, s.Name))
	}
	b.WriteString("\n" + msgSuggestionHint)
	return b.String(), usage
}

func (e *Engine) summaryText(state *DocumentState) string {
	sum := state.BuildSummary()
	var b strings.Builder
	fmt.Fprintf(&b, "Pregled dokumenta: %d radnih mesta, %d procenjenih rizika (%d niskih, %d srednjih, %d visokih).",
		sum.TotalPositions, sum.TotalRisks, sum.LowRiskCount, sum.MediumRiskCount, sum.HighRiskCount)
	if len(sum.HighRiskPositions) > 0 {
		fmt.Fprintf(&b, " Radna mesta sa povećanim rizikom: %s.", strings.Join(sum.HighRiskPositions, ", "))
	}
	return b.String()
}

func parseInt(res Result) (int, bool) {
	if !res.Found {
		return 0, false
	}
	n, err := strconv.Atoi(res.Value)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitMeasures(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func riskLevelLabel(r int) string {
	switch risk.Classify(r) {
	case risk.LevelLow:
		return "nizak rizik"
	case risk.LevelMedium:
		return "srednji rizik"
	default:
		return "visok rizik"
	}
}
