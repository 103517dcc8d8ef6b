// FILE: pkg/assembly/state.go
// PURPOSE: The versioned document-assembly state carried between turns in
// the conversation's metadata blob.

package assembly

import (
	"encoding/json"
	"fmt"

	"bzr-portal-be/pkg/risk"
)

// StateVersion is the current schema version of the serialized state.
const StateVersion = 2

// Step is the top-level stage of document assembly.
type Step string

const (
	StepCompanyInfo Step = "company_info"
	StepPositions   Step = "positions"
	StepComplete    Step = "complete"

	// Legacy tags from version 1 blobs. Upgraded on load into
	// StepPositions with the matching phase.
	legacyStepHazards  Step = "hazards"
	legacyStepMeasures Step = "measures"
)

// Phase is the explicit sub-step within StepPositions and StepComplete.
type Phase string

const (
	PhaseNone            Phase = ""
	PhasePositionName    Phase = "position_name"
	PhaseWorkerCount     Phase = "worker_count"
	PhaseDescription     Phase = "description"
	PhaseHazardName      Phase = "hazard_name"
	PhaseHazardE         Phase = "hazard_e"
	PhaseHazardP         Phase = "hazard_p"
	PhaseHazardF         Phase = "hazard_f"
	PhaseMeasures        Phase = "measures"
	PhaseResidual        Phase = "residual"
	PhaseAnotherHazard   Phase = "another_hazard"
	PhaseAnotherPosition Phase = "another_position"
	PhaseConfirm         Phase = "confirm"
)

// Company holds the eleven company fields, asked in a fixed order. A field
// is present only after it passed validation.
type Company struct {
	Name                string `json:"name,omitempty"`
	PIB                 string `json:"pib,omitempty"`
	Address             string `json:"address,omitempty"`
	City                string `json:"city,omitempty"`
	DirectorName        string `json:"director_name,omitempty"`
	DirectorJMBG        string `json:"director_jmbg,omitempty"`
	SafetyOfficerName   string `json:"safety_officer_name,omitempty"`
	SafetyOfficerJMBG   string `json:"safety_officer_jmbg,omitempty"`
	ActivityCode        string `json:"activity_code,omitempty"`
	ActivityDescription string `json:"activity_description,omitempty"`
	EmployeeCount       string `json:"employee_count,omitempty"`
}

// Hazard is one recognized hazard of a work position. Fields fill strictly
// in order E → P → F → measures → residual; Ri is derived when F lands.
type Hazard struct {
	Name      string   `json:"name"`
	E         int      `json:"e,omitempty"`
	P         int      `json:"p,omitempty"`
	F         int      `json:"f,omitempty"`
	Ri        int      `json:"ri,omitempty"`
	Measures  []string `json:"measures,omitempty"`
	Residual  *int     `json:"residual,omitempty"`
	RiskLevel string   `json:"risk_level,omitempty"`
}

// Complete reports whether the hazard has its residual risk recorded.
func (h *Hazard) Complete() bool {
	return h.Residual != nil
}

// Position is one work position of the document.
type Position struct {
	Name        string   `json:"name"`
	WorkerCount string   `json:"worker_count,omitempty"`
	Description string   `json:"description,omitempty"`
	Hazards     []Hazard `json:"hazards,omitempty"`
}

// DocumentState is the engine's sole durable checkpoint, serialized into
// the conversation metadata between turns.
type DocumentState struct {
	Version   int        `json:"version"`
	Step      Step       `json:"step"`
	Phase     Phase      `json:"phase,omitempty"`
	Company   Company    `json:"company"`
	Positions []Position `json:"positions,omitempty"`
}

// NewDocumentState returns the initial state of a fresh document conversation.
func NewDocumentState() *DocumentState {
	return &DocumentState{
		Version: StateVersion,
		Step:    StepCompanyInfo,
	}
}

// ParseState validates and upgrades a serialized state blob. Legacy step
// tags are mapped into the positions step; unknown tags are a corruption
// error that must propagate.
func ParseState(raw []byte) (*DocumentState, error) {
	if len(raw) == 0 {
		return NewDocumentState(), nil
	}

	var s DocumentState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("document state blob is not valid JSON: %w", err)
	}

	if s.Step == "" {
		s.Step = StepCompanyInfo
	}

	switch s.Step {
	case legacyStepHazards:
		s.Step = StepPositions
		s.Phase = PhaseHazardName
	case legacyStepMeasures:
		s.Step = StepPositions
		s.Phase = PhaseMeasures
	case StepCompanyInfo, StepPositions, StepComplete:
		// current tags
	default:
		return nil, fmt.Errorf("document state carries unknown step %q", s.Step)
	}

	s.Version = StateVersion
	return &s, nil
}

// Marshal serializes the state for the conversation metadata column.
func (s *DocumentState) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// CurrentPosition returns the position being collected, always the last
// list element.
func (s *DocumentState) CurrentPosition() *Position {
	if len(s.Positions) == 0 {
		return nil
	}
	return &s.Positions[len(s.Positions)-1]
}

// CurrentHazard returns the hazard being collected for the current position.
func (s *DocumentState) CurrentHazard() *Hazard {
	p := s.CurrentPosition()
	if p == nil || len(p.Hazards) == 0 {
		return nil
	}
	return &p.Hazards[len(p.Hazards)-1]
}

// Progress summarizes how far the assembly has come, for the response
// envelope's metadata.
func (s *DocumentState) Progress() map[string]interface{} {
	return map[string]interface{}{
		"step":            string(s.Step),
		"phase":           string(s.Phase),
		"company_fields":  s.companyFieldCount(),
		"total_positions": len(s.Positions),
	}
}

func (s *DocumentState) companyFieldCount() int {
	n := 0
	for _, v := range []string{
		s.Company.Name, s.Company.PIB, s.Company.Address, s.Company.City,
		s.Company.DirectorName, s.Company.DirectorJMBG,
		s.Company.SafetyOfficerName, s.Company.SafetyOfficerJMBG,
		s.Company.ActivityCode, s.Company.ActivityDescription,
		s.Company.EmployeeCount,
	} {
		if v != "" {
			n++
		}
	}
	return n
}

// Summary aggregates the risk picture of the collected document, embedded
// into the final payload for the downstream renderer.
type Summary struct {
	TotalPositions    int      `json:"total_positions"`
	TotalRisks        int      `json:"total_risks"`
	LowRiskCount      int      `json:"low_risk_count"`
	MediumRiskCount   int      `json:"medium_risk_count"`
	HighRiskCount     int      `json:"high_risk_count"`
	HighRiskPositions []string `json:"high_risk_positions,omitempty"`
}

// BuildSummary classifies every hazard's initial risk index into the three
// bands and lists positions that carry a high-band hazard.
func (s *DocumentState) BuildSummary() Summary {
	sum := Summary{TotalPositions: len(s.Positions)}
	for _, p := range s.Positions {
		high := false
		for _, h := range p.Hazards {
			sum.TotalRisks++
			switch risk.Classify(h.Ri) {
			case risk.LevelLow:
				sum.LowRiskCount++
			case risk.LevelMedium:
				sum.MediumRiskCount++
			case risk.LevelHigh:
				sum.HighRiskCount++
				high = true
			}
		}
		if high {
			sum.HighRiskPositions = append(sum.HighRiskPositions, p.Name)
		}
	}
	return sum
}
