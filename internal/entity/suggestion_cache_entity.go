package entity

import (
	"time"

	"github.com/google/uuid"
)

// HazardSuggestion is one cached or freshly suggested hazard.
type HazardSuggestion struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// SuggestionCache is one semantic-cache entry: the hazard list suggested
// for a described job, keyed by the embedding of that description and
// scoped to the owning company account.
type SuggestionCache struct {
	Id              uuid.UUID
	CompanyId       uuid.UUID
	PositionName    string
	WorkDescription string
	Embedding       []float32
	Suggestions     []HazardSuggestion
	ConfidenceAvg   float64
	UsageCount      int
	LastUsedAt      time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
