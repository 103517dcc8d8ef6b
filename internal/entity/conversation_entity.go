package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	Mode         string
	Status       string
	InputTokens  int
	OutputTokens int
	TotalCostUSD float64
	// Metadata carries the serialized document-assembly state. The chat
	// service is its only writer.
	Metadata  []byte
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
