package dto

import (
	"time"

	"github.com/google/uuid"
)

// DocumentCompletedMessage travels over the in-process bus from the chat
// service to the consumer service.
type DocumentCompletedMessage struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	UserId         uuid.UUID `json:"user_id"`
	CompanyName    string    `json:"company_name"`
	Positions      int       `json:"positions"`
	HighRisks      int       `json:"high_risks"`
	GeneratedAt    time.Time `json:"generated_at"`
	ValidYears     int       `json:"valid_years"`
}
