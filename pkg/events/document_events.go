package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeDocumentCompleted = "DOCUMENT_COMPLETED"
)

// NewDocumentCompletedEvent is emitted when a conversation finishes the
// guided flow and the document payload is ready for rendering. The
// validity window travels with the event so the renderer can stamp the
// document without knowing portal policy.
func NewDocumentCompletedEvent(conversationId, userId uuid.UUID, companyName string, positions, highRisks int, generatedAt time.Time, validYears int) Event {
	return BaseEvent{
		Type: TypeDocumentCompleted,
		Data: map[string]interface{}{
			"conversation_id": conversationId.String(),
			"user_id":         userId.String(),
			"company_name":    companyName,
			"positions":       positions,
			"high_risks":      highRisks,
			"generated_at":    generatedAt.Format(time.RFC3339),
			"valid_years":     validYears,
		},
		OccurredAt: time.Now(),
	}
}
