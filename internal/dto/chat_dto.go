package dto

import (
	"time"

	"bzr-portal-be/pkg/assembly"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	ConversationId *uuid.UUID `json:"conversation_id,omitempty"`
	Message        string     `json:"message" validate:"required,max=4000"`

	// Mode lets the client pick the pipeline explicitly; when empty the
	// mode is inferred from the message keywords.
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=document_creation help sales"`
}

// CostDTO reports what one turn cost, per provider usage metadata.
type CostDTO struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	USD          float64 `json:"usd"`
	Provider     string  `json:"provider"`
}

// ChatMetadataDTO carries document-flow state alongside the reply.
type ChatMetadataDTO struct {
	DocumentProgress map[string]interface{} `json:"document_progress,omitempty"`
	DocumentComplete bool                   `json:"document_complete"`
	DocumentData     *assembly.DocumentData `json:"document_data,omitempty"`
}

type SendChatResponse struct {
	ConversationId uuid.UUID        `json:"conversation_id"`
	Message        string           `json:"message"`
	Mode           string           `json:"mode"`
	Cost           *CostDTO         `json:"cost,omitempty"`
	Metadata       *ChatMetadataDTO `json:"metadata,omitempty"`
}

type ConversationListResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Mode      string     `json:"mode"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ConversationHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type DeleteConversationRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
}
