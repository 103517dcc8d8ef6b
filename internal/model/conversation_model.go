package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Conversation struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title        string         `gorm:"type:text;not null"`
	Mode         string         `gorm:"type:varchar(50);not null;default:'sales'"`
	Status       string         `gorm:"type:varchar(50);not null;default:'active'"`
	InputTokens  int            `gorm:"not null;default:0"`
	OutputTokens int            `gorm:"not null;default:0"`
	TotalCostUSD float64        `gorm:"type:numeric(12,6);not null;default:0"`
	Metadata     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Conversation) TableName() string {
	return "conversations"
}
