package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SuggestionCache struct {
	Id              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyId       uuid.UUID       `gorm:"type:uuid;not null;index"` // Tenant scope
	PositionName    string          `gorm:"type:text;not null"`
	WorkDescription string          `gorm:"type:text;not null"`
	Embedding       pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 dimensionality
	Suggestions     datatypes.JSON  `gorm:"type:jsonb;not null"`
	ConfidenceAvg   float64         `gorm:"type:numeric(5,4);not null;default:0"`
	UsageCount      int             `gorm:"not null;default:0"`
	LastUsedAt      time.Time       `gorm:"autoCreateTime"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
}

func (SuggestionCache) TableName() string {
	return "suggestion_cache"
}
