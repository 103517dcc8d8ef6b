package mapper

import (
	"encoding/json"
	"time"

	"bzr-portal-be/internal/entity"
	"bzr-portal-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SuggestionCacheMapper struct{}

func NewSuggestionCacheMapper() *SuggestionCacheMapper {
	return &SuggestionCacheMapper{}
}

func (m *SuggestionCacheMapper) ToEntity(c *model.SuggestionCache) *entity.SuggestionCache {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	// A malformed suggestions blob yields an empty list; the similarity
	// threshold is the only read-time gate.
	var suggestions []entity.HazardSuggestion
	_ = json.Unmarshal(c.Suggestions, &suggestions)

	return &entity.SuggestionCache{
		Id:              c.Id,
		CompanyId:       c.CompanyId,
		PositionName:    c.PositionName,
		WorkDescription: c.WorkDescription,
		Embedding:       c.Embedding.Slice(),
		Suggestions:     suggestions,
		ConfidenceAvg:   c.ConfidenceAvg,
		UsageCount:      c.UsageCount,
		LastUsedAt:      c.LastUsedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       c.DeletedAt.Valid,
	}
}

func (m *SuggestionCacheMapper) ToModel(c *entity.SuggestionCache) *model.SuggestionCache {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	suggestions, _ := json.Marshal(c.Suggestions)

	return &model.SuggestionCache{
		Id:              c.Id,
		CompanyId:       c.CompanyId,
		PositionName:    c.PositionName,
		WorkDescription: c.WorkDescription,
		Embedding:       pgvector.NewVector(c.Embedding),
		Suggestions:     datatypes.JSON(suggestions),
		ConfidenceAvg:   c.ConfidenceAvg,
		UsageCount:      c.UsageCount,
		LastUsedAt:      c.LastUsedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}
