package implementation

import (
	"context"
	"errors"
	"time"

	"bzr-portal-be/internal/entity"
	"bzr-portal-be/internal/mapper"
	"bzr-portal-be/internal/model"
	"bzr-portal-be/internal/repository/contract"
	"bzr-portal-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type SuggestionCacheRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SuggestionCacheMapper
}

func NewSuggestionCacheRepository(db *gorm.DB) contract.SuggestionCacheRepository {
	return &SuggestionCacheRepositoryImpl{
		db:     db,
		mapper: mapper.NewSuggestionCacheMapper(),
	}
}

func (r *SuggestionCacheRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SuggestionCacheRepositoryImpl) Create(ctx context.Context, entry *entity.SuggestionCache) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *SuggestionCacheRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SuggestionCache, error) {
	var m model.SuggestionCache
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SuggestionCacheRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SuggestionCache, error) {
	var models []*model.SuggestionCache
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SuggestionCache, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *SuggestionCacheRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SuggestionCache{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchSimilarWithScore returns cache entries with similarity scores,
// filtered by threshold and scoped to the company account.
// Cosine distance in pgvector is 1 - cosine_similarity, so the selected
// similarity is 1 - (embedding <=> query_vector).
func (r *SuggestionCacheRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, companyId uuid.UUID, threshold float64) ([]*contract.ScoredSuggestionCache, error) {
	if limit <= 0 {
		limit = 3
	}

	type result struct {
		model.SuggestionCache
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("suggestion_cache").
		Select("suggestion_cache.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("company_id = ?", companyId).
		Where("deleted_at IS NULL").
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredSuggestionCache, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredSuggestionCache{
			Entry:      r.mapper.ToEntity(&res.SuggestionCache),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *SuggestionCacheRepositoryImpl) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.SuggestionCache{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"last_used_at": time.Now(),
		}).Error
}

func (r *SuggestionCacheRepositoryImpl) DeleteByCompanyId(ctx context.Context, companyId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("company_id = ?", companyId).Delete(&model.SuggestionCache{}).Error
}

func (r *SuggestionCacheRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.SuggestionCache{}).Error
}
