package contract

import (
	"context"

	"bzr-portal-be/internal/entity"
	"bzr-portal-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredSuggestionCache wraps a cache entry with its similarity score
type ScoredSuggestionCache struct {
	Entry      *entity.SuggestionCache
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type SuggestionCacheRepository interface {
	Create(ctx context.Context, entry *entity.SuggestionCache) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SuggestionCache, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SuggestionCache, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns entries above the similarity threshold,
	// best match first, scoped to one company account.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, companyId uuid.UUID, threshold float64) ([]*ScoredSuggestionCache, error)
	// IncrementUsage bumps the usage counter and refreshes last_used_at in
	// one statement, exactly once per hit.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	// Administrative clear
	DeleteByCompanyId(ctx context.Context, companyId uuid.UUID) error
	DeleteAll(ctx context.Context) error
}
