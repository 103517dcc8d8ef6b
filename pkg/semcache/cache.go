package semcache

import (
	"context"
	"fmt"
	"log"

	"bzr-portal-be/internal/entity"
	"bzr-portal-be/internal/repository/unitofwork"
	"bzr-portal-be/pkg/embedding"

	"github.com/google/uuid"
)

// DefaultThreshold is the minimum cosine similarity for a cache hit.
const DefaultThreshold = 0.85

// JobProfile is the cache key material: what gets embedded and compared.
type JobProfile struct {
	PositionName string
	Description  string
}

func (p JobProfile) Text() string {
	return p.PositionName + "\n" + p.Description
}

// Hit is a reusable suggestion set found for a semantically similar profile.
type Hit struct {
	EntryId     uuid.UUID
	Suggestions []entity.HazardSuggestion
	Similarity  float64
}

// Cache reuses hazard suggestions across similar job descriptions so the
// LLM is not re-asked for every forklift operator in the country.
type Cache struct {
	embeddingProvider embedding.EmbeddingProvider
	threshold         float64
	logger            *log.Logger
}

func NewCache(embeddingProvider embedding.EmbeddingProvider, threshold float64, logger *log.Logger) *Cache {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Cache{
		embeddingProvider: embeddingProvider,
		threshold:         threshold,
		logger:            logger,
	}
}

// FindSimilar looks up the best cached suggestion set for this profile,
// scoped to one company account. A hit bumps the entry's usage counter
// exactly once. Returns nil on miss. Lookup failures are logged and
// reported as a miss: the cache never blocks the suggestion flow.
func (c *Cache) FindSimilar(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	companyId uuid.UUID,
	profile JobProfile,
) *Hit {

	embeddingRes, err := c.embeddingProvider.Generate(profile.Text(), "RETRIEVAL_QUERY")
	if err != nil {
		c.logger.Printf("[WARN] Cache lookup skipped, embedding failed: %v", err)
		return nil
	}

	scored, err := uow.SuggestionCacheRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		1,
		companyId,
		c.threshold,
	)
	if err != nil {
		c.logger.Printf("[WARN] Cache lookup skipped, vector search failed: %v", err)
		return nil
	}
	if len(scored) == 0 {
		c.logger.Printf("[DEBUG] Cache miss for %q (threshold %.2f)", profile.PositionName, c.threshold)
		return nil
	}

	best := scored[0]
	if err := uow.SuggestionCacheRepository().IncrementUsage(ctx, best.Entry.Id); err != nil {
		// The hit is still served; only the counter lags.
		c.logger.Printf("[WARN] Failed to bump usage counter for %s: %v", best.Entry.Id, err)
	}

	c.logger.Printf("[DEBUG] Cache hit %.4f for %q (entry %s)", best.Similarity, profile.PositionName, best.Entry.Id)

	return &Hit{
		EntryId:     best.Entry.Id,
		Suggestions: best.Entry.Suggestions,
		Similarity:  best.Similarity,
	}
}

// Save writes a fresh suggestion set through to the cache. Always an
// insert: near-duplicate entries are cheap and keeping both improves
// recall. Errors are logged, never returned, so a broken cache cannot
// fail a turn that already has its suggestions.
func (c *Cache) Save(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	companyId uuid.UUID,
	profile JobProfile,
	suggestions []entity.HazardSuggestion,
) {

	if len(suggestions) == 0 {
		return
	}

	embeddingRes, err := c.embeddingProvider.Generate(profile.Text(), "RETRIEVAL_DOCUMENT")
	if err != nil {
		c.logger.Printf("[WARN] Cache write skipped, embedding failed: %v", err)
		return
	}

	var confidenceSum float64
	for _, s := range suggestions {
		confidenceSum += s.Confidence
	}

	entry := &entity.SuggestionCache{
		Id:              uuid.New(),
		CompanyId:       companyId,
		PositionName:    profile.PositionName,
		WorkDescription: profile.Description,
		Embedding:       embeddingRes.Embedding.Values,
		Suggestions:     suggestions,
		ConfidenceAvg:   confidenceSum / float64(len(suggestions)),
	}

	if err := uow.SuggestionCacheRepository().Create(ctx, entry); err != nil {
		c.logger.Printf("[WARN] Cache write failed: %v", err)
		return
	}

	c.logger.Printf("[DEBUG] Cached %d suggestions for %q (entry %s)", len(suggestions), profile.PositionName, entry.Id)
}

// Stats summarizes cache effectiveness for the admin surface.
type Stats struct {
	Entries    int64   `json:"entries"`
	TotalHits  int64   `json:"total_hits"`
	AvgHitRate float64 `json:"avg_hit_rate"`
}

// CollectStats aggregates usage counters across all entries.
func (c *Cache) CollectStats(ctx context.Context, uow unitofwork.UnitOfWork) (*Stats, error) {
	entries, err := uow.SuggestionCacheRepository().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entries: %w", err)
	}

	stats := &Stats{Entries: int64(len(entries))}
	for _, e := range entries {
		stats.TotalHits += int64(e.UsageCount)
	}
	if stats.Entries > 0 {
		stats.AvgHitRate = float64(stats.TotalHits) / float64(stats.Entries)
	}
	return stats, nil
}
