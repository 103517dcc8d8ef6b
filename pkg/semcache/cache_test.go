package semcache

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"bzr-portal-be/internal/entity"
	"bzr-portal-be/internal/repository/contract"
	"bzr-portal-be/internal/repository/specification"
	"bzr-portal-be/internal/repository/unitofwork"
	"bzr-portal-be/pkg/embedding"

	"github.com/google/uuid"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: f.vector},
	}, nil
}

type fakeCacheRepo struct {
	contract.SuggestionCacheRepository

	searchResult []*contract.ScoredSuggestionCache
	searchErr    error

	created        []*entity.SuggestionCache
	createErr      error
	incrementedIds []uuid.UUID
	incrementErr   error
}

func (f *fakeCacheRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, companyId uuid.UUID, threshold float64) ([]*contract.ScoredSuggestionCache, error) {
	return f.searchResult, f.searchErr
}

func (f *fakeCacheRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	f.incrementedIds = append(f.incrementedIds, id)
	return f.incrementErr
}

func (f *fakeCacheRepo) Create(ctx context.Context, entry *entity.SuggestionCache) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, entry)
	return nil
}

func (f *fakeCacheRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SuggestionCache, error) {
	var all []*entity.SuggestionCache
	for _, s := range f.searchResult {
		all = append(all, s.Entry)
	}
	return all, nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	cacheRepo *fakeCacheRepo
}

func (f *fakeUow) SuggestionCacheRepository() contract.SuggestionCacheRepository {
	return f.cacheRepo
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestFindSimilarHitBumpsUsageOnce(t *testing.T) {
	entryId := uuid.New()
	repo := &fakeCacheRepo{
		searchResult: []*contract.ScoredSuggestionCache{
			{
				Entry: &entity.SuggestionCache{
					Id: entryId,
					Suggestions: []entity.HazardSuggestion{
						{Code: "03", Name: "Pad predmeta sa visine", Confidence: 0.9},
					},
				},
				Similarity: 0.91,
			},
		},
	}
	uow := &fakeUow{cacheRepo: repo}
	c := NewCache(&fakeEmbedder{vector: []float32{0.1, 0.2}}, DefaultThreshold, discardLogger())

	hit := c.FindSimilar(context.Background(), uow, uuid.New(), JobProfile{PositionName: "viljuškarista", Description: "rad u magacinu"})
	if hit == nil {
		t.Fatal("expected a cache hit")
	}
	if hit.EntryId != entryId {
		t.Errorf("hit entry = %s, want %s", hit.EntryId, entryId)
	}
	if hit.Similarity != 0.91 {
		t.Errorf("similarity = %v, want 0.91", hit.Similarity)
	}
	if len(hit.Suggestions) != 1 || hit.Suggestions[0].Code != "03" {
		t.Errorf("unexpected suggestions: %+v", hit.Suggestions)
	}
	if len(repo.incrementedIds) != 1 || repo.incrementedIds[0] != entryId {
		t.Errorf("usage counter bumped %d times, want exactly once for %s", len(repo.incrementedIds), entryId)
	}
}

func TestSequentialHitsCountSeparately(t *testing.T) {
	entryId := uuid.New()
	repo := &fakeCacheRepo{
		searchResult: []*contract.ScoredSuggestionCache{
			{
				Entry: &entity.SuggestionCache{
					Id:          entryId,
					Suggestions: []entity.HazardSuggestion{{Code: "01", Confidence: 0.8}},
				},
				Similarity: 0.95,
			},
		},
	}
	uow := &fakeUow{cacheRepo: repo}
	c := NewCache(&fakeEmbedder{vector: []float32{0.3}}, DefaultThreshold, discardLogger())

	profile := JobProfile{PositionName: "zavarivač", Description: "varenje konstrukcija"}
	for i := 0; i < 2; i++ {
		if hit := c.FindSimilar(context.Background(), uow, uuid.New(), profile); hit == nil {
			t.Fatalf("hit %d: expected a cache hit", i+1)
		}
	}
	if len(repo.incrementedIds) != 2 {
		t.Errorf("usage counter bumped %d times after two hits, want 2", len(repo.incrementedIds))
	}
}

func TestFindSimilarMissReturnsNil(t *testing.T) {
	repo := &fakeCacheRepo{}
	uow := &fakeUow{cacheRepo: repo}
	c := NewCache(&fakeEmbedder{vector: []float32{0.1}}, DefaultThreshold, discardLogger())

	if hit := c.FindSimilar(context.Background(), uow, uuid.New(), JobProfile{PositionName: "kuvar"}); hit != nil {
		t.Fatalf("expected miss, got %+v", hit)
	}
	if len(repo.incrementedIds) != 0 {
		t.Error("usage counter must not move on a miss")
	}
}

func TestFindSimilarFailSoft(t *testing.T) {
	tests := []struct {
		name string
		emb  *fakeEmbedder
		repo *fakeCacheRepo
	}{
		{
			name: "embedding failure",
			emb:  &fakeEmbedder{err: errors.New("provider down")},
			repo: &fakeCacheRepo{},
		},
		{
			name: "vector search failure",
			emb:  &fakeEmbedder{vector: []float32{0.1}},
			repo: &fakeCacheRepo{searchErr: errors.New("db down")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache(tt.emb, DefaultThreshold, discardLogger())
			uow := &fakeUow{cacheRepo: tt.repo}
			if hit := c.FindSimilar(context.Background(), uow, uuid.New(), JobProfile{PositionName: "zavarivač"}); hit != nil {
				t.Fatalf("expected nil hit, got %+v", hit)
			}
		})
	}
}

func TestHitServedEvenWhenCounterFails(t *testing.T) {
	repo := &fakeCacheRepo{
		searchResult: []*contract.ScoredSuggestionCache{
			{Entry: &entity.SuggestionCache{Id: uuid.New()}, Similarity: 0.88},
		},
		incrementErr: errors.New("lock timeout"),
	}
	c := NewCache(&fakeEmbedder{vector: []float32{0.1}}, DefaultThreshold, discardLogger())

	if hit := c.FindSimilar(context.Background(), &fakeUow{cacheRepo: repo}, uuid.New(), JobProfile{PositionName: "vozač"}); hit == nil {
		t.Fatal("hit must survive a failed counter update")
	}
}

func TestSaveWritesEntryWithAvgConfidence(t *testing.T) {
	repo := &fakeCacheRepo{}
	c := NewCache(&fakeEmbedder{vector: []float32{0.5, 0.5}}, DefaultThreshold, discardLogger())
	companyId := uuid.New()

	c.Save(context.Background(), &fakeUow{cacheRepo: repo}, companyId, JobProfile{PositionName: "električar", Description: "rad na instalacijama"}, []entity.HazardSuggestion{
		{Code: "10", Confidence: 0.8},
		{Code: "11", Confidence: 0.6},
	})

	if len(repo.created) != 1 {
		t.Fatalf("created %d entries, want 1", len(repo.created))
	}
	e := repo.created[0]
	if e.CompanyId != companyId {
		t.Errorf("company scope lost: %s", e.CompanyId)
	}
	if e.ConfidenceAvg != 0.7 {
		t.Errorf("confidence avg = %v, want 0.7", e.ConfidenceAvg)
	}
	if len(e.Embedding) != 2 {
		t.Errorf("embedding not stored: %v", e.Embedding)
	}
}

func TestSaveSkipsEmptyAndFailsSoft(t *testing.T) {
	repo := &fakeCacheRepo{createErr: errors.New("disk full")}
	c := NewCache(&fakeEmbedder{vector: []float32{0.5}}, DefaultThreshold, discardLogger())
	uow := &fakeUow{cacheRepo: repo}

	// Nothing to cache.
	c.Save(context.Background(), uow, uuid.New(), JobProfile{PositionName: "x"}, nil)
	if len(repo.created) != 0 {
		t.Error("empty suggestion set must not be cached")
	}

	// Insert failure must not panic or propagate.
	c.Save(context.Background(), uow, uuid.New(), JobProfile{PositionName: "x"}, []entity.HazardSuggestion{{Code: "01", Confidence: 1}})
}
