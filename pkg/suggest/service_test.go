package suggest

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"bzr-portal-be/internal/entity"
	"bzr-portal-be/internal/repository/contract"
	"bzr-portal-be/internal/repository/unitofwork"
	"bzr-portal-be/pkg/embedding"
	"bzr-portal-be/pkg/llm"
	"bzr-portal-be/pkg/semcache"

	"github.com/google/uuid"
)

type fakeProvider struct {
	completion *llm.Completion
	err        error
	prompts    []string
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return f.completion, nil
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	return f.completion, f.err
}

type fakeEmbedder struct{}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

type fakeCacheRepo struct {
	contract.SuggestionCacheRepository

	searchResult []*contract.ScoredSuggestionCache
	created      []*entity.SuggestionCache
}

func (f *fakeCacheRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, companyId uuid.UUID, threshold float64) ([]*contract.ScoredSuggestionCache, error) {
	return f.searchResult, nil
}

func (f *fakeCacheRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeCacheRepo) Create(ctx context.Context, entry *entity.SuggestionCache) error {
	f.created = append(f.created, entry)
	return nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	cacheRepo *fakeCacheRepo
}

func (f *fakeUow) SuggestionCacheRepository() contract.SuggestionCacheRepository {
	return f.cacheRepo
}

func newService(t *testing.T, provider llm.Provider, repo *fakeCacheRepo) (*Service, *fakeUow) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	cache := semcache.NewCache(&fakeEmbedder{}, semcache.DefaultThreshold, logger)
	return NewService(provider, cache, 5, logger), &fakeUow{cacheRepo: repo}
}

func TestSuggestCacheHitSkipsLLM(t *testing.T) {
	provider := &fakeProvider{err: errors.New("must not be called")}
	repo := &fakeCacheRepo{
		searchResult: []*contract.ScoredSuggestionCache{
			{
				Entry: &entity.SuggestionCache{
					Id:          uuid.New(),
					Suggestions: []entity.HazardSuggestion{{Code: "03", Name: "Pad predmeta sa visine"}},
				},
				Similarity: 0.92,
			},
		},
	}
	svc, uow := newService(t, provider, repo)

	res := svc.Suggest(context.Background(), uow, uuid.New(), "magacioner", "rad sa viljuškarom")
	if res.Source != SourceCache {
		t.Fatalf("source = %s, want CACHE", res.Source)
	}
	if len(res.Suggestions) != 1 || res.Suggestions[0].Code != "03" {
		t.Errorf("unexpected suggestions: %+v", res.Suggestions)
	}
	if len(provider.prompts) != 0 {
		t.Error("LLM must not be called on a cache hit")
	}
}

func TestSuggestAISuccessWritesThrough(t *testing.T) {
	provider := &fakeProvider{
		completion: &llm.Completion{
			Text:         "```json\n[{\"code\": \"03\", \"confidence\": 0.9}, {\"code\": \"10\", \"confidence\": 0.7}]\n```",
			Provider:     "gemini",
			Model:        "gemini-1.5-flash",
			InputTokens:  120,
			OutputTokens: 30,
		},
	}
	repo := &fakeCacheRepo{}
	svc, uow := newService(t, provider, repo)

	res := svc.Suggest(context.Background(), uow, uuid.New(), "električar", "rad na niskonaponskim instalacijama")
	if res.Source != SourceAI {
		t.Fatalf("source = %s, want AI (reason %q)", res.Source, res.Reason)
	}
	if len(res.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(res.Suggestions))
	}
	if res.Suggestions[0].Name == "" || res.Suggestions[0].Category == "" {
		t.Error("suggestions must be hydrated from the catalog")
	}
	if res.InputTokens != 120 || res.OutputTokens != 30 {
		t.Errorf("token usage lost: in=%d out=%d", res.InputTokens, res.OutputTokens)
	}
	if res.Provider != "gemini" || res.Model != "gemini-1.5-flash" {
		t.Errorf("provenance lost: provider=%q model=%q", res.Provider, res.Model)
	}
	if res.CostUSD <= 0 {
		t.Errorf("metered call must carry a cost, got %v", res.CostUSD)
	}
	if len(repo.created) != 1 {
		t.Errorf("write-through created %d entries, want 1", len(repo.created))
	}
}

func TestSuggestDropsInventedCodes(t *testing.T) {
	provider := &fakeProvider{
		completion: &llm.Completion{Text: `[{"code": "99", "confidence": 0.9}, {"code": "05", "confidence": 0.8}]`},
	}
	repo := &fakeCacheRepo{}
	svc, uow := newService(t, provider, repo)

	res := svc.Suggest(context.Background(), uow, uuid.New(), "kuvar", "priprema hrane")
	if res.Source != SourceAI {
		t.Fatalf("source = %s, want AI", res.Source)
	}
	if len(res.Suggestions) != 1 || res.Suggestions[0].Code != "05" {
		t.Errorf("invented code survived: %+v", res.Suggestions)
	}
}

func TestSuggestAllInventedCodesIsFallback(t *testing.T) {
	provider := &fakeProvider{
		completion: &llm.Completion{Text: `[{"code": "99"}, {"code": "xx"}]`},
	}
	svc, uow := newService(t, provider, &fakeCacheRepo{})

	res := svc.Suggest(context.Background(), uow, uuid.New(), "kuvar", "priprema hrane")
	if res.Source != SourceFallback || res.Reason != ReasonAINoValidCodes {
		t.Fatalf("got source=%s reason=%s, want FALLBACK/%s", res.Source, res.Reason, ReasonAINoValidCodes)
	}
}

func TestSuggestUnparsableIsFallback(t *testing.T) {
	provider := &fakeProvider{
		completion: &llm.Completion{Text: "Nažalost, ne mogu da pomognem sa tim.", InputTokens: 40, OutputTokens: 12},
	}
	svc, uow := newService(t, provider, &fakeCacheRepo{})

	res := svc.Suggest(context.Background(), uow, uuid.New(), "vozač", "prevoz robe")
	if res.Source != SourceFallback || res.Reason != ReasonAIUnparsable {
		t.Fatalf("got source=%s reason=%s, want FALLBACK/%s", res.Source, res.Reason, ReasonAIUnparsable)
	}
	if res.InputTokens != 40 {
		t.Error("token usage should be kept even on unparsable output")
	}
}

func TestSuggestLLMErrorIsFallback(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	svc, uow := newService(t, provider, &fakeCacheRepo{})

	res := svc.Suggest(context.Background(), uow, uuid.New(), "vozač", "prevoz robe")
	if res.Source != SourceFallback || res.Reason != ReasonAIError {
		t.Fatalf("got source=%s reason=%s, want FALLBACK/%s", res.Source, res.Reason, ReasonAIError)
	}
}

func TestParseSuggestionsWithSurroundingProse(t *testing.T) {
	out, err := parseSuggestions("Evo predloga:\n[{\"code\": \"01\", \"confidence\": 0.5}]\nNadam se da pomaže.")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(out) != 1 || out[0].Code != "01" {
		t.Errorf("unexpected parse result: %+v", out)
	}
}

func TestPromptContainsCatalogAndPosition(t *testing.T) {
	provider := &fakeProvider{completion: &llm.Completion{Text: `[]`}}
	svc, uow := newService(t, provider, &fakeCacheRepo{})

	svc.Suggest(context.Background(), uow, uuid.New(), "zavarivač", "elektrolučno zavarivanje")
	if len(provider.prompts) != 1 {
		t.Fatal("expected one LLM call")
	}
	prompt := provider.prompts[0]
	for _, want := range []string{"zavarivač", "elektrolučno zavarivanje", "01 |", "45 |"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
