package suggest

import (
	"context"
	"testing"

	"bzr-portal-be/internal/repository/unitofwork"
	"bzr-portal-be/pkg/llm"

	"github.com/google/uuid"
)

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func TestAdapterPropagatesUsage(t *testing.T) {
	provider := &fakeProvider{
		completion: &llm.Completion{
			Text:         `[{"code": "03", "confidence": 0.9}]`,
			Provider:     "gemini",
			Model:        "gemini-1.5-flash",
			InputTokens:  200,
			OutputTokens: 25,
		},
	}
	svc, uow := newService(t, provider, &fakeCacheRepo{})
	adapter := NewEngineAdapter(svc, &fakeFactory{uow: uow})

	suggestions, usage, ok := adapter.SuggestHazards(context.Background(), uuid.New(), "magacioner", "rad sa viljuškarom")
	if !ok || len(suggestions) != 1 {
		t.Fatalf("ok=%v suggestions=%d, want one suggestion", ok, len(suggestions))
	}
	if usage.InputTokens != 200 || usage.OutputTokens != 25 {
		t.Errorf("token usage lost through the adapter: %+v", usage)
	}
	if usage.Provider != "gemini" || usage.CostUSD <= 0 {
		t.Errorf("cost provenance lost through the adapter: %+v", usage)
	}
}

func TestAdapterKeepsUsageOnFallback(t *testing.T) {
	provider := &fakeProvider{
		completion: &llm.Completion{
			Text:         "Ne mogu da pomognem.",
			Provider:     "gemini",
			Model:        "gemini-1.5-flash",
			InputTokens:  180,
			OutputTokens: 8,
		},
	}
	svc, uow := newService(t, provider, &fakeCacheRepo{})
	adapter := NewEngineAdapter(svc, &fakeFactory{uow: uow})

	suggestions, usage, ok := adapter.SuggestHazards(context.Background(), uuid.New(), "vozač", "prevoz robe")
	if ok || suggestions != nil {
		t.Fatalf("unparsable output must fall back, got ok=%v", ok)
	}
	if usage.InputTokens != 180 || usage.CostUSD <= 0 {
		t.Errorf("failed paid call must still report usage: %+v", usage)
	}
}
