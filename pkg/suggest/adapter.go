package suggest

import (
	"context"

	"bzr-portal-be/internal/repository/unitofwork"
	"bzr-portal-be/pkg/assembly"

	"github.com/google/uuid"
)

// EngineAdapter exposes the suggestion service through the narrow
// interface the conversation engine consumes.
type EngineAdapter struct {
	service *Service
	factory unitofwork.RepositoryFactory
}

func NewEngineAdapter(service *Service, factory unitofwork.RepositoryFactory) *EngineAdapter {
	return &EngineAdapter{
		service: service,
		factory: factory,
	}
}

// SuggestHazards runs outside the caller's transaction on purpose: cache
// reads and writes must survive a turn rollback. Usage is handed back
// even on fallback so a failed paid call still shows up in cost totals.
func (a *EngineAdapter) SuggestHazards(ctx context.Context, scopeId uuid.UUID, positionName, description string) ([]assembly.Suggestion, assembly.SuggestionUsage, bool) {
	uow := a.factory.NewUnitOfWork(ctx)

	res := a.service.Suggest(ctx, uow, scopeId, positionName, description)
	usage := assembly.SuggestionUsage{
		Provider:     res.Provider,
		Model:        res.Model,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
		CostUSD:      res.CostUSD,
	}
	if res.Source == SourceFallback {
		return nil, usage, false
	}

	out := make([]assembly.Suggestion, 0, len(res.Suggestions))
	for _, s := range res.Suggestions {
		out = append(out, assembly.Suggestion{
			Code:     s.Code,
			Name:     s.Name,
			Category: s.Category,
		})
	}
	return out, usage, true
}
