package unitofwork

import (
	"context"

	"bzr-portal-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationRepository() contract.ConversationRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
	SuggestionCacheRepository() contract.SuggestionCacheRepository
}
