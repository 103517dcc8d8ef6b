package unitofwork

import (
	"context"
	"errors"

	"bzr-portal-be/internal/repository/contract"
	"bzr-portal-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	ErrTxAlreadyOpen = errors.New("transaction already started")
	ErrNoTx          = errors.New("no active transaction")
)

// gormUnitOfWork scopes every repository it hands out to one
// transaction. Outside Begin/Commit the repositories run on the plain
// connection, which the read paths rely on.
type gormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *gormUnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxAlreadyOpen
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *gormUnitOfWork) Commit() error {
	if u.tx == nil {
		return ErrNoTx
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback is safe to defer after a Commit; the cleared tx makes it a
// no-op error the callers ignore.
func (u *gormUnitOfWork) Rollback() error {
	if u.tx == nil {
		return ErrNoTx
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *gormUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return implementation.NewConversationRepository(u.conn())
}

func (u *gormUnitOfWork) ConversationMessageRepository() contract.ConversationMessageRepository {
	return implementation.NewConversationMessageRepository(u.conn())
}

func (u *gormUnitOfWork) SuggestionCacheRepository() contract.SuggestionCacheRepository {
	return implementation.NewSuggestionCacheRepository(u.conn())
}
