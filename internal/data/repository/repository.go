package repository

import (
	"context"
	"errors"
	"fmt"

	"backoffice/pkg/database"

	"go.uber.org/zap"
)

// ErrNotFound is wrapped by updates and deletes whose row no longer exists.
var ErrNotFound = errors.New("not found")

type Repository struct {
	db  database.PgxIface
	log *zap.Logger

	User     UserRepository
	Profile  ProfileRepository
	Tag      TagRepository
	Country  CountryRepository
	Activity ActivityRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositorySet(db, log)
	repo.db = db
	return repo
}

func newRepositorySet(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		log:      log,
		User:     NewUserRepository(q, log),
		Profile:  NewProfileRepository(q, log),
		Tag:      NewTagRepository(q, log),
		Country:  NewCountryRepository(q, log),
		Activity: NewActivityRepository(q, log),
	}
}

// WithTx runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fmt.Errorf("begin transaction: repository is already transactional")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback after Commit is a no-op
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newRepositorySet(tx, r.log)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
