package repository

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/data/entity"
	"backoffice/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *entity.Profile) error
	FindByUserID(ctx context.Context, userID int64) (*entity.Profile, error)
}

type profileRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewProfileRepository(db database.Querier, log *zap.Logger) ProfileRepository {
	return &profileRepository{
		db:  db,
		log: log.With(zap.String("repository", "profile")),
	}
}

// Upsert creates the user's profile or replaces every attribute of the
// existing one. Absent attributes are written as NULL.
func (pr *profileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO user_profiles (user_id, address, country_id, state, city,
		                           post_code, company_name, tax_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET address = EXCLUDED.address,
		    country_id = EXCLUDED.country_id,
		    state = EXCLUDED.state,
		    city = EXCLUDED.city,
		    post_code = EXCLUDED.post_code,
		    company_name = EXCLUDED.company_name,
		    tax_id = EXCLUDED.tax_id,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := pr.db.QueryRow(ctx, query,
		profile.UserID,
		profile.Address,
		profile.CountryID,
		profile.State,
		profile.City,
		profile.PostCode,
		profile.CompanyName,
		profile.TaxID,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		pr.log.Error("Failed to upsert profile",
			zap.Error(err),
			zap.Int64("user_id", profile.UserID),
		)
		return fmt.Errorf("upsert profile for user %d: %w", profile.UserID, err)
	}

	return nil
}

func (pr *profileRepository) FindByUserID(ctx context.Context, userID int64) (*entity.Profile, error) {
	query := `
		SELECT id, user_id, address, country_id, state, city,
		       post_code, company_name, tax_id, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var p entity.Profile
	err := pr.db.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.Address,
		&p.CountryID,
		&p.State,
		&p.City,
		&p.PostCode,
		&p.CompanyName,
		&p.TaxID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		pr.log.Error("Failed to find profile by user ID",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find profile by user %d: %w", userID, err)
	}

	return &p, nil
}
