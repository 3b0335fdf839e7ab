package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/data/entity"
	"backoffice/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CountryRepository interface {
	FindAll(ctx context.Context) ([]*entity.Country, error)
	FindByID(ctx context.Context, id int64) (*entity.Country, error)
	UpsertByISO2(ctx context.Context, country *entity.Country) error
}

type countryRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCountryRepository(db database.Querier, log *zap.Logger) CountryRepository {
	return &countryRepository{
		db:  db,
		log: log.With(zap.String("repository", "country")),
	}
}

// FindAll returns the full reference list ordered by name.
func (cr *countryRepository) FindAll(ctx context.Context) ([]*entity.Country, error) {
	query := `
		SELECT id, name, iso2, iso3, created_at, updated_at
		FROM countries
		ORDER BY name, id
	`

	rows, err := cr.db.Query(ctx, query)
	if err != nil {
		cr.log.Error("Failed to list countries", zap.Error(err))
		return nil, fmt.Errorf("find all countries: %w", err)
	}
	defer rows.Close()

	countries := []*entity.Country{}
	for rows.Next() {
		var c entity.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.ISO2, &c.ISO3, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan country row: %w", err)
		}
		countries = append(countries, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate countries rows: %w", err)
	}

	return countries, nil
}

func (cr *countryRepository) FindByID(ctx context.Context, id int64) (*entity.Country, error) {
	query := `
		SELECT id, name, iso2, iso3, created_at, updated_at
		FROM countries
		WHERE id = $1
	`

	var c entity.Country
	err := cr.db.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.ISO2, &c.ISO3, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		cr.log.Error("Failed to find country", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("find country %d: %w", id, err)
	}

	return &c, nil
}

// UpsertByISO2 inserts the country or refreshes the one sharing its ISO2 code.
func (cr *countryRepository) UpsertByISO2(ctx context.Context, country *entity.Country) error {
	country.ISO2 = strings.ToUpper(strings.TrimSpace(country.ISO2))
	country.ISO3 = strings.ToUpper(strings.TrimSpace(country.ISO3))

	query := `
		INSERT INTO countries (name, iso2, iso3)
		VALUES ($1, $2, $3)
		ON CONFLICT (iso2) DO UPDATE
		SET name = EXCLUDED.name, iso3 = EXCLUDED.iso3, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := cr.db.QueryRow(ctx, query, country.Name, country.ISO2, country.ISO3).
		Scan(&country.ID, &country.CreatedAt, &country.UpdatedAt)
	if err != nil {
		cr.log.Error("Failed to upsert country", zap.Error(err), zap.String("iso2", country.ISO2))
		return fmt.Errorf("upsert country %s: %w", country.ISO2, err)
	}

	return nil
}
