package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"backoffice/internal/data/entity"
	"backoffice/internal/data/repository"
	"backoffice/internal/dto/response"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type CountryService interface {
	List(ctx context.Context) ([]response.CountryResponse, error)
	SeedFromFile(ctx context.Context, path string) (int, error)
}

type countryService struct {
	countryRepo repository.CountryRepository
	fs          afero.Fs
	log         *zap.Logger
}

func NewCountryService(countryRepo repository.CountryRepository, fs afero.Fs, log *zap.Logger) CountryService {
	return &countryService{
		countryRepo: countryRepo,
		fs:          fs,
		log:         log.With(zap.String("service", "country")),
	}
}

func (s *countryService) List(ctx context.Context) ([]response.CountryResponse, error) {
	countries, err := s.countryRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	out := make([]response.CountryResponse, 0, len(countries))
	for _, c := range countries {
		out = append(out, response.CountryToResponse(c))
	}
	return out, nil
}

type countrySeed struct {
	Name *string `json:"name"`
	ISO2 *string `json:"iso2"`
	ISO3 *string `json:"iso3"`
}

// SeedFromFile upserts countries from a JSON array of {name, iso2, iso3}.
// Entries missing a key are skipped. Returns the number upserted.
func (s *countryService) SeedFromFile(ctx context.Context, path string) (int, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return 0, fmt.Errorf("read countries file %s: %w", path, err)
	}

	var items []countrySeed
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("invalid countries file %s: %w", path, err)
	}

	seeded := 0
	for _, item := range items {
		if item.Name == nil || item.ISO2 == nil || item.ISO3 == nil {
			continue
		}
		iso2 := strings.ToUpper(strings.TrimSpace(*item.ISO2))
		if iso2 == "" {
			continue
		}

		country := &entity.Country{
			Name: strings.TrimSpace(*item.Name),
			ISO2: iso2,
			ISO3: strings.ToUpper(strings.TrimSpace(*item.ISO3)),
		}
		if err := s.countryRepo.UpsertByISO2(ctx, country); err != nil {
			return seeded, err
		}
		seeded++
	}

	s.log.Info("Countries seeded", zap.String("path", path), zap.Int("count", seeded))
	return seeded, nil
}
