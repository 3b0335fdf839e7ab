package response

import (
	"time"

	"backoffice/internal/data/entity"
)

type TagResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func TagToResponse(tag *entity.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		Color:     tag.Color,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}

type CountryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
	ISO3 string `json:"iso3"`
}

func CountryToResponse(country *entity.Country) CountryResponse {
	return CountryResponse{
		ID:   country.ID,
		Name: country.Name,
		ISO2: country.ISO2,
		ISO3: country.ISO3,
	}
}

// BulkDeleteResponse reports how many of the requested rows were removed.
type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}
