package request

import "strings"

type TagRequest struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Color *string `json:"color" validate:"omitempty,max=20"`
}

func (r *TagRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Color = trimOptional(r.Color)
}

// BulkDeleteRequest lists the ids to remove in one call.
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}
