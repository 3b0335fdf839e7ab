package usecase

import (
	"context"
	"fmt"

	"backoffice/internal/dto/request"
	"backoffice/internal/dto/response"
	"backoffice/pkg/utils"
)

// listPage runs the shared search, paginate and project pipeline. The
// count runs first so an out-of-range page returns empty data without a
// second query, still carrying the real total.
func listPage[E, V any](
	ctx context.Context,
	req request.ListRequest,
	count func(ctx context.Context) (int64, error),
	fetch func(ctx context.Context, limit, offset int) ([]E, error),
	project func(E) V,
) (*response.PaginatedResponse[V], error) {
	total, err := count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	// pages past the last one are answered without touching the store,
	// which also keeps huge page numbers away from the offset arithmetic
	items := make([]V, 0, req.Limit())
	if req.Page <= utils.CalculateTotalPages(total, req.Limit()) {
		rows, err := fetch(ctx, req.Limit(), req.Offset())
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		for _, row := range rows {
			items = append(items, project(row))
		}
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total).
		WithFilter("search", req.Search), nil
}
