package response

import (
	"net/url"
	"strconv"

	"backoffice/pkg/utils"
)

type PaginatedResponse[T any] struct {
	Data    []T               `json:"data"`
	Meta    PaginationMeta    `json:"meta"`
	Links   PaginationLinks   `json:"links"`
	Filters map[string]string `json:"filters"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

type PaginationLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// NewPaginatedResponse builds the page envelope. A nil data slice is
// replaced by an empty one so out-of-range pages still encode as [].
func NewPaginatedResponse[T any](data []T, page, perPage int, total int64) *PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}

	meta := PaginationMeta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    utils.CalculateLastPage(total, perPage),
	}
	if len(data) > 0 && page <= meta.LastPage {
		from := utils.CalculateOffset(page, perPage) + 1
		to := from + len(data) - 1
		meta.From, meta.To = &from, &to
	}

	return &PaginatedResponse[T]{
		Data:    data,
		Meta:    meta,
		Filters: map[string]string{},
	}
}

// WithLinks fills page links for path, carrying every other query
// parameter (search and filters) into each link.
func (p *PaginatedResponse[T]) WithLinks(path string, query url.Values) *PaginatedResponse[T] {
	link := func(page int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = append([]string(nil), v...)
		}
		q.Set("page", strconv.Itoa(page))
		return path + "?" + q.Encode()
	}

	p.Links.First = link(1)
	p.Links.Last = link(p.Meta.LastPage)
	if p.Meta.CurrentPage > 1 {
		prev := link(min(p.Meta.CurrentPage-1, p.Meta.LastPage))
		p.Links.Prev = &prev
	}
	if p.Meta.CurrentPage < p.Meta.LastPage {
		next := link(p.Meta.CurrentPage + 1)
		p.Links.Next = &next
	}
	return p
}

// WithFilter echoes an applied filter back to the caller.
func (p *PaginatedResponse[T]) WithFilter(name, value string) *PaginatedResponse[T] {
	p.Filters[name] = value
	return p
}
