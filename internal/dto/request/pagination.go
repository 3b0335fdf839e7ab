package request

import (
	"math"
	"strings"
)

const MaxPerPage = 100

// ListRequest carries the listing query shared by every index endpoint.
type ListRequest struct {
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Search  string `json:"search"`
}

// Normalize clamps paging into range, falling back to defaultPerPage.
func (p *ListRequest) Normalize(defaultPerPage int) {
	if defaultPerPage < 1 {
		defaultPerPage = 10
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	p.Search = strings.TrimSpace(p.Search)
}

// Offset saturates at math.MaxInt instead of overflowing on huge pages.
func (p ListRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	limit := p.Limit()
	if p.Page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (p.Page - 1) * limit
}

func (p ListRequest) Limit() int {
	if p.PerPage < 1 {
		return 10
	}
	if p.PerPage > MaxPerPage {
		return MaxPerPage
	}
	return p.PerPage
}
