package response

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginatedResponse_Meta(t *testing.T) {
	p := NewPaginatedResponse([]int{1, 2, 3}, 2, 3, 8)

	assert.Equal(t, 3, p.Meta.LastPage)
	require.NotNil(t, p.Meta.From)
	require.NotNil(t, p.Meta.To)
	assert.Equal(t, 4, *p.Meta.From)
	assert.Equal(t, 6, *p.Meta.To)
}

func TestNewPaginatedResponse_OutOfRange(t *testing.T) {
	p := NewPaginatedResponse[int](nil, 9, 10, 25)

	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
	assert.EqualValues(t, 25, p.Meta.Total)
	assert.Equal(t, 3, p.Meta.LastPage)
	assert.Nil(t, p.Meta.From)
	assert.Nil(t, p.Meta.To)
}

func TestPaginatedResponse_WithLinksKeepsFilters(t *testing.T) {
	query := url.Values{"search": {"ana"}, "page": {"2"}}
	p := NewPaginatedResponse([]int{1}, 2, 1, 3).WithLinks("/api/clients", query)

	assert.Equal(t, "/api/clients?page=1&search=ana", p.Links.First)
	assert.Equal(t, "/api/clients?page=3&search=ana", p.Links.Last)
	require.NotNil(t, p.Links.Prev)
	require.NotNil(t, p.Links.Next)
	assert.Equal(t, "/api/clients?page=1&search=ana", *p.Links.Prev)
	assert.Equal(t, "/api/clients?page=3&search=ana", *p.Links.Next)

	// the caller's query is left untouched
	assert.Equal(t, "2", query.Get("page"))
}

func TestPaginatedResponse_WithLinksOnSinglePage(t *testing.T) {
	p := NewPaginatedResponse([]int{}, 1, 10, 0).WithLinks("/api/settings/tags", nil)

	assert.Equal(t, 1, p.Meta.LastPage)
	assert.Nil(t, p.Links.Prev)
	assert.Nil(t, p.Links.Next)
}

func TestNewPaginatedResponse_PageBeyondLastHasNoRange(t *testing.T) {
	p := NewPaginatedResponse([]int{1}, 9, 10, 25)

	assert.Equal(t, 3, p.Meta.LastPage)
	assert.Nil(t, p.Meta.From)
	assert.Nil(t, p.Meta.To)
}
