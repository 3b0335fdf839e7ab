package utils

import "math"

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// CalculateLastPage is CalculateTotalPages with a floor of 1, so an empty
// listing still reports a single (empty) page.
func CalculateLastPage(total int64, perPage int) int {
	if pages := CalculateTotalPages(total, perPage); pages > 1 {
		return pages
	}
	return 1
}

func CalculateOffset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}
