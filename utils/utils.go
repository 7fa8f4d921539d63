package utils

import "math"

// Pagination represents the pagination details of a sliced listing.
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

// CreatePagination creates a Pagination object.
func CreatePagination(totalItems, page, pageSize int) *Pagination {
	if pageSize <= 0 {
		pageSize = 10 // Default page size
	}
	if page <= 0 {
		page = 1 // Default page
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))

	return &Pagination{
		TotalItems:  totalItems,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
	}
}

// GrowLimit is the incremental page-size growth used by the history view:
// the whole collection is fetched once and the visible slice grows by step
// each time more is requested.
func GrowLimit(limit, step, total int) int {
	if step <= 0 {
		step = 10
	}
	if limit <= 0 {
		limit = step
	}
	if limit > total {
		limit = total
	}
	return limit
}
