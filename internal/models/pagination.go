package models

import "math"

// MaxPage bounds requested page numbers so offsets stay representable.
const MaxPage = math.MaxInt32

// Pagination describes one page of an ordered collection. Pages are 1-based.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// PageRequest is a normalised page selection.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows preceding the page.
func (p PageRequest) Offset() int64 {
	return int64(p.Page-1) * int64(p.PageSize)
}

// NewPagination builds the descriptor for a page over total items. An empty collection still
// reports one page, and a page past the end keeps its number with unchanged totals.
func NewPagination(page PageRequest, total int) Pagination {
	totalPages := 1
	if total > 0 && page.PageSize > 0 {
		totalPages = (total + page.PageSize - 1) / page.PageSize
	}
	return Pagination{
		CurrentPage:  page.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: page.PageSize,
	}
}
