package service

import "github.com/noah-isme/classwork-api/internal/models"

// Paginator bounds page requests from list endpoints.
type Paginator struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Normalize clamps page into [1, models.MaxPage] and size into (0, MaxPageSize].
func (p Paginator) Normalize(page, size int) models.PageRequest {
	def := p.DefaultPageSize
	if def <= 0 {
		def = 10
	}
	max := p.MaxPageSize
	if max < def {
		max = 100
		if def > max {
			max = def
		}
	}
	if page < 1 {
		page = 1
	}
	if page > models.MaxPage {
		page = models.MaxPage
	}
	if size <= 0 {
		size = def
	}
	if size > max {
		size = max
	}
	return models.PageRequest{Page: page, PageSize: size}
}
