package domain

import "github.com/it-is-Aman/ram-enterprise/pkg/utils"

// Pagination is the metadata attached to every list response.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := utils.TotalPages(total, limit)

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       limit,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// Page is a slice of results plus its pagination metadata.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// PageQuery carries the page and limit every list operation accepts.
type PageQuery struct {
	Page  int
	Limit int
}

func (q PageQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return utils.Offset(q.Page, q.Limit)
}
