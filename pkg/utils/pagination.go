package utils

import (
	"strings"

	"github.com/spf13/cast"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParsePage coerces raw page/limit query values, falling back to defaults
// for anything missing, non-numeric or out of range.
func ParsePage(rawPage, rawLimit string) (page, limit int) {
	page = cast.ToInt(strings.TrimSpace(rawPage))
	if page < 1 {
		page = DefaultPage
	}

	limit = cast.ToInt(strings.TrimSpace(rawLimit))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit
}

func Offset(page, limit int) int {
	return (page - 1) * limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
