// Package repository provides data access layer implementations for the application.
package repository

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// PageSize is the number of items on one listing page.
const PageSize = 12

// defaultOrder is newest-first with the id as a tie-breaker.
const defaultOrder = "created_at DESC, id DESC"

// Page is one slice of an ordered listing.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Number      int   `json:"number"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	NumPages    int   `json:"num_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// ParsePage reads a raw ?page= value. Anything that is not a whole number asks for page 1.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return 1
}

// ResolvePage maps a requested page number onto an existing one. Requests below 1 or past
// the end land on the last page; an empty listing still has one (empty) page.
func ResolvePage(requested int, total int64, size int) (number, numPages int) {
	numPages = int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}
	if requested < 1 || requested > numPages {
		return numPages, numPages
	}
	return requested, numPages
}

// paginate counts query, resolves the page and loads its items with the author preloaded.
func paginate[T any](query *gorm.DB, requested int) (*Page[T], error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	number, numPages := ResolvePage(requested, total, PageSize)
	items := make([]T, 0, PageSize)
	err := query.
		Preload("Author").
		Order(defaultOrder).
		Limit(PageSize).
		Offset((number - 1) * PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &Page[T]{
		Items:       items,
		Number:      number,
		PageSize:    PageSize,
		Total:       total,
		NumPages:    numPages,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}, nil
}
