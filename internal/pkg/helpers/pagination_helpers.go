package helpers

import (
	"github.com/cloudevolvers/catalog/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

func normalize(page, size int) (int, int) {
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	return page, size
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page is 1-based; an empty list still reports one page.
func NewPaginationInfo(totalItems, page, size int) dto.PaginationInfo {
	page, size = normalize(page, size)

	totalPages := (totalItems + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// CalculateSliceIndices returns the [start, end) window of page within a
// list of totalItems. Pages past the end yield an empty window.
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	page, size = normalize(page, size)

	start = (page - 1) * size
	if start >= totalItems {
		return totalItems, totalItems
	}
	end = start + size
	if end > totalItems {
		end = totalItems
	}
	return start, end
}

// Paginate returns the requested page of items with its pagination info
func Paginate[T any](items []T, page, size int) ([]T, dto.PaginationInfo) {
	start, end := CalculateSliceIndices(page, size, len(items))
	return items[start:end], NewPaginationInfo(len(items), page, size)
}
