// Package paginate slices ordered sequences into fixed-size pages.
package paginate

// DefaultPageSize is the page size used when none is given.
const DefaultPageSize = 9

// Page is one page of a larger ordered sequence.
type Page[T any] struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	Total      int `json:"total"`
	Items      []T `json:"items"`
}

// HasPrev reports whether a page exists before this one.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a page exists after this one.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// Paginate returns the requested 1-based page of items. A size of zero or
// less means DefaultPageSize. Out-of-range pages are clamped to the
// nearest valid page, so the result is never empty unless items is.
// Items shares its backing array with items.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)

	start := (page - 1) * size
	end := min(start+size, total)
	return Page[T]{
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		Items:      items[start:end],
	}
}
