// Package view holds the presentation-side intents of the dashboard: the
// client-side pagination of the fetched listing, column-click sorting,
// favourites, tabs and sparkline geometry. Nothing here talks to the
// store; callers pass intents on.
package view

// Page is one page of a client-side paginated list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	TotalPages int `json:"total_pages"`
	Total      int `json:"total"`
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// TotalPages is ceil(n / rowsPerPage).
func TotalPages(n, rowsPerPage int) int {
	if rowsPerPage <= 0 || n <= 0 {
		return 0
	}
	return (n + rowsPerPage - 1) / rowsPerPage
}

// Clamp keeps page inside [1, totalPages]. An empty list still has page 1.
func Clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns rows (page-1)*rowsPerPage up to page*rowsPerPage of
// list. Out-of-range pages are clamped, so the page returned is always
// reachable by Previous/Next navigation.
func Paginate[T any](list []T, rowsPerPage, page int) Page[T] {
	if rowsPerPage <= 0 {
		rowsPerPage = 10
	}
	total := TotalPages(len(list), rowsPerPage)
	page = Clamp(page, total)

	start := min((page-1)*rowsPerPage, len(list))
	end := min(page*rowsPerPage, len(list))
	return Page[T]{
		Items:      list[start:end],
		Number:     page,
		TotalPages: total,
		Total:      len(list),
	}
}
