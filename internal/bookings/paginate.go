package bookings

import (
	"ms-ticketing-gateway/internal/models"
)

// DefaultPageSize matches the admin booking table.
const DefaultPageSize = 10

// Ellipsis marks a compressed gap in a PageNumbers sequence.
const Ellipsis = -1

// Page is one slice of a filtered booking list. StartIndex/EndIndex are the
// zero-based half-open bounds of Items within the full list.
type Page struct {
	Items      []models.BookingWithType `json:"items"`
	TotalItems int                      `json:"total_items"`
	TotalPages int                      `json:"total_pages"`
	StartIndex int                      `json:"start_index"`
	EndIndex   int                      `json:"end_index"`
}

// Paginate slices the list for a 1-based page number. The window is clamped
// to the list bounds so no page value can panic; rejecting out-of-range page
// requests is still the caller's job via ValidPage, not the slicer's.
func Paginate(list []models.BookingWithType, page, pageSize int) Page {
	total := len(list)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      list[start:end],
		TotalItems: total,
		TotalPages: totalPages,
		StartIndex: start,
		EndIndex:   end,
	}
}

// ValidPage reports whether a page change request lands inside [1, totalPages].
// Out-of-range requests are no-ops for the caller's current page.
func ValidPage(page, totalPages int) bool {
	return page >= 1 && page <= totalPages
}

// PageNumbers builds the page-button sequence: every page when there are five
// or fewer, otherwise first/last plus a window around the current page with
// Ellipsis markers in the gaps.
func PageNumbers(current, total int) []int {
	if total <= 5 {
		pages := make([]int, 0, total)
		for p := 1; p <= total; p++ {
			pages = append(pages, p)
		}
		return pages
	}

	pages := []int{1}
	if current > 3 {
		pages = append(pages, Ellipsis)
	}
	for p := current - 1; p <= current+1; p++ {
		if p > 1 && p < total {
			pages = append(pages, p)
		}
	}
	if current < total-2 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, total)
}
