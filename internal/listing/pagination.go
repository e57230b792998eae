package listing

import "github.com/david/opportunity-finder/internal/models"

// MaxVisiblePages is the number of page buttons shown around the current page.
const MaxVisiblePages = 5

// PageWindow is the set of page buttons to render.
type PageWindow struct {
	Pages        []int `json:"pages"`
	PrevDisabled bool  `json:"prevDisabled"`
	NextDisabled bool  `json:"nextDisabled"`
}

// Window centers up to maxVisible page numbers on current, shifting left at the
// right edge.
func Window(current, totalPages, maxVisible int, loading bool) PageWindow {
	if maxVisible < 1 {
		maxVisible = MaxVisiblePages
	}
	start := max(1, current-maxVisible/2)
	end := min(totalPages, start+maxVisible-1)
	if end-start+1 < maxVisible {
		start = max(1, end-maxVisible+1)
	}

	pages := make([]int, 0, maxVisible)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	return PageWindow{
		Pages:        pages,
		PrevDisabled: current == 1 || loading,
		NextDisabled: current == totalPages || loading,
	}
}

// ChangePage validates a page request. Requests outside [1, totalPages] are rejected
// and the current page is returned unchanged.
func ChangePage(current, requested, totalPages int) (int, bool) {
	if requested < 1 || requested > totalPages {
		return current, false
	}
	return requested, true
}

// DisplayRange returns the 1-based "showing start-end of total" bounds.
func DisplayRange(meta models.PageMeta) (start, end int) {
	start = (meta.CurrentPage-1)*meta.PerPage + 1
	end = min(meta.CurrentPage*meta.PerPage, meta.Total)
	return start, end
}
