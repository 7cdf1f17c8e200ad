package view

// Ellipsis marks a gap in a page window.
const Ellipsis = 0

// maxPageButtons is the number of page numbers shown around the current one.
const maxPageButtons = 5

// PageWindow returns the page numbers to display for current/total: always
// the first and last page, a window around current, and Ellipsis where pages
// are skipped. It returns nil when there is at most one page.
func PageWindow(current, total int) []int {
	if total <= 1 {
		return nil
	}
	pages := []int{1}

	start := max(2, current-maxPageButtons/2)
	end := min(total-1, start+maxPageButtons-3)
	if end == total-1 {
		start = max(2, end-(maxPageButtons-3))
	}

	if start > 2 {
		pages = append(pages, Ellipsis)
	}
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	if end < total-1 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, total)
}
