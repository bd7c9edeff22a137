package directory

// MaxVisiblePages is the width of the page-number window
const MaxVisiblePages = 5

// Page is one bounded window of a row set
type Page[T any] struct {
	Rows       []T
	PageIndex  int
	TotalPages int
}

// TotalPages returns ceil(n/pageSize), never less than 1
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage bounds pageIndex to [1, totalPages]
func ClampPage(pageIndex, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if pageIndex < 1 {
		return 1
	}
	if pageIndex > totalPages {
		return totalPages
	}
	return pageIndex
}

// Paginate slices rows into the page at pageIndex. Out-of-range indices are clamped and an
// empty input yields one empty page.
func Paginate[T any](rows []T, pageIndex, pageSize int) Page[T] {
	total := TotalPages(len(rows), pageSize)
	pageIndex = ClampPage(pageIndex, total)

	if pageSize <= 0 {
		return Page[T]{Rows: rows, PageIndex: pageIndex, TotalPages: total}
	}

	start := (pageIndex - 1) * pageSize
	end := start + pageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}

	return Page[T]{
		Rows:       rows[start:end:end],
		PageIndex:  pageIndex,
		TotalPages: total,
	}
}

// PageWindow returns at most MaxVisiblePages consecutive page numbers around current.
// The window starts two pages before current and is shifted back when it would run past
// totalPages.
func PageWindow(current, totalPages int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	current = ClampPage(current, totalPages)

	start := max(1, current-(MaxVisiblePages-1)/2)
	end := min(totalPages, start+MaxVisiblePages-1)
	if end-start < MaxVisiblePages-1 {
		start = max(1, end-MaxVisiblePages+1)
	}

	window := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}
