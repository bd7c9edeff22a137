package directory

import "github.com/BradenHooton/userdir/internal/models"

// VisiblePage is everything needed to render one directory page.
type VisiblePage struct {
	Rows          []models.UserRecord
	Status        Status
	LoadError     string
	Mode          Mode
	Query         string
	StateFilter   string
	SortKey       SortKey
	SortDirection SortDirection
	PageIndex     int
	PageSize      int
	TotalPages    int
	TotalMatches  int
	Window        []int
	HasPrev       bool
	HasNext       bool
	FilterCount   int
}

// Empty reports a loaded view with no matching records
func (p VisiblePage) Empty() bool {
	return p.Status == StatusReady && p.TotalMatches == 0
}

// DeriveVisiblePage runs filter, then sort, then paginate over the full collection.
// Sorting precedes pagination so that ordering holds across page boundaries.
func DeriveVisiblePage(s ViewState) VisiblePage {
	filtered := Filter(s.Collection, s.Query, s.StateFilter)
	sorted := Sort(filtered, s.SortKey, s.SortDirection)
	page := Paginate(sorted, s.PageIndex, s.PageSize)

	return VisiblePage{
		Rows:          page.Rows,
		Status:        s.Status,
		LoadError:     s.LoadError,
		Mode:          s.Mode,
		Query:         s.Query,
		StateFilter:   s.StateFilter,
		SortKey:       s.SortKey,
		SortDirection: s.SortDirection,
		PageIndex:     page.PageIndex,
		PageSize:      s.PageSize,
		TotalPages:    page.TotalPages,
		TotalMatches:  len(filtered),
		Window:        PageWindow(page.PageIndex, page.TotalPages),
		HasPrev:       page.PageIndex > 1,
		HasNext:       page.PageIndex < page.TotalPages,
		FilterCount:   s.ActiveFilterCount(),
	}
}
