package directory

import (
	"fmt"
	"strings"

	"github.com/BradenHooton/userdir/internal/models"
)

// Mode is the presentation of a page slice. It never changes which rows are shown.
type Mode string

const (
	ModeTable Mode = "table"
	ModeGrid  Mode = "grid"
)

// ParseMode converts "table" or "grid" to a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeTable:
		return ModeTable, nil
	case ModeGrid:
		return ModeGrid, nil
	}
	return "", fmt.Errorf("unknown presentation mode %q: %w", s, models.ErrBadRequest)
}

// Status tracks the single fetch of a view activation
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// ViewState is the complete state of one directory view activation.
//
// ViewState is a value: every transition returns a new ViewState and leaves the receiver
// untouched. Collection is shared between copies and must never be modified in place.
type ViewState struct {
	Collection    []models.UserRecord
	Status        Status
	LoadError     string
	Query         string
	StateFilter   string
	SortKey       SortKey
	SortDirection SortDirection
	PageIndex     int
	PageSize      int
	Mode          Mode
}

// NewViewState returns the defaults of a fresh activation: loading, no query, no filter,
// no sort, first page.
func NewViewState(pageSize int, mode Mode) ViewState {
	if pageSize < 1 {
		pageSize = 1
	}
	if mode == "" {
		mode = ModeTable
	}
	return ViewState{
		Status:        StatusLoading,
		SortKey:       SortNone,
		SortDirection: Unordered,
		PageIndex:     1,
		PageSize:      pageSize,
		Mode:          mode,
	}
}

// WithCollection completes the fetch. Query, filter, sort and page chosen while loading
// are kept and apply to the new collection.
func (s ViewState) WithCollection(users []models.UserRecord) ViewState {
	if users == nil {
		users = []models.UserRecord{}
	}
	s.Collection = users
	s.Status = StatusReady
	s.LoadError = ""
	s.PageIndex = ClampPage(s.PageIndex, s.totalPages())
	return s
}

// WithLoadFailure completes the fetch with an error. The view shows an empty collection
// rather than stale data.
func (s ViewState) WithLoadFailure(err error) ViewState {
	s.Collection = []models.UserRecord{}
	s.Status = StatusFailed
	s.LoadError = "failed to load users"
	if err != nil {
		s.LoadError = err.Error()
	}
	s.PageIndex = 1
	return s
}

// ApplyQuery sets the name query. A changed query moves back to the first page.
func (s ViewState) ApplyQuery(query string) ViewState {
	if query == s.Query {
		return s
	}
	s.Query = query
	s.PageIndex = 1
	return s
}

// ApplyFilter sets the state filter; "" removes it. A changed filter moves back to the
// first page.
func (s ViewState) ApplyFilter(state string) ViewState {
	if state == s.StateFilter {
		return s
	}
	s.StateFilter = state
	s.PageIndex = 1
	return s
}

// ResetFilters clears both the query and the state filter.
func (s ViewState) ResetFilters() ViewState {
	return s.ApplyQuery("").ApplyFilter("")
}

// ApplySort toggles a column. A different column starts ascending; the same column
// cycles ascending, descending, unordered.
func (s ViewState) ApplySort(key SortKey) ViewState {
	if key == SortNone {
		s.SortKey = SortNone
		s.SortDirection = Unordered
		return s
	}
	if key != s.SortKey {
		s.SortKey = key
		s.SortDirection = Ascending
		return s
	}
	s.SortDirection = s.SortDirection.next()
	return s
}

// ApplySortDirection sets column and direction explicitly
func (s ViewState) ApplySortDirection(key SortKey, dir SortDirection) ViewState {
	if key == SortNone {
		dir = Unordered
	}
	s.SortKey = key
	s.SortDirection = dir
	return s
}

// ApplyPage moves to pageIndex, clamped to the pages of the current filtered set
func (s ViewState) ApplyPage(pageIndex int) ViewState {
	s.PageIndex = ClampPage(pageIndex, s.totalPages())
	return s
}

func (s ViewState) NextPage() ViewState {
	return s.ApplyPage(s.currentPage() + 1)
}

func (s ViewState) PrevPage() ViewState {
	return s.ApplyPage(s.currentPage() - 1)
}

// ApplyMode switches presentation only; rows, filters, sort and page are untouched.
func (s ViewState) ApplyMode(mode Mode) ViewState {
	s.Mode = mode
	return s
}

// ActiveFilterCount is the number of categorical filters in effect
func (s ViewState) ActiveFilterCount() int {
	if s.StateFilter != "" {
		return 1
	}
	return 0
}

// DistinctStates lists the values the state filter may take
func (s ViewState) DistinctStates() []string {
	return DistinctStates(s.Collection)
}

func (s ViewState) totalPages() int {
	return TotalPages(len(Filter(s.Collection, s.Query, s.StateFilter)), s.PageSize)
}

func (s ViewState) currentPage() int {
	return ClampPage(s.PageIndex, s.totalPages())
}
