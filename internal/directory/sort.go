package directory

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/BradenHooton/userdir/internal/models"
)

// SortKey identifies a sortable column
type SortKey string

const (
	SortNone   SortKey = ""
	SortID     SortKey = "id"
	SortName   SortKey = "name"
	SortEmail  SortKey = "email"
	SortAge    SortKey = "age"
	SortGender SortKey = "gender"
	SortPhone  SortKey = "phone"
	SortState  SortKey = "state"
)

// SortDirection is the ordering applied for the active SortKey
type SortDirection string

const (
	Unordered  SortDirection = "none"
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

var sortKeys = []SortKey{SortID, SortName, SortEmail, SortAge, SortGender, SortPhone, SortState}

// ParseSortKey converts a column name to a SortKey
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(sortKeys, k) {
		return k, nil
	}
	return SortNone, fmt.Errorf("unknown sort key %q: %w", s, models.ErrBadRequest)
}

// ParseSortDirection converts "asc", "desc" or "none" to a SortDirection
func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(strings.TrimSpace(s))) {
	case Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	case Unordered, "":
		return Unordered, nil
	}
	return Unordered, fmt.Errorf("unknown sort direction %q: %w", s, models.ErrBadRequest)
}

// next returns the direction after toggling the same column again
func (d SortDirection) next() SortDirection {
	switch d {
	case Ascending:
		return Descending
	case Descending:
		return Unordered
	default:
		return Ascending
	}
}

// Sort returns a copy of rows ordered by key. The sort is stable, so ties and the
// Unordered direction keep the input order. Strings compare byte-wise (case-sensitive),
// id and age compare numerically.
func Sort(rows []models.UserRecord, key SortKey, dir SortDirection) []models.UserRecord {
	out := slices.Clone(rows)
	if key == SortNone || dir == Unordered {
		return out
	}

	compare := comparator(key)
	if compare == nil {
		return out
	}
	if dir == Descending {
		asc := compare
		compare = func(a, b models.UserRecord) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

func comparator(key SortKey) func(a, b models.UserRecord) int {
	switch key {
	case SortID:
		return func(a, b models.UserRecord) int { return cmp.Compare(a.ID, b.ID) }
	case SortAge:
		return func(a, b models.UserRecord) int { return cmp.Compare(a.Age, b.Age) }
	case SortName:
		return func(a, b models.UserRecord) int { return strings.Compare(a.FullName(), b.FullName()) }
	case SortEmail:
		return func(a, b models.UserRecord) int { return strings.Compare(a.Email, b.Email) }
	case SortGender:
		return func(a, b models.UserRecord) int { return strings.Compare(a.Gender, b.Gender) }
	case SortPhone:
		return func(a, b models.UserRecord) int { return strings.Compare(a.Phone, b.Phone) }
	case SortState:
		return func(a, b models.UserRecord) int { return strings.Compare(a.Address.State, b.Address.State) }
	}
	return nil
}
