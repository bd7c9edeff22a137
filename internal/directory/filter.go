// Package directory holds the user directory view: the search/filter engine, the sort
// engine, the paginator and the immutable view state threaded through them.
//
// Everything in this package is pure. Fetching, storage and timing live in the callers.
package directory

import (
	"strings"

	"github.com/BradenHooton/userdir/internal/models"
)

// Filter returns the records of users that pass both the name query and the state filter.
//
// A blank (empty or whitespace-only) query disables name matching. Otherwise the query is
// matched case-insensitively as a substring of the derived full name. A non-empty state
// must equal Address.State exactly. Survivors keep their relative order.
func Filter(users []models.UserRecord, query, state string) []models.UserRecord {
	needle := ""
	if strings.TrimSpace(query) != "" {
		needle = strings.ToLower(query)
	}

	out := make([]models.UserRecord, 0, len(users))
	for _, u := range users {
		if needle != "" && !strings.Contains(strings.ToLower(u.FullName()), needle) {
			continue
		}
		if state != "" && u.Address.State != state {
			continue
		}
		out = append(out, u)
	}
	return out
}

// DistinctStates returns the distinct non-empty address states of users in first-seen order.
func DistinctStates(users []models.UserRecord) []string {
	seen := make(map[string]struct{}, len(users))
	states := make([]string, 0)
	for _, u := range users {
		s := u.Address.State
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		states = append(states, s)
	}
	return states
}
