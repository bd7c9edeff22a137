package directory

import (
	"fmt"

	"github.com/BradenHooton/userdir/internal/models"
)

// newTestUser creates a directory user for testing
func newTestUser(id int, first, last, state string, age int) models.UserRecord {
	return models.UserRecord{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("user%d@example.com", id),
		Age:       age,
		Gender:    "female",
		Address:   models.Address{State: state},
	}
}

// newTestUsers creates n users alternating between the given states
func newTestUsers(n int, states ...string) []models.UserRecord {
	users := make([]models.UserRecord, n)
	for i := range users {
		state := ""
		if len(states) > 0 {
			state = states[i%len(states)]
		}
		users[i] = newTestUser(i+1, fmt.Sprintf("First%d", i+1), fmt.Sprintf("Last%d", i+1), state, 20+i)
	}
	return users
}

func ids(users []models.UserRecord) []int {
	out := make([]int, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}
