package directory

import (
	"testing"

	"github.com/BradenHooton/userdir/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDeriveVisiblePage_StateFilterScenario(t *testing.T) {
	// 12 users over CA and NY, 6 each
	users := newTestUsers(12, "CA", "NY")
	s := NewViewState(5, ModeTable).WithCollection(users).ApplyPage(2)

	s = s.ApplyQuery("").ApplyFilter("NY")
	page := DeriveVisiblePage(s)

	assert.Equal(t, 1, page.PageIndex)
	assert.Equal(t, 6, page.TotalMatches)
	assert.Len(t, page.Rows, 5)
	for _, u := range page.Rows {
		assert.Equal(t, "NY", u.Address.State)
	}
	assert.True(t, page.HasNext, "6 NY users do not fit on one page of 5")
	assert.False(t, page.HasPrev)
	assert.Equal(t, []int{1, 2}, page.Window)
}

func TestDeriveVisiblePage_NextDisabledWhenFilteredSetFits(t *testing.T) {
	users := append(newTestUsers(8, "CA"), newTestUser(100, "Ny", "One", "NY", 20), newTestUser(101, "Ny", "Two", "NY", 21))
	s := NewViewState(5, ModeTable).WithCollection(users).ApplyFilter("NY")

	page := DeriveVisiblePage(s)

	assert.Len(t, page.Rows, 2)
	assert.False(t, page.HasNext)
	assert.Equal(t, 1, page.TotalPages)
}

func TestDeriveVisiblePage_SortsBeforePaginating(t *testing.T) {
	users := newTestUsers(25) // ages 20..44 in id order
	s := NewViewState(10, ModeTable).WithCollection(users).ApplySortDirection(SortAge, Descending)

	first := DeriveVisiblePage(s)
	last := DeriveVisiblePage(s.ApplyPage(3))

	assert.Equal(t, 25, first.Rows[0].ID)
	assert.Equal(t, []int{5, 4, 3, 2, 1}, ids(last.Rows))
}

func TestDeriveVisiblePage_UnorderedRestoresFilteredOrder(t *testing.T) {
	users := newTestUsers(6, "CA", "NY")
	s := NewViewState(10, ModeTable).WithCollection(users).ApplyFilter("CA")

	s = s.ApplySort(SortAge).ApplySort(SortAge).ApplySort(SortAge)

	assert.Equal(t, []int{1, 3, 5}, ids(DeriveVisiblePage(s).Rows))
}

func TestDeriveVisiblePage_NoMatches(t *testing.T) {
	s := NewViewState(10, ModeTable).WithCollection(newTestUsers(5)).ApplyQuery("zzz")

	page := DeriveVisiblePage(s)

	assert.True(t, page.Empty())
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, []int{1}, page.Window)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)
}

func TestDeriveVisiblePage_NameSearchScenario(t *testing.T) {
	users := []models.UserRecord{
		newTestUser(1, "Anna", "Smith", "CA", 30),
		newTestUser(2, "Hannah", "Lee", "NY", 25),
		newTestUser(3, "Bob", "Jones", "NY", 40),
	}
	s := NewViewState(10, ModeGrid).WithCollection(users).ApplyQuery("ann")

	page := DeriveVisiblePage(s)

	assert.Equal(t, []int{1, 2}, ids(page.Rows))
	assert.Equal(t, ModeGrid, page.Mode)
}

func TestDeriveVisiblePage_StaleLargePageIsClamped(t *testing.T) {
	s := NewViewState(10, ModeTable).ApplyPage(1)
	s.PageIndex = 7
	s = s.WithCollection(newTestUsers(25))

	page := DeriveVisiblePage(s)

	assert.Equal(t, 3, page.PageIndex)
	assert.Len(t, page.Rows, 5)
}
