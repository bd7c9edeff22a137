package directory

import (
	"testing"

	"github.com/BradenHooton/userdir/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSort_AgeAscendingIsStable(t *testing.T) {
	rows := []models.UserRecord{
		newTestUser(1, "A", "A", "CA", 40),
		newTestUser(2, "B", "B", "CA", 30),
		newTestUser(3, "C", "C", "CA", 30),
		newTestUser(4, "D", "D", "CA", 20),
	}

	sorted := Sort(rows, SortAge, Ascending)

	assert.Equal(t, []int{4, 2, 3, 1}, ids(sorted))
}

func TestSort_DescendingIsStable(t *testing.T) {
	rows := []models.UserRecord{
		newTestUser(1, "A", "A", "CA", 30),
		newTestUser(2, "B", "B", "CA", 40),
		newTestUser(3, "C", "C", "CA", 30),
	}

	sorted := Sort(rows, SortAge, Descending)

	assert.Equal(t, []int{2, 1, 3}, ids(sorted))
}

func TestSort_NumericNotLexicographic(t *testing.T) {
	rows := []models.UserRecord{
		newTestUser(10, "A", "A", "CA", 9),
		newTestUser(2, "B", "B", "CA", 100),
		newTestUser(1, "C", "C", "CA", 10),
	}

	assert.Equal(t, []int{1, 2, 10}, ids(Sort(rows, SortID, Ascending)))
	assert.Equal(t, []int{10, 1, 2}, ids(Sort(rows, SortAge, Ascending)))
}

func TestSort_StringsAreCaseSensitive(t *testing.T) {
	rows := []models.UserRecord{
		newTestUser(1, "alice", "Zed", "CA", 1),
		newTestUser(2, "Bob", "Young", "CA", 1),
		newTestUser(3, "Alice", "Xu", "CA", 1),
	}

	// Uppercase letters order before lowercase ones
	assert.Equal(t, []int{3, 2, 1}, ids(Sort(rows, SortName, Ascending)))
}

func TestSort_NameUsesDerivedFullName(t *testing.T) {
	a := newTestUser(1, "Anna", "Zimmer", "CA", 1)
	b := newTestUser(2, "Anna", "Adams", "CA", 1)
	b.MaidenName = "Moss"
	c := newTestUser(3, "Anna", "Baker", "CA", 1)

	// "Anna Baker" < "Anna Moss Adams" < "Anna Zimmer"
	assert.Equal(t, []int{3, 2, 1}, ids(Sort([]models.UserRecord{a, b, c}, SortName, Ascending)))
}

func TestSort_UnorderedKeepsInputOrder(t *testing.T) {
	rows := newTestUsers(5)
	rows[0].Age, rows[4].Age = 99, 1

	assert.Equal(t, ids(rows), ids(Sort(rows, SortAge, Unordered)))
	assert.Equal(t, ids(rows), ids(Sort(rows, SortNone, Ascending)))
}

func TestSort_DoesNotModifyInput(t *testing.T) {
	rows := []models.UserRecord{
		newTestUser(1, "A", "A", "CA", 40),
		newTestUser(2, "B", "B", "CA", 20),
	}

	Sort(rows, SortAge, Ascending)

	assert.Equal(t, []int{1, 2}, ids(rows))
}

func TestSort_State(t *testing.T) {
	rows := []models.UserRecord{
		newTestUser(1, "A", "A", "TX", 1),
		newTestUser(2, "B", "B", "CA", 1),
		newTestUser(3, "C", "C", "NY", 1),
	}

	assert.Equal(t, []int{2, 3, 1}, ids(Sort(rows, SortState, Ascending)))
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		input   string
		want    SortKey
		wantErr bool
	}{
		{"age", SortAge, false},
		{" Name ", SortName, false},
		{"EMAIL", SortEmail, false},
		{"state", SortState, false},
		{"salary", SortNone, true},
		{"", SortNone, true},
	}

	for _, tt := range tests {
		got, err := ParseSortKey(tt.input)
		if tt.wantErr {
			require.Error(t, err, tt.input)
			assert.ErrorIs(t, err, models.ErrBadRequest)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseSortDirection(t *testing.T) {
	d, err := ParseSortDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Descending, d)

	d, err = ParseSortDirection("")
	require.NoError(t, err)
	assert.Equal(t, Unordered, d)

	_, err = ParseSortDirection("sideways")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}
