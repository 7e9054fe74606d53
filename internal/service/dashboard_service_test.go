package service

import (
	"testing"
	"time"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosterFixture() []model.Candidate {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []model.Candidate{
		{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com", Score: 70, CreatedAt: base},
		{ID: uuid.New(), Name: "Bob Smith", Email: "bob@example.com", Score: 90, CreatedAt: base.Add(time.Hour)},
		{ID: uuid.New(), Name: "Ahmad Janitra", Email: "ahmad@example.com", Score: 40, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func names(candidates []model.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Name
	}
	return out
}

func TestFilterAndSortSearchMatchesNameOrEmail(t *testing.T) {
	roster := rosterFixture()

	got := FilterAndSort(roster, CandidateQuery{Search: "jan", SortBy: SortByName, Ascending: true})
	assert.Equal(t, []string{"Ahmad Janitra", "Jane Doe"}, names(got))

	got = FilterAndSort(roster, CandidateQuery{Search: "BOB@", SortBy: SortByName, Ascending: true})
	assert.Equal(t, []string{"Bob Smith"}, names(got))

	got = FilterAndSort(roster, CandidateQuery{Search: "nobody"})
	assert.Empty(t, got)
}

func TestFilterAndSortScoreDescendingDefault(t *testing.T) {
	got := FilterAndSort(rosterFixture(), CandidateQuery{SortBy: SortByScore})

	scores := make([]int, len(got))
	for i, c := range got {
		scores[i] = c.Score
	}
	assert.Equal(t, []int{90, 70, 40}, scores)
}

func TestFilterAndSortByCreatedAt(t *testing.T) {
	got := FilterAndSort(rosterFixture(), CandidateQuery{SortBy: SortByCreatedAt, Ascending: true})
	assert.Equal(t, []string{"Jane Doe", "Bob Smith", "Ahmad Janitra"}, names(got))

	got = FilterAndSort(rosterFixture(), CandidateQuery{SortBy: SortByCreatedAt})
	assert.Equal(t, []string{"Ahmad Janitra", "Bob Smith", "Jane Doe"}, names(got))
}

func TestFilterAndSortStableOnTies(t *testing.T) {
	base := time.Now()
	roster := []model.Candidate{
		{Name: "First", Score: 50, CreatedAt: base},
		{Name: "Second", Score: 50, CreatedAt: base},
		{Name: "Third", Score: 50, CreatedAt: base},
	}

	got := FilterAndSort(roster, CandidateQuery{SortBy: SortByScore, Ascending: true})
	assert.Equal(t, []string{"First", "Second", "Third"}, names(got))

	got = FilterAndSort(roster, CandidateQuery{SortBy: SortByScore})
	assert.Equal(t, []string{"First", "Second", "Third"}, names(got))
}

func TestFilterAndSortDoesNotMutateInput(t *testing.T) {
	roster := rosterFixture()
	original := names(roster)

	_ = FilterAndSort(roster, CandidateQuery{SortBy: SortByName, Ascending: true})
	require.Equal(t, original, names(roster))
}
