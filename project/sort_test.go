package project

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bobinette/bugtrack"
)

func TestSort(t *testing.T) {
	base := time.Date(2023, time.March, 1, 10, 0, 0, 0, time.UTC)

	projects := []bugtrack.Project{
		{
			ID: "p1", Name: "Zeppelin", CreatedAt: base,
			Bugs:    make([]bugtrack.BugRef, 3),
			Members: make([]bugtrack.ProjectMember, 1),
		},
		{
			ID: "p2", Name: "api", CreatedAt: base.Add(time.Hour),
			Bugs:    make([]bugtrack.BugRef, 1),
			Members: make([]bugtrack.ProjectMember, 2),
		},
		{
			ID: "p3", Name: "Billing", CreatedAt: base.Add(2 * time.Hour),
			Bugs:    make([]bugtrack.BugRef, 2),
			Members: make([]bugtrack.ProjectMember, 2),
		},
	}

	tts := map[string]struct {
		criterion SortCriterion
		expected  []string
	}{
		"newest":        {SortNewest, []string{"p3", "p2", "p1"}},
		"oldest":        {SortOldest, []string{"p1", "p2", "p3"}},
		"a-z":           {SortNameAZ, []string{"p2", "p3", "p1"}},
		"z-a":           {SortNameZA, []string{"p1", "p3", "p2"}},
		"most-bugs":     {SortMostBugs, []string{"p1", "p3", "p2"}},
		"least-bugs":    {SortLeastBugs, []string{"p2", "p3", "p1"}},
		"most-members":  {SortMostMembers, []string{"p2", "p3", "p1"}},
		"least-members": {SortLeastMembers, []string{"p1", "p2", "p3"}},
	}

	for name, tt := range tts {
		t.Run(name, func(t *testing.T) {
			sorted := Sort(projects, tt.criterion)

			ids := make([]string, len(sorted))
			for i, p := range sorted {
				ids[i] = p.ID
			}
			assert.Equal(t, tt.expected, ids)
		})
	}

	// The input order is never touched.
	assert.Equal(t, "p1", projects[0].ID)
	assert.Equal(t, "p2", projects[1].ID)
	assert.Equal(t, "p3", projects[2].ID)
}

func TestSortStability(t *testing.T) {
	// p2 and p3 share a member count: most-members must keep their
	// relative order.
	projects := []bugtrack.Project{
		{ID: "p1", Members: make([]bugtrack.ProjectMember, 1)},
		{ID: "p2", Members: make([]bugtrack.ProjectMember, 2)},
		{ID: "p3", Members: make([]bugtrack.ProjectMember, 2)},
	}

	sorted := Sort(projects, SortMostMembers)
	assert.Equal(t, "p2", sorted[0].ID)
	assert.Equal(t, "p3", sorted[1].ID)
	assert.Equal(t, "p1", sorted[2].ID)
}

func TestSortCriterionValid(t *testing.T) {
	assert.True(t, SortCriterion("newest").Valid())
	assert.True(t, SortCriterion("least-members").Valid())
	assert.False(t, SortCriterion("by-mood").Valid())
	assert.False(t, SortCriterion("").Valid())
}
