package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bobinette/bugtrack"
	"github.com/bobinette/bugtrack/bug"
	"github.com/bobinette/bugtrack/project"
)

func TestEmptiness(t *testing.T) {
	assert.Equal(t, EmptyNoEntries, Emptiness(0, 0))
	assert.Equal(t, EmptyNoMatches, Emptiness(3, 0))
	assert.Equal(t, EmptyNone, Emptiness(3, 1))
	assert.Equal(t, EmptyNone, Emptiness(3, 3))
}

func TestProjects(t *testing.T) {
	base := time.Date(2023, time.March, 1, 10, 0, 0, 0, time.UTC)

	projects := []bugtrack.Project{
		{ID: "p1", Name: "Billing API", CreatedAt: base},
		{ID: "p2", Name: "Mobile app", CreatedAt: base.Add(time.Hour)},
		{ID: "p3", Name: "Public api", CreatedAt: base.Add(2 * time.Hour)},
	}

	// Case-insensitive name filter, then sort.
	listed := Projects(projects, "API", project.SortOldest)
	ids := make([]string, len(listed))
	for i, p := range listed {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"p1", "p3"}, ids)

	// Same inputs, same output.
	assert.Equal(t, listed, Projects(projects, "API", project.SortOldest))

	// No filter keeps everything.
	assert.Len(t, Projects(projects, "", project.SortNewest), 3)

	// The input is never reordered.
	assert.Equal(t, "p1", projects[0].ID)
}

func TestBugs(t *testing.T) {
	base := time.Date(2023, time.March, 1, 10, 0, 0, 0, time.UTC)

	bugs := []bugtrack.Bug{
		{ID: "b1", Title: "Login crash", Priority: bugtrack.PriorityHigh, CreatedAt: base},
		{ID: "b2", Title: "Login typo", Priority: bugtrack.PriorityLow, IsResolved: true, CreatedAt: base.Add(time.Hour)},
		{ID: "b3", Title: "Slow dashboard", Priority: bugtrack.PriorityHigh, CreatedAt: base.Add(2 * time.Hour)},
	}

	// The text filter and the criteria combine with AND: only the open
	// high-priority bug whose title mentions login survives.
	listed := Bugs(bugs, "login", bug.Criteria{Status: bug.StatusOpen, Priority: bug.PriorityHigh}, bug.SortNewest)
	assert.Len(t, listed, 1)
	assert.Equal(t, "b1", listed[0].ID)

	// Text filter alone.
	listed = Bugs(bugs, "LOGIN", bug.Criteria{}, bug.SortOldest)
	assert.Len(t, listed, 2)
	assert.Equal(t, "b1", listed[0].ID)
	assert.Equal(t, "b2", listed[1].ID)

	// Criteria alone.
	listed = Bugs(bugs, "", bug.Criteria{Status: bug.StatusClosed}, bug.SortNewest)
	assert.Len(t, listed, 1)
	assert.Equal(t, "b2", listed[0].ID)
}

func TestNotes(t *testing.T) {
	base := time.Date(2023, time.March, 1, 10, 0, 0, 0, time.UTC)

	notes := []bugtrack.Note{
		{ID: 1, CreatedAt: base, UpdatedAt: base.Add(time.Hour)},
		{ID: 2, CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute)},
	}

	sorted := Notes(notes, bug.NotesUpdated)
	assert.Equal(t, 1, sorted[0].ID)
	assert.Equal(t, 2, sorted[1].ID)

	sorted = Notes(notes, bug.NotesNewest)
	assert.Equal(t, 2, sorted[0].ID)
}
