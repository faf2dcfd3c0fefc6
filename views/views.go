// Package views derives display-ready projections from store
// snapshots. Everything here is pure: no store is touched, and the
// same inputs always yield the same, order-stable output.
package views

import (
	"strings"

	"github.com/bobinette/bugtrack"
	"github.com/bobinette/bugtrack/bug"
	"github.com/bobinette/bugtrack/project"
)

// EmptyState tells the presentation layer which empty message to
// show: none, "nothing here yet" or "no matches found".
type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyNoEntries
	EmptyNoMatches
)

// Emptiness distinguishes an empty collection from an empty filter
// result.
func Emptiness(total, filtered int) EmptyState {
	if total == 0 {
		return EmptyNoEntries
	}
	if filtered == 0 {
		return EmptyNoMatches
	}
	return EmptyNone
}

// Projects filters on name, case-insensitively, then sorts.
func Projects(projects []bugtrack.Project, textFilter string, sortBy project.SortCriterion) []bugtrack.Project {
	q := strings.ToLower(textFilter)
	filtered := make([]bugtrack.Project, 0, len(projects))
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), q) {
			filtered = append(filtered, p)
		}
	}

	return project.Sort(filtered, sortBy)
}

// Bugs combines the title text filter and the criteria predicate with
// a logical AND, then sorts.
func Bugs(bugs []bugtrack.Bug, textFilter string, criteria bug.Criteria, sortBy bug.SortCriterion) []bugtrack.Bug {
	q := strings.ToLower(textFilter)
	filtered := make([]bugtrack.Bug, 0, len(bugs))
	for _, b := range bugs {
		if strings.Contains(strings.ToLower(b.Title), q) && bug.Matches(criteria, b) {
			filtered = append(filtered, b)
		}
	}

	return bug.Sort(filtered, sortBy)
}

// Notes sorts a bug's notes for display.
func Notes(notes []bugtrack.Note, sortBy bug.NoteSortCriterion) []bugtrack.Note {
	return bug.SortNotes(notes, sortBy)
}
