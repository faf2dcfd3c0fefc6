package bug

import (
	"sort"

	"github.com/bobinette/bugtrack"
)

// SortCriterion orders a bug listing.
type SortCriterion string

const (
	SortNewest          SortCriterion = "newest"
	SortOldest          SortCriterion = "oldest"
	SortPriorityHighLow SortCriterion = "priority-high-low"
	SortPriorityLowHigh SortCriterion = "priority-low-high"
	SortMostNotes       SortCriterion = "most-notes"
	SortLeastNotes      SortCriterion = "least-notes"
)

func (c SortCriterion) Valid() bool {
	switch c {
	case SortNewest, SortOldest, SortPriorityHighLow, SortPriorityLowHigh,
		SortMostNotes, SortLeastNotes:
		return true
	}
	return false
}

// NoteSortCriterion orders the notes of a bug. "updated" ranks the
// most recently edited note first, regardless of creation order.
type NoteSortCriterion string

const (
	NotesNewest  NoteSortCriterion = "newest"
	NotesOldest  NoteSortCriterion = "oldest"
	NotesUpdated NoteSortCriterion = "updated"
)

func (c NoteSortCriterion) Valid() bool {
	return c == NotesNewest || c == NotesOldest || c == NotesUpdated
}

// Sort returns a sorted copy of the bugs. Stable: equal keys keep
// their relative order.
func Sort(bugs []bugtrack.Bug, criterion SortCriterion) []bugtrack.Bug {
	sorted := make([]bugtrack.Bug, len(bugs))
	copy(sorted, bugs)

	var less func(i, j int) bool
	switch criterion {
	case SortNewest:
		less = func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) }
	case SortOldest:
		less = func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) }
	case SortPriorityHighLow:
		less = func(i, j int) bool { return sorted[i].Priority.Rank() < sorted[j].Priority.Rank() }
	case SortPriorityLowHigh:
		less = func(i, j int) bool { return sorted[i].Priority.Rank() > sorted[j].Priority.Rank() }
	case SortMostNotes:
		less = func(i, j int) bool { return len(sorted[i].Notes) > len(sorted[j].Notes) }
	case SortLeastNotes:
		less = func(i, j int) bool { return len(sorted[i].Notes) < len(sorted[j].Notes) }
	default:
		return sorted
	}

	sort.SliceStable(sorted, less)
	return sorted
}

// SortNotes returns a sorted copy of the notes.
func SortNotes(notes []bugtrack.Note, criterion NoteSortCriterion) []bugtrack.Note {
	sorted := make([]bugtrack.Note, len(notes))
	copy(sorted, notes)

	var less func(i, j int) bool
	switch criterion {
	case NotesNewest:
		less = func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) }
	case NotesOldest:
		less = func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) }
	case NotesUpdated:
		less = func(i, j int) bool { return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt) }
	default:
		return sorted
	}

	sort.SliceStable(sorted, less)
	return sorted
}
