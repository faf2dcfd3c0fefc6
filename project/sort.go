package project

import (
	"sort"
	"strings"

	"github.com/bobinette/bugtrack"
)

// SortCriterion orders the project listing.
type SortCriterion string

const (
	SortNewest       SortCriterion = "newest"
	SortOldest       SortCriterion = "oldest"
	SortNameAZ       SortCriterion = "a-z"
	SortNameZA       SortCriterion = "z-a"
	SortMostBugs     SortCriterion = "most-bugs"
	SortLeastBugs    SortCriterion = "least-bugs"
	SortMostMembers  SortCriterion = "most-members"
	SortLeastMembers SortCriterion = "least-members"
)

func (c SortCriterion) Valid() bool {
	switch c {
	case SortNewest, SortOldest, SortNameAZ, SortNameZA,
		SortMostBugs, SortLeastBugs, SortMostMembers, SortLeastMembers:
		return true
	}
	return false
}

// Sort returns a sorted copy of the projects. The sort is stable:
// projects with equal keys keep their relative order.
func Sort(projects []bugtrack.Project, criterion SortCriterion) []bugtrack.Project {
	sorted := make([]bugtrack.Project, len(projects))
	copy(sorted, projects)

	var less func(i, j int) bool
	switch criterion {
	case SortNewest:
		less = func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) }
	case SortOldest:
		less = func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) }
	case SortNameAZ:
		less = func(i, j int) bool {
			return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
		}
	case SortNameZA:
		less = func(i, j int) bool {
			return strings.ToLower(sorted[i].Name) > strings.ToLower(sorted[j].Name)
		}
	case SortMostBugs:
		less = func(i, j int) bool { return len(sorted[i].Bugs) > len(sorted[j].Bugs) }
	case SortLeastBugs:
		less = func(i, j int) bool { return len(sorted[i].Bugs) < len(sorted[j].Bugs) }
	case SortMostMembers:
		less = func(i, j int) bool { return len(sorted[i].Members) > len(sorted[j].Members) }
	case SortLeastMembers:
		less = func(i, j int) bool { return len(sorted[i].Members) < len(sorted[j].Members) }
	default:
		return sorted
	}

	sort.SliceStable(sorted, less)
	return sorted
}
