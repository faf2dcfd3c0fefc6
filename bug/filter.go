package bug

import (
	"github.com/bobinette/bugtrack"
)

// StatusFilter narrows bugs on their resolution state.
type StatusFilter string

const (
	StatusAll    StatusFilter = "all"
	StatusOpen   StatusFilter = "open"
	StatusClosed StatusFilter = "closed"
)

// PriorityFilter narrows bugs on their priority.
type PriorityFilter string

const (
	PriorityAll    PriorityFilter = "all"
	PriorityLow    PriorityFilter = "low"
	PriorityMedium PriorityFilter = "medium"
	PriorityHigh   PriorityFilter = "high"
)

// Criteria combines the two filters. The zero value filters nothing
// out once normalized.
type Criteria struct {
	Status   StatusFilter
	Priority PriorityFilter
}

// Matches is a pure predicate: same criteria and bug always yield the
// same answer. Unset filter fields are treated as "all".
func Matches(c Criteria, b bugtrack.Bug) bool {
	switch c.Status {
	case StatusOpen:
		if b.IsResolved {
			return false
		}
	case StatusClosed:
		if !b.IsResolved {
			return false
		}
	}

	switch c.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		if string(b.Priority) != string(c.Priority) {
			return false
		}
	}

	return true
}
