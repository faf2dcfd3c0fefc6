package bug

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobinette/bugtrack"
)

func TestMatches(t *testing.T) {
	open := bugtrack.Bug{ID: "b1", Priority: bugtrack.PriorityHigh}
	closed := bugtrack.Bug{ID: "b2", Priority: bugtrack.PriorityLow, IsResolved: true}

	tts := map[string]struct {
		criteria Criteria
		bug      bugtrack.Bug
		expected bool
	}{
		"zero value lets everything through": {
			criteria: Criteria{},
			bug:      closed,
			expected: true,
		},
		"all/all lets everything through": {
			criteria: Criteria{Status: StatusAll, Priority: PriorityAll},
			bug:      open,
			expected: true,
		},
		"open matches open": {
			criteria: Criteria{Status: StatusOpen},
			bug:      open,
			expected: true,
		},
		"open rejects closed": {
			criteria: Criteria{Status: StatusOpen},
			bug:      closed,
			expected: false,
		},
		"closed matches closed": {
			criteria: Criteria{Status: StatusClosed},
			bug:      closed,
			expected: true,
		},
		"priority matches": {
			criteria: Criteria{Priority: PriorityHigh},
			bug:      open,
			expected: true,
		},
		"priority rejects": {
			criteria: Criteria{Priority: PriorityMedium},
			bug:      open,
			expected: false,
		},
		"both must match": {
			criteria: Criteria{Status: StatusClosed, Priority: PriorityHigh},
			bug:      closed,
			expected: false,
		},
	}

	for name, tt := range tts {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Matches(tt.criteria, tt.bug))
			// Pure: asking twice answers the same.
			assert.Equal(t, tt.expected, Matches(tt.criteria, tt.bug))
		})
	}
}
