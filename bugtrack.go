package bugtrack

import (
	"time"
)

// User is a directory entry. Users are immutable once fetched.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Status is the lifecycle of a fetch for a collection.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Priority of a bug.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Rank orders priorities, high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// BugRef is the reference a project keeps on its bugs. The bugs
// themselves are owned by the bug store, keyed by project.
type BugRef struct {
	ID string `json:"id"`
}

type ProjectMember struct {
	ID       string    `json:"id"`
	Member   User      `json:"member"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Project groups bugs and members. The creator is always a member and
// is the single admin of the project.
type Project struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Members   []ProjectMember `json:"members"`
	Bugs      []BugRef        `json:"bugs"`
	CreatedBy User            `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Note ids are scoped per bug and assigned by the remote.
type Note struct {
	ID        int       `json:"id"`
	Body      string    `json:"body"`
	Author    User      `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Bug belongs to a project. The closed/reopened actors and timestamps
// always come from the remote, never from the local clock.
type Bug struct {
	ID          string   `json:"id"`
	ProjectID   string   `json:"projectId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	IsResolved  bool     `json:"isResolved"`

	CreatedBy  User       `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedBy  *User      `json:"updatedBy,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
	ClosedBy   *User      `json:"closedBy,omitempty"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
	ReopenedBy *User      `json:"reopenedBy,omitempty"`
	ReopenedAt *time.Time `json:"reopenedAt,omitempty"`

	Notes []Note `json:"notes"`
}

// HasMember reports whether the user id appears in the member list.
func (p Project) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m.Member.ID == userID {
			return true
		}
	}
	return false
}

// Note returns the note with the given id on the bug.
func (b Bug) Note(noteID int) (Note, bool) {
	for _, n := range b.Notes {
		if n.ID == noteID {
			return n, true
		}
	}
	return Note{}, false
}
