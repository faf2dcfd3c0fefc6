package project

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bobinette/bugtrack"
	"github.com/bobinette/bugtrack/errors"
	"github.com/bobinette/bugtrack/log"
)

const maxNameLength = 60

type Client interface {
	List(ctx context.Context) ([]bugtrack.Project, error)
	Create(ctx context.Context, name string, memberIDs []string) (bugtrack.Project, error)
	Rename(ctx context.Context, projectID, name string) (bugtrack.Project, error)
	AddMembers(ctx context.Context, projectID string, memberIDs []string) ([]bugtrack.ProjectMember, error)
	RemoveMember(ctx context.Context, projectID, memberID string) error
	Leave(ctx context.Context, projectID string) error
	Delete(ctx context.Context, projectID string) error
}

// Session is the slice of the session store the project store needs:
// who is acting.
type Session interface {
	Current() *bugtrack.User
}

// Store owns the projects and their membership lists. Local state is
// only touched after the remote confirms a mutation; overlapping
// mutations are serialized by the store instead of racing on the
// last response.
type Store struct {
	mu sync.Mutex

	projects []bugtrack.Project

	fetchStatus bugtrack.Status
	fetchError  string
	sortBy      SortCriterion

	submitMu      sync.Mutex
	submitLoading bool
	submitError   string

	onDeleted func(projectID string)

	client  Client
	session Session
	logger  log.Logger
}

func NewStore(client Client, session Session, logger log.Logger) *Store {
	return &Store{
		fetchStatus: bugtrack.StatusIdle,
		sortBy:      SortNewest,
		client:      client,
		session:     session,
		logger:      logger,
	}
}

// OnDeleted registers the cascade hook fired after a project is
// deleted, so the bug store can drop the project's bug collection.
func (s *Store) OnDeleted(fn func(projectID string)) {
	s.onDeleted = fn
}

// FetchAll replaces the whole collection with the remote's listing.
func (s *Store) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.fetchStatus = bugtrack.StatusLoading
	s.fetchError = ""
	s.mu.Unlock()

	projects, err := s.client.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.fetchStatus = bugtrack.StatusFailed
		s.fetchError = errors.MessageOf(err)
		return err
	}

	s.fetchStatus = bugtrack.StatusSucceeded
	s.projects = projects
	return nil
}

// Create submits a new project. Nothing is inserted locally before
// the remote answers: the id is server-assigned. closeDialog runs
// only on success, so a failed form stays open for correction.
func (s *Store) Create(ctx context.Context, name string, memberIDs []string, closeDialog func()) error {
	if err := validateName(name); err != nil {
		return s.reject(err)
	}

	return s.submit(func() error {
		project, err := s.client.Create(ctx, name, dedupe(memberIDs))
		if err != nil {
			return err
		}

		s.mu.Lock()
		s.projects = append(s.projects, project)
		s.mu.Unlock()

		if closeDialog != nil {
			closeDialog()
		}
		return nil
	})
}

// Rename patches only the name and updatedAt of the local project
// from the confirmed response.
func (s *Store) Rename(ctx context.Context, projectID, name string, closeDialog func()) error {
	if err := validateName(name); err != nil {
		return s.reject(err)
	}

	return s.submit(func() error {
		updated, err := s.client.Rename(ctx, projectID, name)
		if err != nil {
			return err
		}

		s.patch(projectID, func(p *bugtrack.Project) {
			p.Name = updated.Name
			p.UpdatedAt = updated.UpdatedAt
		})

		if closeDialog != nil {
			closeDialog()
		}
		return nil
	})
}

// AddMembers appends the member entries the remote confirms.
// Duplicates against the local member list are rejected before any
// call; the remote still has the final say.
func (s *Store) AddMembers(ctx context.Context, projectID string, memberIDs []string, closeDialog func()) error {
	memberIDs = dedupe(memberIDs)
	if len(memberIDs) == 0 {
		return s.reject(errors.New("select at least one member", errors.BadRequest()))
	}

	if project, ok := s.Get(projectID); ok {
		for _, id := range memberIDs {
			if project.HasMember(id) {
				return s.reject(errors.New(fmt.Sprintf("user %s is already a member", id), errors.BadRequest()))
			}
		}
	}

	return s.submit(func() error {
		members, err := s.client.AddMembers(ctx, projectID, memberIDs)
		if err != nil {
			return err
		}

		s.patch(projectID, func(p *bugtrack.Project) {
			p.Members = append(p.Members, members...)
		})

		if closeDialog != nil {
			closeDialog()
		}
		return nil
	})
}

// RemoveMember drops the member entry once the remote confirms. No
// optimistic pre-removal.
func (s *Store) RemoveMember(ctx context.Context, projectID, memberID string) error {
	return s.submit(func() error {
		if err := s.client.RemoveMember(ctx, projectID, memberID); err != nil {
			return err
		}

		s.patch(projectID, func(p *bugtrack.Project) {
			p.Members = withoutMember(p.Members, memberID)
		})
		return nil
	})
}

// Leave removes the caller's own membership entry.
func (s *Store) Leave(ctx context.Context, projectID string, onSuccess func()) error {
	user := s.session.Current()
	if user == nil {
		return s.reject(errors.New("not logged in", errors.Unauthorized()))
	}

	return s.submit(func() error {
		if err := s.client.Leave(ctx, projectID); err != nil {
			return err
		}

		s.patch(projectID, func(p *bugtrack.Project) {
			p.Members = withoutMember(p.Members, user.ID)
		})

		if onSuccess != nil {
			onSuccess()
		}
		return nil
	})
}

// Delete removes the project and, through the cascade hook, its bug
// collection. onSuccess (navigation) runs only after the remote
// confirms.
func (s *Store) Delete(ctx context.Context, projectID string, onSuccess func()) error {
	return s.submit(func() error {
		if err := s.client.Delete(ctx, projectID); err != nil {
			return err
		}

		s.mu.Lock()
		for i, p := range s.projects {
			if p.ID == projectID {
				s.projects = append(s.projects[:i], s.projects[i+1:]...)
				break
			}
		}
		s.mu.Unlock()

		if s.onDeleted != nil {
			s.onDeleted(projectID)
		}
		if onSuccess != nil {
			onSuccess()
		}
		return nil
	})
}

// SortBy changes the derived order. Pure local state, no network.
func (s *Store) SortBy(criterion SortCriterion) error {
	if !criterion.Valid() {
		return errors.New(fmt.Sprintf("unknown sort criterion %q", criterion), errors.BadRequest())
	}

	s.mu.Lock()
	s.sortBy = criterion
	s.mu.Unlock()
	return nil
}

// Projects returns a snapshot of the collection ordered by the
// current sort criterion. Snapshots are detached: later mutations
// never reach into them.
func (s *Store) Projects() []bugtrack.Project {
	s.mu.Lock()
	projects := make([]bugtrack.Project, len(s.projects))
	for i, p := range s.projects {
		projects[i] = cloneProject(p)
	}
	criterion := s.sortBy
	s.mu.Unlock()

	return Sort(projects, criterion)
}

func (s *Store) Get(projectID string) (bugtrack.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.projects {
		if p.ID == projectID {
			return cloneProject(p), true
		}
	}
	return bugtrack.Project{}, false
}

func (s *Store) FetchStatus() bugtrack.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchStatus
}

func (s *Store) FetchError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchError
}

func (s *Store) SortCriterion() SortCriterion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortBy
}

func (s *Store) SubmitLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLoading
}

func (s *Store) SubmitError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitError
}

func (s *Store) ClearSubmitError() {
	s.mu.Lock()
	s.submitError = ""
	s.mu.Unlock()
}

// submit serializes mutating operations: a single mutation is in
// flight at a time, the next one waits instead of racing on whichever
// response settles last.
func (s *Store) submit(op func() error) error {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	s.mu.Lock()
	s.submitLoading = true
	s.submitError = ""
	s.mu.Unlock()

	err := op()

	s.mu.Lock()
	s.submitLoading = false
	if err != nil {
		s.submitError = errors.MessageOf(err)
	}
	s.mu.Unlock()

	return err
}

func (s *Store) reject(err error) error {
	s.mu.Lock()
	s.submitError = errors.MessageOf(err)
	s.mu.Unlock()
	return err
}

func (s *Store) patch(projectID string, fn func(*bugtrack.Project)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].ID == projectID {
			fn(&s.projects[i])
			return
		}
	}
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("project name is required", errors.BadRequest())
	}
	if len(name) > maxNameLength {
		return errors.New(fmt.Sprintf("project name must be at most %d characters", maxNameLength), errors.BadRequest())
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// cloneProject copies the slices of the project so a snapshot does
// not alias the store's backing arrays.
func cloneProject(p bugtrack.Project) bugtrack.Project {
	p.Members = append([]bugtrack.ProjectMember(nil), p.Members...)
	p.Bugs = append([]bugtrack.BugRef(nil), p.Bugs...)
	return p
}

func withoutMember(members []bugtrack.ProjectMember, userID string) []bugtrack.ProjectMember {
	for i, m := range members {
		if m.Member.ID == userID {
			return append(members[:i], members[i+1:]...)
		}
	}
	return members
}
