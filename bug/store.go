package bug

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bobinette/bugtrack"
	clientsbug "github.com/bobinette/bugtrack/clients/bug"
	"github.com/bobinette/bugtrack/errors"
	"github.com/bobinette/bugtrack/log"
)

const maxTitleLength = 60

// Action is what CloseReopen does to a bug.
type Action string

const (
	ActionClose  Action = "close"
	ActionReopen Action = "reopen"
)

type Client interface {
	ListByProject(ctx context.Context, projectID string) ([]bugtrack.Bug, error)
	Create(ctx context.Context, projectID string, payload clientsbug.Payload) (bugtrack.Bug, error)
	Update(ctx context.Context, projectID, bugID string, payload clientsbug.Payload) (bugtrack.Bug, error)
	Delete(ctx context.Context, projectID, bugID string) error
	Close(ctx context.Context, projectID, bugID string) (bugtrack.Bug, error)
	Reopen(ctx context.Context, projectID, bugID string) (bugtrack.Bug, error)
	CreateNote(ctx context.Context, projectID, bugID, body string) (bugtrack.Note, error)
	UpdateNote(ctx context.Context, projectID, bugID string, noteID int, body string) (bugtrack.Note, error)
	DeleteNote(ctx context.Context, projectID, bugID string, noteID int) error
}

// Index is the optional full-text index kept in sync with the store,
// satisfied by bleve.BugIndex.
type Index interface {
	Index(b bugtrack.Bug) error
	Delete(bugID string) error
	Search(projectID, q string) ([]string, error)
}

type collection struct {
	status bugtrack.Status
	err    string
	bugs   []bugtrack.Bug
}

// Store owns the bugs and their notes, keyed by project. Collections
// are fetched lazily, once per project, and cached. Local state only
// changes on confirmed responses; close/reopen actors and timestamps
// are taken from the remote, never computed locally.
type Store struct {
	mu sync.Mutex

	collections map[string]*collection

	sortBy   SortCriterion
	filterBy Criteria

	submitMu      sync.Mutex
	submitLoading bool
	submitError   string

	client Client
	index  Index
	logger log.Logger
}

// NewStore wires the bug store. index may be nil: search is then
// unavailable but everything else works.
func NewStore(client Client, index Index, logger log.Logger) *Store {
	return &Store{
		collections: make(map[string]*collection),
		sortBy:      SortNewest,
		filterBy:    Criteria{Status: StatusAll, Priority: PriorityAll},
		client:      client,
		index:       index,
		logger:      logger,
	}
}

// FetchByProject populates the project's bug collection. A second
// call for an already-fetched project is a no-op; fetches for
// distinct projects are independent.
func (s *Store) FetchByProject(ctx context.Context, projectID string) error {
	s.mu.Lock()
	col := s.collections[projectID]
	if col != nil && (col.status == bugtrack.StatusSucceeded || col.status == bugtrack.StatusLoading) {
		s.mu.Unlock()
		return nil
	}
	s.collections[projectID] = &collection{status: bugtrack.StatusLoading}
	s.mu.Unlock()

	bugs, err := s.client.ListByProject(ctx, projectID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.collections[projectID] = &collection{
			status: bugtrack.StatusFailed,
			err:    errors.MessageOf(err),
		}
		return err
	}

	s.collections[projectID] = &collection{
		status: bugtrack.StatusSucceeded,
		bugs:   bugs,
	}

	for _, b := range bugs {
		s.reindex(b)
	}

	return nil
}

// Create submits a new bug. The remote's bug, with its assigned id
// and empty notes, is inserted on success.
func (s *Store) Create(ctx context.Context, projectID string, payload clientsbug.Payload, closeDialog func()) error {
	if err := validatePayload(payload); err != nil {
		return s.reject(err)
	}

	return s.submit(func() error {
		created, err := s.client.Create(ctx, projectID, payload)
		if err != nil {
			return err
		}

		s.mu.Lock()
		if col := s.collections[projectID]; col != nil {
			col.bugs = append(col.bugs, created)
		}
		s.reindex(created)
		s.mu.Unlock()

		if closeDialog != nil {
			closeDialog()
		}
		return nil
	})
}

// Edit patches title, description and priority; updatedBy/updatedAt
// come from the confirmed response.
func (s *Store) Edit(ctx context.Context, projectID, bugID string, payload clientsbug.Payload, closeDialog func()) error {
	if err := validatePayload(payload); err != nil {
		return s.reject(err)
	}

	return s.submit(func() error {
		updated, err := s.client.Update(ctx, projectID, bugID, payload)
		if err != nil {
			return err
		}

		s.patch(projectID, bugID, func(b *bugtrack.Bug) {
			b.Title = updated.Title
			b.Description = updated.Description
			b.Priority = updated.Priority
			b.UpdatedBy = updated.UpdatedBy
			b.UpdatedAt = updated.UpdatedAt
		})

		if closeDialog != nil {
			closeDialog()
		}
		return nil
	})
}

// Delete removes the bug. onSuccess (navigation back to the project)
// runs only after the remote confirms.
func (s *Store) Delete(ctx context.Context, projectID, bugID string, onSuccess func()) error {
	return s.submit(func() error {
		if err := s.client.Delete(ctx, projectID, bugID); err != nil {
			return err
		}

		s.mu.Lock()
		if col := s.collections[projectID]; col != nil {
			for i, b := range col.bugs {
				if b.ID == bugID {
					col.bugs = append(col.bugs[:i], col.bugs[i+1:]...)
					break
				}
			}
		}
		s.unindex(bugID)
		s.mu.Unlock()

		if onSuccess != nil {
			onSuccess()
		}
		return nil
	})
}

// CloseReopen toggles resolution through the remote. The client never
// flips isResolved ahead of confirmation, so calling close twice
// cannot double-apply: the remote rejects the second call.
func (s *Store) CloseReopen(ctx context.Context, projectID, bugID string, action Action) error {
	var call func(context.Context, string, string) (bugtrack.Bug, error)
	switch action {
	case ActionClose:
		call = s.client.Close
	case ActionReopen:
		call = s.client.Reopen
	default:
		return s.reject(errors.New(fmt.Sprintf("unknown action %q", action), errors.BadRequest()))
	}

	return s.submit(func() error {
		updated, err := call(ctx, projectID, bugID)
		if err != nil {
			return err
		}

		s.patch(projectID, bugID, func(b *bugtrack.Bug) {
			b.IsResolved = updated.IsResolved
			b.ClosedBy = updated.ClosedBy
			b.ClosedAt = updated.ClosedAt
			b.ReopenedBy = updated.ReopenedBy
			b.ReopenedAt = updated.ReopenedAt
		})
		return nil
	})
}

func (s *Store) CreateNote(ctx context.Context, projectID, bugID, body string, closeDialog func()) error {
	if err := validateNoteBody(body); err != nil {
		return s.reject(err)
	}

	return s.submit(func() error {
		note, err := s.client.CreateNote(ctx, projectID, bugID, body)
		if err != nil {
			return err
		}

		s.patch(projectID, bugID, func(b *bugtrack.Bug) {
			b.Notes = append(b.Notes, note)
		})

		if closeDialog != nil {
			closeDialog()
		}
		return nil
	})
}

func (s *Store) EditNote(ctx context.Context, projectID, bugID string, noteID int, body string, closeDialog func()) error {
	if err := validateNoteBody(body); err != nil {
		return s.reject(err)
	}

	return s.submit(func() error {
		note, err := s.client.UpdateNote(ctx, projectID, bugID, noteID, body)
		if err != nil {
			return err
		}

		s.patch(projectID, bugID, func(b *bugtrack.Bug) {
			for i := range b.Notes {
				if b.Notes[i].ID == noteID {
					b.Notes[i] = note
					return
				}
			}
		})

		if closeDialog != nil {
			closeDialog()
		}
		return nil
	})
}

func (s *Store) DeleteNote(ctx context.Context, projectID, bugID string, noteID int) error {
	return s.submit(func() error {
		if err := s.client.DeleteNote(ctx, projectID, bugID, noteID); err != nil {
			return err
		}

		s.patch(projectID, bugID, func(b *bugtrack.Bug) {
			for i := range b.Notes {
				if b.Notes[i].ID == noteID {
					b.Notes = append(b.Notes[:i], b.Notes[i+1:]...)
					return
				}
			}
		})
		return nil
	})
}

// Forget drops a project's bug collection. Fired by the project store
// cascade when a project is deleted.
func (s *Store) Forget(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if col := s.collections[projectID]; col != nil {
		for _, b := range col.bugs {
			s.unindex(b.ID)
		}
	}
	delete(s.collections, projectID)
}

// Search runs a full-text query over the project's indexed bugs and
// answers them in index ranking order.
func (s *Store) Search(projectID, q string) ([]bugtrack.Bug, error) {
	if s.index == nil {
		return nil, errors.New("search index is not configured")
	}

	ids, err := s.index.Search(projectID, q)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[projectID]
	if col == nil {
		return nil, nil
	}

	byID := make(map[string]bugtrack.Bug, len(col.bugs))
	for _, b := range col.bugs {
		byID[b.ID] = b
	}

	var bugs []bugtrack.Bug
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			bugs = append(bugs, cloneBug(b))
		}
	}
	return bugs, nil
}

// ByProject returns a snapshot of the project's bug collection. The
// boolean reports whether the collection has been fetched at all.
// Snapshots are detached: later mutations never reach into them.
func (s *Store) ByProject(projectID string) ([]bugtrack.Bug, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[projectID]
	if col == nil || col.status != bugtrack.StatusSucceeded {
		return nil, false
	}

	bugs := make([]bugtrack.Bug, len(col.bugs))
	for i, b := range col.bugs {
		bugs[i] = cloneBug(b)
	}
	return bugs, true
}

func (s *Store) Get(projectID, bugID string) (bugtrack.Bug, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[projectID]
	if col == nil {
		return bugtrack.Bug{}, false
	}

	for _, b := range col.bugs {
		if b.ID == bugID {
			return cloneBug(b), true
		}
	}
	return bugtrack.Bug{}, false
}

func (s *Store) FetchStatus(projectID string) bugtrack.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if col := s.collections[projectID]; col != nil {
		return col.status
	}
	return bugtrack.StatusIdle
}

func (s *Store) FetchError(projectID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if col := s.collections[projectID]; col != nil {
		return col.err
	}
	return ""
}

func (s *Store) SetSort(criterion SortCriterion) error {
	if !criterion.Valid() {
		return errors.New(fmt.Sprintf("unknown sort criterion %q", criterion), errors.BadRequest())
	}

	s.mu.Lock()
	s.sortBy = criterion
	s.mu.Unlock()
	return nil
}

func (s *Store) SetFilter(criteria Criteria) {
	s.mu.Lock()
	s.filterBy = criteria
	s.mu.Unlock()
}

func (s *Store) Sort() SortCriterion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortBy
}

func (s *Store) Filter() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterBy
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

// submit serializes mutating operations, same discipline as the
// project store.
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

func (s *Store) patch(projectID, bugID string, fn func(*bugtrack.Bug)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[projectID]
	if col == nil {
		return
	}

	for i := range col.bugs {
		if col.bugs[i].ID == bugID {
			fn(&col.bugs[i])
			s.reindex(col.bugs[i])
			return
		}
	}
}

// reindex and unindex are called with s.mu held. Index failures are
// logged, not propagated: search staleness must not fail a mutation
// the remote already confirmed.
func (s *Store) reindex(b bugtrack.Bug) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(b); err != nil {
		s.logger.Errorf("could not index bug %s: %v", b.ID, err)
	}
}

func (s *Store) unindex(bugID string) {
	if s.index == nil {
		return
	}
	if err := s.index.Delete(bugID); err != nil {
		s.logger.Errorf("could not unindex bug %s: %v", bugID, err)
	}
}

// cloneBug copies the note slice of the bug so a snapshot does not
// alias the store's backing array.
func cloneBug(b bugtrack.Bug) bugtrack.Bug {
	b.Notes = append([]bugtrack.Note(nil), b.Notes...)
	return b
}

func validatePayload(payload clientsbug.Payload) error {
	if strings.TrimSpace(payload.Title) == "" {
		return errors.New("bug title is required", errors.BadRequest())
	}
	if len(payload.Title) > maxTitleLength {
		return errors.New(fmt.Sprintf("bug title must be at most %d characters", maxTitleLength), errors.BadRequest())
	}
	if strings.TrimSpace(payload.Description) == "" {
		return errors.New("bug description is required", errors.BadRequest())
	}
	if !payload.Priority.Valid() {
		return errors.New(fmt.Sprintf("unknown priority %q", payload.Priority), errors.BadRequest())
	}
	return nil
}

func validateNoteBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return errors.New("note body is required", errors.BadRequest())
	}
	return nil
}
