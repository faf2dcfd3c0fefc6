package directory

import (
	"context"
	"strings"
	"sync"

	"github.com/bobinette/bugtrack"
	"github.com/bobinette/bugtrack/errors"
	"github.com/bobinette/bugtrack/log"
)

type Client interface {
	List(ctx context.Context) ([]bugtrack.User, error)
}

// Store caches the user directory for member pickers. The directory
// is fetched once and kept for the process lifetime.
type Store struct {
	mu sync.Mutex

	status     bugtrack.Status
	fetchError string

	users []bugtrack.User
	byID  map[string]bugtrack.User

	client Client
	logger log.Logger
}

func NewStore(client Client, logger log.Logger) *Store {
	return &Store{
		status: bugtrack.StatusIdle,
		byID:   make(map[string]bugtrack.User),
		client: client,
		logger: logger,
	}
}

// Fetch loads the directory. Once a fetch has succeeded, subsequent
// calls are no-ops.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	if s.status == bugtrack.StatusSucceeded {
		s.mu.Unlock()
		return nil
	}
	if s.status == bugtrack.StatusLoading {
		s.mu.Unlock()
		return errors.New("directory fetch already in progress", errors.Conflict())
	}
	s.status = bugtrack.StatusLoading
	s.fetchError = ""
	s.mu.Unlock()

	users, err := s.client.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.status = bugtrack.StatusFailed
		s.fetchError = errors.MessageOf(err)
		return err
	}

	s.status = bugtrack.StatusSucceeded
	s.users = users
	s.byID = make(map[string]bugtrack.User, len(users))
	for _, user := range users {
		s.byID[user.ID] = user
	}

	return nil
}

func (s *Store) Status() bugtrack.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Store) FetchError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchError
}

// Users returns the directory in the order the remote answered it.
func (s *Store) Users() []bugtrack.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]bugtrack.User, len(s.users))
	copy(users, s.users)
	return users
}

func (s *Store) Get(id string) (bugtrack.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	return user, ok
}

// Search filters the directory on username, case-insensitively.
func (s *Store) Search(q string) []bugtrack.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	q = strings.ToLower(q)
	var users []bugtrack.User
	for _, user := range s.users {
		if strings.Contains(strings.ToLower(user.Username), q) {
			users = append(users, user)
		}
	}
	return users
}
