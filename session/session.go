package session

import (
	"context"
	"sync"
	"time"

	"github.com/bobinette/bugtrack"
	"github.com/bobinette/bugtrack/clients"
	clientsauth "github.com/bobinette/bugtrack/clients/auth"
	"github.com/bobinette/bugtrack/errors"
	"github.com/bobinette/bugtrack/jwt"
	"github.com/bobinette/bugtrack/log"
)

// State is the lifecycle of the session. There is at most one session
// per process.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

type AuthClient interface {
	Login(ctx context.Context, username, password string) (clientsauth.Response, error)
	Signup(ctx context.Context, username, password string) (clientsauth.Response, error)
}

// CredentialStore is the durable storage for the session, satisfied
// by bolt.CredentialStore.
type CredentialStore interface {
	Save(user bugtrack.User, token string) error
	Load() (*bugtrack.User, string, error)
	Clear() error
}

// Validator checks a restored token against the remote. Restore only
// goes through when the call succeeds with the token armed.
type Validator func(ctx context.Context) error

type Store struct {
	mu sync.Mutex

	state     State
	user      *bugtrack.User
	token     string
	authError string

	transport *clients.Client
	auth      AuthClient
	creds     CredentialStore
	validate  Validator
	logger    log.Logger
}

// NewStore wires the session store on the shared transport. It
// registers itself on the transport's 401 hook: any call answered
// with 401 drops the session back to anonymous.
func NewStore(transport *clients.Client, auth AuthClient, creds CredentialStore, validate Validator, logger log.Logger) *Store {
	s := &Store{
		state:     Anonymous,
		transport: transport,
		auth:      auth,
		creds:     creds,
		validate:  validate,
		logger:    logger,
	}

	transport.OnUnauthorized(s.expire)
	return s
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) IsLoggedIn() bool {
	return s.State() == Authenticated
}

// Current returns a snapshot of the authenticated user, or nil when
// anonymous.
func (s *Store) Current() *bugtrack.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *Store) AuthError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authError
}

func (s *Store) ClearAuthError() {
	s.mu.Lock()
	s.authError = ""
	s.mu.Unlock()
}

func (s *Store) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return s.fail(errors.New("username and password are required", errors.BadRequest()))
	}

	return s.authenticate(ctx, username, password, s.auth.Login)
}

func (s *Store) Signup(ctx context.Context, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return s.fail(err)
	}

	return s.authenticate(ctx, username, password, s.auth.Signup)
}

func (s *Store) authenticate(ctx context.Context, username, password string, call func(context.Context, string, string) (clientsauth.Response, error)) error {
	s.mu.Lock()
	if s.state == Authenticating {
		s.mu.Unlock()
		return errors.New("an authentication is already in progress", errors.Conflict())
	}
	s.state = Authenticating
	s.authError = ""
	s.mu.Unlock()

	res, err := call(ctx, username, password)
	if err != nil {
		s.mu.Lock()
		s.state = Anonymous
		s.authError = errors.MessageOf(err)
		s.mu.Unlock()
		return err
	}

	s.establish(res.User, res.Token)

	if err := s.creds.Save(res.User, res.Token); err != nil {
		// The session is live even if it will not survive a restart.
		s.logger.Errorf("could not persist session: %v", err)
	}

	return nil
}

// AutoLogin restores a persisted session at boot. The token is first
// inspected for a stale expiry, then validated against the remote: a
// token the remote rejects clears the persisted state. It reports
// whether the session was restored.
func (s *Store) AutoLogin(ctx context.Context) (bool, error) {
	user, token, err := s.creds.Load()
	if err != nil {
		return false, err
	}
	if user == nil || token == "" {
		return false, nil
	}

	if jwt.Expired(token, time.Now()) {
		s.logger.Debug("persisted token is expired, discarding")
		if err := s.creds.Clear(); err != nil {
			s.logger.Errorf("could not clear persisted session: %v", err)
		}
		return false, nil
	}

	s.establish(*user, token)

	if s.validate == nil {
		return true, nil
	}

	if err := s.validate(ctx); err != nil {
		if errors.IsUnauthorized(err) {
			// expire already ran through the transport hook, but the
			// validator is not required to go through the transport.
			s.expire()
			return false, nil
		}

		// The remote could not be reached: stay anonymous for this
		// run but keep the credentials for the next boot.
		s.disarm()
		return false, err
	}

	return true, nil
}

// Logout clears the session and the persisted credentials. It never
// calls the remote.
func (s *Store) Logout() {
	s.disarm()
	if err := s.creds.Clear(); err != nil {
		s.logger.Errorf("could not clear persisted session: %v", err)
	}
}

func (s *Store) establish(user bugtrack.User, token string) {
	s.mu.Lock()
	s.state = Authenticated
	s.user = &user
	s.token = token
	s.authError = ""
	s.mu.Unlock()

	s.transport.SetToken(token)
}

func (s *Store) disarm() {
	s.mu.Lock()
	s.state = Anonymous
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	s.transport.ClearToken()
}

// expire is the 401 path: the remote no longer accepts the token.
func (s *Store) expire() {
	s.disarm()

	s.mu.Lock()
	s.authError = "session expired, please log in again"
	s.mu.Unlock()

	if err := s.creds.Clear(); err != nil {
		s.logger.Errorf("could not clear persisted session: %v", err)
	}
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.authError = errors.MessageOf(err)
	s.mu.Unlock()
	return err
}

func validateCredentials(username, password string) error {
	if l := len(username); l < 3 || l > 20 {
		return errors.New("username must be between 3 and 20 characters", errors.BadRequest())
	}
	if l := len(password); l < 6 || l > 50 {
		return errors.New("password must be between 6 and 50 characters", errors.BadRequest())
	}
	return nil
}
