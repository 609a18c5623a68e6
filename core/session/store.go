package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

var ErrNoSession = errors.New("not logged in")

// Store is the single source of truth for the current session.
// It is safe for concurrent use: the HTTP client reads Token while screens log in and out.
type Store struct {
	storage   core.Storage
	authn     Authenticator
	validator *core.Validator
	logger    core.Logger
	now       func() time.Time

	initOnce sync.Once
	initErr  error

	mutex   sync.RWMutex
	state   State
	current *Session
}

func NewStore(storage core.Storage, authn Authenticator, logger core.Logger) *Store {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Store{
		storage:   storage,
		authn:     authn,
		validator: core.NewValidator(),
		logger:    logger,
		now:       time.Now,
		state:     StateLoading,
	}
}

// Init rehydrates the persisted session. Only the first call does any work.
func (s *Store) Init(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.rehydrate(ctx)
	})
	return s.initErr
}

func (s *Store) rehydrate(ctx context.Context) error {
	sess, err := s.load(ctx)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.state == StateAuthenticated {
		return nil // a login won the race
	}
	if sess == nil {
		s.state = StateAnonymous
		return err
	}
	s.current = sess
	s.state = StateAuthenticated
	return nil
}

// load reads both keys. Any inconsistency clears the leftovers and yields no session.
func (s *Store) load(ctx context.Context) (*Session, error) {
	token, err := s.storage.Get(ctx, tokenKey)
	if err != nil && err != core.ErrNotFound {
		return nil, errors.Wrap(err, "reading session token")
	}
	usrData, uErr := s.storage.Get(ctx, userKey)
	if uErr != nil && uErr != core.ErrNotFound {
		return nil, errors.Wrap(uErr, "reading session user")
	}

	if err == core.ErrNotFound || uErr == core.ErrNotFound {
		if err != uErr { // only one of them is left
			s.logger.Warn("incomplete persisted session, discarding")
			return nil, s.clear(ctx)
		}
		return nil, nil
	}

	var usr user.User
	if err = json.Unmarshal(usrData, &usr); err != nil || strings.TrimSpace(string(token)) == "" {
		s.logger.Warn("corrupt persisted session, discarding", err)
		return nil, s.clear(ctx)
	}
	if tokenExpired(string(token), s.now()) {
		s.logger.Info("persisted session expired", usr)
		return nil, s.clear(ctx)
	}
	return &Session{User: usr, Token: string(token)}, nil
}

// tokenExpired reports whether token is a JWT whose exp is past. Other tokens never expire client side.
func tokenExpired(token string, now time.Time) bool {
	claims := new(jwt.StandardClaims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != 0 && !claims.VerifyExpiresAt(now.Unix(), false)
}

func (s *Store) clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, tokenKey, userKey); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	return nil
}

func (s *Store) State() State {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.state
}

// Current returns a copy of the current session.
func (s *Store) Current() (Session, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Token returns the bearer token, "" when anonymous.
func (s *Store) Token() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Start logs in with creds and persists the new session.
// A rejected login leaves the previous state untouched. When persisting fails
// the session is ended, so memory agrees with what the next run rehydrates.
func (s *Store) Start(ctx context.Context, creds user.Credentials) (Session, error) {
	if err := creds.Validate(s.validator); err != nil {
		return Session{}, err
	}

	tok, err := s.authn.Login(ctx, creds)
	if err != nil {
		return Session{}, errors.Wrap(err, "logging in")
	}
	if tok.AccessToken == "" {
		return Session{}, errors.New("no access token in login response")
	}

	sess := Session{User: tok.User, Token: tok.AccessToken}
	if err = s.persist(ctx, sess); err != nil {
		_ = s.End(ctx)
		return Session{}, err
	}

	s.mutex.Lock()
	s.current = &sess
	s.state = StateAuthenticated
	s.mutex.Unlock()

	s.logger.Info("logged in", sess.User)
	return sess, nil
}

func (s *Store) persist(ctx context.Context, sess Session) error {
	data, err := json.Marshal(sess.User)
	if err != nil {
		return errors.Wrap(err, "encoding session user")
	}
	if err = s.storage.Set(ctx, tokenKey, []byte(sess.Token)); err != nil {
		return errors.Wrap(err, "saving session token")
	}
	if err = s.storage.Set(ctx, userKey, data); err != nil {
		return errors.Wrap(err, "saving session user")
	}
	return nil
}

// End logs out. Memory state is cleared even when storage fails.
func (s *Store) End(ctx context.Context) error {
	s.mutex.Lock()
	s.current = nil
	s.state = StateAnonymous
	s.mutex.Unlock()

	return s.clear(ctx)
}

// Refresh replaces the stored user record with the backend's current view of it.
func (s *Store) Refresh(ctx context.Context, p Profiler) (Session, error) {
	if _, ok := s.Current(); !ok {
		return Session{}, ErrNoSession
	}

	usr, err := p.Me(ctx)
	if err != nil {
		return Session{}, errors.Wrap(err, "fetching profile")
	}

	s.mutex.Lock()
	if s.current == nil { // logged out meanwhile
		s.mutex.Unlock()
		return Session{}, ErrNoSession
	}
	s.current.User = usr
	sess := *s.current
	s.mutex.Unlock()

	data, err := json.Marshal(usr)
	if err != nil {
		return sess, errors.Wrap(err, "encoding session user")
	}
	if err = s.storage.Set(ctx, userKey, data); err != nil {
		return sess, errors.Wrap(err, "saving session user")
	}
	return sess, nil
}
