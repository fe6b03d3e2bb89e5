package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/rosterctl/internal/client/models"
	"github.com/dmitrijs2005/rosterctl/internal/logging"
)

// Status is the authentication state as seen by view guards.
type Status int

const (
	// StatusUnknown means hydration has not finished yet.
	StatusUnknown Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Persister is the durable side of the store.
type Persister interface {
	Load(ctx context.Context) (models.Session, bool, error)
	Save(ctx context.Context, s models.Session) error
}

var ErrNotHydrated = errors.New("session store not hydrated")

type Store struct {
	mu        sync.RWMutex
	current   models.Session
	persister Persister
	logger    logging.Logger

	hydrateOnce sync.Once
	hydrated    chan struct{}
}

func NewStore(p Persister, logger logging.Logger) *Store {
	return &Store{
		persister: p,
		logger:    logger.With("module", "session"),
		hydrated:  make(chan struct{}),
	}
}

// Hydrate restores the persisted session. It runs once; later calls return
// nil immediately. A failed or inconsistent load leaves the session empty,
// the store is still marked hydrated and the error is returned.
func (s *Store) Hydrate(ctx context.Context) error {
	var err error
	s.hydrateOnce.Do(func() {
		defer close(s.hydrated)

		var (
			restored models.Session
			ok       bool
		)
		restored, ok, err = s.persister.Load(ctx)
		if err != nil {
			s.logger.Error(ctx, "session hydration failed", "error", err)
			return
		}
		if !ok {
			s.logger.Debug(ctx, "no stored session")
			return
		}
		if !restored.Valid() {
			s.logger.Warn(ctx, "stored session is inconsistent, ignoring it")
			return
		}

		s.mu.Lock()
		s.current = restored
		s.mu.Unlock()
		s.logger.Debug(ctx, "session restored", "authenticated", restored.IsAuthenticated)
	})
	return err
}

// Hydrated is closed once Hydrate has finished.
func (s *Store) Hydrated() <-chan struct{} {
	return s.hydrated
}

func (s *Store) isHydrated() bool {
	select {
	case <-s.hydrated:
		return true
	default:
		return false
	}
}

// Set replaces the session with (user, token) and commits it.
func (s *Store) Set(ctx context.Context, user models.Identity, token string) error {
	if !s.isHydrated() {
		return ErrNotHydrated
	}
	next := models.NewSession(&user, token)

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	return s.commit(ctx, next)
}

// Clear empties the session and commits the empty state. Clearing an empty
// session does nothing, so concurrent teardown paths converge.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	if s.current == (models.Session{}) {
		s.mu.Unlock()
		return nil
	}
	s.current = models.Session{}
	s.mu.Unlock()

	return s.commit(ctx, models.Session{})
}

func (s *Store) commit(ctx context.Context, snapshot models.Session) error {
	if err := s.persister.Save(ctx, snapshot); err != nil {
		s.logger.Error(ctx, "session commit failed", "error", err)
		return err
	}
	return nil
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.current
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

// Token returns the credential, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// User returns the logged-in identity.
func (s *Store) User() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return models.Identity{}, false
	}
	return *s.current.User, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAuthenticated
}

// Status is StatusUnknown before hydration completes.
func (s *Store) Status() Status {
	if !s.isHydrated() {
		return StatusUnknown
	}
	if s.IsAuthenticated() {
		return StatusAuthenticated
	}
	return StatusAnonymous
}

// TokenExpiry reads the exp claim of a JWT credential without verifying the
// signature. ok is false for opaque tokens or tokens without exp.
func (s *Store) TokenExpiry() (exp time.Time, ok bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
