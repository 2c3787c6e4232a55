package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/superdupermart/storefront/internal/domain/identity"
	"github.com/superdupermart/storefront/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// AuthAPI is the slice of the backend client the session store needs
type AuthAPI interface {
	Login(ctx context.Context, req identity.LoginRequest) (identity.AuthResponse, error)
}

// SessionStore holds the current authenticated identity. At most one
// session is active at a time; nil means logged out. The persisted value
// and the published value move together: a subscriber never observes one
// updated without the other.
type SessionStore struct {
	mu      sync.Mutex
	storage storage.Store
	auth    AuthAPI
	logger  *zap.Logger
	bc      *broadcaster[*identity.Session]

	current *identity.Session
	hooks   []func()
}

// NewSessionStore rehydrates the persisted session, if any, and returns
// the store. A corrupt persisted value is treated as logged out.
func NewSessionStore(st storage.Store, auth AuthAPI, logger *zap.Logger) *SessionStore {
	s := &SessionStore{
		storage: st,
		auth:    auth,
		logger:  logger,
		bc:      newBroadcaster[*identity.Session](logger),
	}

	data, err := st.Get(context.Background(), storage.KeyUser)
	if err == nil {
		var session identity.Session
		if jsonErr := json.Unmarshal(data, &session); jsonErr == nil && session.Token != "" {
			s.current = &session
		} else {
			logger.Warn("discarding unreadable persisted session")
		}
	}

	return s
}

// Subscribe registers a listener for session transitions
func (s *SessionStore) Subscribe(fn Listener[*identity.Session]) Unsubscribe {
	return s.bc.subscribe(fn)
}

// Login exchanges credentials for a session, persists it and publishes
// it. On failure nothing is persisted or published.
func (s *SessionStore) Login(ctx context.Context, req identity.LoginRequest) (*identity.Session, error) {
	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	session, err := resp.Session()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := s.storage.Set(ctx, storage.KeyUser, data); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.current = session
	s.mu.Unlock()

	s.logger.Info("logged in",
		zap.String("username", session.Username),
		zap.String("role", session.Role.String()),
	)
	s.bc.publish(session)
	return session, nil
}

// Logout clears the persisted session and every session-scoped cache
// registered via OnLogout, then publishes "no session". It never fails;
// a storage error is logged and the local state is cleared regardless.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	if err := s.storage.Delete(ctx, storage.KeyUser); err != nil {
		s.logger.Warn("failed to delete persisted session", zap.Error(err))
	}
	s.current = nil
	hooks := make([]func(), len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	s.bc.publish(nil)
	for _, hook := range hooks {
		hook()
	}
	s.logger.Info("logged out")
}

// OnLogout registers a session-scoped cache reset to run on every logout
func (s *SessionStore) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Current returns the last published session, or nil when logged out.
// No network call is made.
func (s *SessionStore) Current() *identity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsAuthenticated returns true iff a session is active
func (s *SessionStore) IsAuthenticated() bool {
	return s.Current() != nil
}

// Token implements the bearer-credential source for the API client.
// Returns the empty string when logged out.
func (s *SessionStore) Token() string {
	session := s.Current()
	if session == nil {
		return ""
	}
	return session.Token
}
