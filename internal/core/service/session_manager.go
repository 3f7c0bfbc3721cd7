package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/ports"
)

// SessionManager owns the authenticated identity of one client.
type SessionManager struct {
	auth ports.AuthProvider
	log  zerolog.Logger

	mu      sync.RWMutex
	user    *domain.User
	session *domain.Session
	loading bool
}

// NewSessionManager returns a manager in the loading state, as a client is
// before its first rehydration attempt.
func NewSessionManager(auth ports.AuthProvider, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		auth:    auth,
		log:     log.With().Str("component", "session").Logger(),
		loading: true,
	}
}

// SignIn authenticates with email and password. State is only mutated on success.
func (m *SessionManager) SignIn(ctx context.Context, email, password string) error {
	user, session, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		m.log.Debug().Err(err).Str("email", email).Msg("sign in failed")
		return err
	}
	m.adopt(user, session)
	return nil
}

// SignUp creates a new identity; same contract as SignIn.
func (m *SessionManager) SignUp(ctx context.Context, email, password string) error {
	user, session, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		m.log.Debug().Err(err).Str("email", email).Msg("sign up failed")
		return err
	}
	m.adopt(user, session)
	return nil
}

func (m *SessionManager) adopt(user *domain.User, session *domain.Session) {
	if user == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.session = session
	m.loading = false
}

// SignOut invalidates the remote session and clears local state
// unconditionally. The remote error, if any, is returned after clearing.
func (m *SessionManager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	session := m.session
	m.user = nil
	m.session = nil
	m.mu.Unlock()

	if session == nil {
		return nil
	}
	if err := m.auth.SignOut(ctx, session); err != nil {
		m.log.Warn().Err(err).Str("user_id", session.UserID).Msg("remote sign out failed")
		return err
	}
	return nil
}

// GetUser rehydrates identity from accessToken. The loading flag is cleared
// on every path.
func (m *SessionManager) GetUser(ctx context.Context, accessToken string) error {
	m.setLoading(true)
	defer m.setLoading(false)

	session, err := m.auth.GetSession(ctx, accessToken)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	user, err := m.auth.GetUser(ctx, session)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	m.mu.Lock()
	m.user = user
	m.session = session
	m.mu.Unlock()
	return nil
}

func (m *SessionManager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

// UserID returns the current user id, if any.
func (m *SessionManager) UserID() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil || m.user.ID == "" {
		return "", false
	}
	return m.user.ID, true
}

// Session returns the current session, or nil.
func (m *SessionManager) Session() *domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// State returns a snapshot of the manager.
func (m *SessionManager) State() ports.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := ports.SessionState{Loading: m.loading}
	if m.user != nil {
		u := *m.user
		st.User = &u
	}
	if m.session != nil {
		s := *m.session
		st.Session = &s
	}
	return st
}
