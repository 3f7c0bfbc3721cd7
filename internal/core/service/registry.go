package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/ports"
)

// Registry keeps one workspace per access token. A workspace pairs the
// session manager of a client with a synchronizer bound to its session.
type Registry struct {
	auth     ports.AuthProvider
	stores   ports.DataStoreProvider
	serial   Serializer
	observer Observer
	log      zerolog.Logger
	now      func() time.Time
	onChange func(active int)

	mu         sync.RWMutex
	workspaces map[string]*ports.Workspace
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// WithActiveGauge registers a callback invoked with the number of live
// workspaces after every change.
func WithActiveGauge(fn func(active int)) RegistryOption {
	return func(r *Registry) { r.onChange = fn }
}

// NewRegistry creates an empty registry. serial and observer may be nil.
func NewRegistry(auth ports.AuthProvider, stores ports.DataStoreProvider, serial Serializer, observer Observer, log zerolog.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		auth:       auth,
		stores:     stores,
		serial:     serial,
		observer:   observer,
		log:        log,
		now:        time.Now,
		onChange:   func(int) {},
		workspaces: make(map[string]*ports.Workspace),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) SignIn(ctx context.Context, email, password string) (*ports.Workspace, error) {
	mgr := NewSessionManager(r.auth, r.log)
	if err := mgr.SignIn(ctx, email, password); err != nil {
		return nil, err
	}
	session := mgr.Session()
	if session == nil || session.AccessToken == "" {
		return nil, fmt.Errorf("%w: sign in returned no session", domain.ErrBackend)
	}
	return r.open(mgr, session), nil
}

// SignUp registers an identity. When the provider withholds the session
// until the address is confirmed, the returned workspace carries only the
// session manager and is not registered.
func (r *Registry) SignUp(ctx context.Context, email, password string) (*ports.Workspace, error) {
	mgr := NewSessionManager(r.auth, r.log)
	if err := mgr.SignUp(ctx, email, password); err != nil {
		return nil, err
	}
	session := mgr.Session()
	if session == nil || session.AccessToken == "" {
		return &ports.Workspace{Session: mgr}, nil
	}
	return r.open(mgr, session), nil
}

// Resolve returns the workspace for accessToken, rehydrating it from the
// provider when this process has not seen the token yet.
func (r *Registry) Resolve(ctx context.Context, accessToken string) (*ports.Workspace, error) {
	if accessToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	r.mu.RLock()
	ws, ok := r.workspaces[accessToken]
	r.mu.RUnlock()
	if ok {
		if ws.Session.Session().Valid(r.now()) {
			return ws, nil
		}
		r.drop(accessToken)
		return nil, domain.ErrUnauthenticated
	}

	mgr := NewSessionManager(r.auth, r.log)
	if err := mgr.GetUser(ctx, accessToken); err != nil {
		return nil, err
	}
	session := mgr.Session()
	if _, ok := mgr.UserID(); !ok || !session.Valid(r.now()) {
		return nil, domain.ErrUnauthenticated
	}
	return r.open(mgr, session), nil
}

// SignOut ends the session behind accessToken and discards its workspace.
func (r *Registry) SignOut(ctx context.Context, accessToken string) error {
	ws, err := r.Resolve(ctx, accessToken)
	if err != nil {
		return err
	}
	r.drop(accessToken)
	return ws.Session.SignOut(ctx)
}

// Prune discards every workspace whose session expired and returns how
// many were removed.
func (r *Registry) Prune() int {
	now := r.now()
	r.mu.Lock()
	removed := 0
	for token, ws := range r.workspaces {
		if !ws.Session.Session().Valid(now) {
			delete(r.workspaces, token)
			removed++
		}
	}
	active := len(r.workspaces)
	r.mu.Unlock()

	if removed > 0 {
		r.onChange(active)
		r.log.Debug().Int("removed", removed).Int("active", active).Msg("expired workspaces pruned")
	}
	return removed
}

// Len reports the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}

func (r *Registry) open(mgr *SessionManager, session *domain.Session) *ports.Workspace {
	log := r.log.With().Str("user_id", session.UserID).Logger()
	ws := &ports.Workspace{
		Token:   session.AccessToken,
		Session: mgr,
		Grocery: NewSynchronizer(r.stores.ForSession(session), mgr, r.serial, r.observer, log),
	}

	r.mu.Lock()
	if existing, ok := r.workspaces[session.AccessToken]; ok {
		r.mu.Unlock()
		return existing
	}
	r.workspaces[session.AccessToken] = ws
	active := len(r.workspaces)
	r.mu.Unlock()

	r.onChange(active)
	return ws
}

func (r *Registry) drop(accessToken string) {
	r.mu.Lock()
	_, ok := r.workspaces[accessToken]
	delete(r.workspaces, accessToken)
	active := len(r.workspaces)
	r.mu.Unlock()
	if ok {
		r.onChange(active)
	}
}
