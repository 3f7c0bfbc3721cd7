package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/mapper"
	"github.com/listasy/grocery-api/internal/core/ports"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory DataStore keyed by table name.
type memStore struct {
	mu      sync.Mutex
	tables  map[string][]ports.Row
	seq     int
	fail    map[string]error
	panicOn string
	calls   []string
}

func newMemStore() *memStore {
	return &memStore{tables: make(map[string][]ports.Row), fail: make(map[string]error)}
}

func cloneRow(r ports.Row) ports.Row {
	out := make(ports.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// seed stores a row verbatim. created_at defaults to an increasing clock.
func (s *memStore) seed(table string, r ports.Row) ports.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(table, r)
}

func (s *memStore) insertLocked(table string, r ports.Row) ports.Row {
	s.seq++
	row := cloneRow(r)
	if _, ok := row[mapper.ColID]; !ok {
		row[mapper.ColID] = fmt.Sprintf("%s-%d", table, s.seq)
	}
	if _, ok := row[mapper.ColCreatedAt]; !ok {
		row[mapper.ColCreatedAt] = baseTime.Add(time.Duration(s.seq) * time.Second)
	}
	s.tables[table] = append(s.tables[table], row)
	return cloneRow(row)
}

func (s *memStore) enter(op, table string) error {
	key := op + ":" + table
	s.calls = append(s.calls, key)
	if s.panicOn == key {
		panic("boom")
	}
	return s.fail[key]
}

func (s *memStore) count(op, table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == op+":"+table {
			n++
		}
	}
	return n
}

func (s *memStore) rows(table string) []ports.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.Row, 0, len(s.tables[table]))
	for _, r := range s.tables[table] {
		out = append(out, cloneRow(r))
	}
	return out
}

func matches(r ports.Row, filters []ports.Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case ports.OpEq:
			if r[f.Column] != f.Value {
				return false
			}
		case ports.OpIn:
			v, _ := r[f.Column].(string)
			if !slices.Contains(f.Value.([]string), v) {
				return false
			}
		}
	}
	return true
}

func (s *memStore) Select(_ context.Context, table string, q ports.Query) ([]ports.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("select", table); err != nil {
		return nil, err
	}
	var out []ports.Row
	for _, r := range s.tables[table] {
		if !matches(r, q.Filters) {
			continue
		}
		row := cloneRow(r)
		if q.Embed != nil {
			row[q.Embed.Table] = nil
			for _, target := range s.tables[q.Embed.Table] {
				if target[mapper.ColID] == r[q.Embed.Column] {
					row[q.Embed.Table] = cloneRow(target)
				}
			}
		}
		out = append(out, row)
	}
	if q.Order != nil {
		slices.SortStableFunc(out, func(a, b ports.Row) int {
			c := a[q.Order.Column].(time.Time).Compare(b[q.Order.Column].(time.Time))
			if q.Order.Descending {
				return -c
			}
			return c
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *memStore) Insert(_ context.Context, table string, rows ...ports.Row) ([]ports.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("insert", table); err != nil {
		return nil, err
	}
	out := make([]ports.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.insertLocked(table, r))
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, table string, patch ports.Row, filters ...ports.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("update", table); err != nil {
		return err
	}
	for _, r := range s.tables[table] {
		if matches(r, filters) {
			for k, v := range patch {
				r[k] = v
			}
		}
	}
	return nil
}

func (s *memStore) Delete(_ context.Context, table string, filters ...ports.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("delete", table); err != nil {
		return err
	}
	s.tables[table] = slices.DeleteFunc(s.tables[table], func(r ports.Row) bool {
		return matches(r, filters)
	})
	return nil
}

type memStores struct{ store *memStore }

func (p memStores) ForSession(*domain.Session) ports.DataStore { return p.store }

type fixedIdentity string

func (id fixedIdentity) UserID() (string, bool) { return string(id), id != "" }

// stubAuth is an AuthProvider backed by a map of email to password.
type stubAuth struct {
	mu         sync.Mutex
	passwords  map[string]string
	users      map[string]*domain.User
	sessions   map[string]*domain.Session
	signOuts   int
	signOutErr error
	noSession  bool
	expiresAt  time.Time
}

func newStubAuth() *stubAuth {
	return &stubAuth{
		passwords: make(map[string]string),
		users:     make(map[string]*domain.User),
		sessions:  make(map[string]*domain.Session),
	}
}

func (a *stubAuth) issue(user *domain.User) *domain.Session {
	s := &domain.Session{
		AccessToken: "token-" + user.ID + fmt.Sprint(len(a.sessions)),
		UserID:      user.ID,
		ExpiresAt:   a.expiresAt,
	}
	a.sessions[s.AccessToken] = s
	return s
}

func (a *stubAuth) SignInWithPassword(_ context.Context, email, password string) (*domain.User, *domain.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if pw, ok := a.passwords[email]; !ok || pw != password {
		return nil, nil, domain.ErrInvalidCredentials
	}
	u := a.users[email]
	return u, a.issue(u), nil
}

func (a *stubAuth) SignUp(_ context.Context, email, password string) (*domain.User, *domain.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.passwords[email]; ok {
		return nil, nil, domain.ErrUserExists
	}
	u := &domain.User{ID: fmt.Sprintf("u%d", len(a.users)+1), Email: email}
	a.passwords[email] = password
	a.users[email] = u
	if a.noSession {
		return u, nil, nil
	}
	return u, a.issue(u), nil
}

func (a *stubAuth) SignOut(_ context.Context, s *domain.Session) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signOuts++
	delete(a.sessions, s.AccessToken)
	return a.signOutErr
}

func (a *stubAuth) GetSession(_ context.Context, token string) (*domain.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[token]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (a *stubAuth) GetUser(_ context.Context, s *domain.Session) (*domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, u := range a.users {
		if u.ID == s.UserID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (o *recordingObserver) ObserveOperation(op string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.ops = append(o.ops, op+":"+status)
}
