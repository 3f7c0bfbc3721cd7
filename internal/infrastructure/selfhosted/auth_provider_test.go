package selfhosted

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/mapper"
	"github.com/listasy/grocery-api/internal/core/ports"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneAccount(account)
	if copy.ID == "" {
		copy.ID = "id-" + account.Email
	}
	r.accounts[copy.ID] = cloneAccount(copy)
	return copy, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if a, ok := r.accounts[id]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	delete(r.accounts, id)
	return nil
}

type stubSessionStore struct {
	live map[string]string
}

func (s *stubSessionStore) Save(_ context.Context, token, userID string, _ time.Duration) error {
	s.live[token] = userID
	return nil
}

func (s *stubSessionStore) Exists(_ context.Context, token string) (bool, error) {
	_, ok := s.live[token]
	return ok, nil
}

func (s *stubSessionStore) Delete(_ context.Context, token string) error {
	delete(s.live, token)
	return nil
}

type stubProfiles struct {
	inserted []ports.Row
	err      error
}

func (s *stubProfiles) Select(context.Context, string, ports.Query) ([]ports.Row, error) {
	return nil, nil
}

func (s *stubProfiles) Insert(_ context.Context, table string, rows ...ports.Row) ([]ports.Row, error) {
	if s.err != nil {
		return nil, s.err
	}
	if table != mapper.TableProfiles {
		return nil, errors.New("unexpected table " + table)
	}
	s.inserted = append(s.inserted, rows...)
	return rows, nil
}

func (s *stubProfiles) Update(context.Context, string, ports.Row, ...ports.Filter) error {
	return nil
}

func (s *stubProfiles) Delete(context.Context, string, ...ports.Filter) error {
	return nil
}

type fixture struct {
	repo     *stubAccountRepo
	sessions *stubSessionStore
	profiles *stubProfiles
	provider *AuthProvider
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newStubAccountRepo(),
		sessions: &stubSessionStore{live: make(map[string]string)},
		profiles: &stubProfiles{},
	}
	f.provider = NewAuthProvider(f.repo, f.sessions, f.profiles, "secret", time.Hour, zerolog.Nop())
	return f
}

func TestAuthProvider_SignUp_Success(t *testing.T) {
	f := newFixture()

	user, session, err := f.provider.SignUp(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if user == nil || user.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if session == nil || session.AccessToken == "" || session.UserID != user.ID {
		t.Fatalf("unexpected session: %+v", session)
	}

	stored := f.repo.accounts[user.ID]
	if stored.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(f.profiles.inserted) != 1 || f.profiles.inserted[0][mapper.ColEmail] != "alice@example.com" {
		t.Fatalf("expected profile row, got %v", f.profiles.inserted)
	}
	if _, ok := f.sessions.live[session.AccessToken]; !ok {
		t.Fatalf("expected session tracked")
	}
}

func TestAuthProvider_SignUp_Duplicate(t *testing.T) {
	f := newFixture()

	_, _, _ = f.provider.SignUp(context.Background(), "bob@example.com", "pass")
	if _, _, err := f.provider.SignUp(context.Background(), "bob@example.com", "pass2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(f.profiles.inserted) != 1 {
		t.Fatalf("expected one profile row, got %d", len(f.profiles.inserted))
	}
}

func TestAuthProvider_SignUp_ProfileFailureRemovesAccount(t *testing.T) {
	f := newFixture()
	f.profiles.err = domain.ErrBackend

	if _, _, err := f.provider.SignUp(context.Background(), "carol@example.com", "pass123"); !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if len(f.repo.accounts) != 0 {
		t.Fatalf("expected account removed, got %v", f.repo.accounts)
	}

	f.profiles.err = nil
	if _, _, err := f.provider.SignUp(context.Background(), "carol@example.com", "pass123"); err != nil {
		t.Fatalf("retried SignUp returned error: %v", err)
	}
}

func TestAuthProvider_SignUp_Validation(t *testing.T) {
	f := newFixture()
	if _, _, err := f.provider.SignUp(context.Background(), "", "pass"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthProvider_SignIn_Success(t *testing.T) {
	f := newFixture()
	if _, _, err := f.provider.SignUp(context.Background(), "carol@example.com", "s3cret"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	user, session, err := f.provider.SignInWithPassword(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(session.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != user.ID || claims["email"] != "carol@example.com" {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthProvider_SignIn_InvalidPassword(t *testing.T) {
	f := newFixture()
	_, _, _ = f.provider.SignUp(context.Background(), "dave@example.com", "goodpass")

	if _, _, err := f.provider.SignInWithPassword(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthProvider_SignIn_UnknownEmail(t *testing.T) {
	f := newFixture()
	if _, _, err := f.provider.SignInWithPassword(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthProvider_GetSession_RevokedAfterSignOut(t *testing.T) {
	f := newFixture()
	_, session, _ := f.provider.SignUp(context.Background(), "erin@example.com", "pass")

	got, err := f.provider.GetSession(context.Background(), session.AccessToken)
	if err != nil || got == nil || got.UserID != session.UserID {
		t.Fatalf("expected live session, got %+v, %v", got, err)
	}
	if got.ExpiresAt.IsZero() {
		t.Fatalf("expected expiry decoded")
	}

	if err := f.provider.SignOut(context.Background(), session); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if got, _ := f.provider.GetSession(context.Background(), session.AccessToken); got != nil {
		t.Fatalf("expected revoked session, got %+v", got)
	}
}

func TestAuthProvider_GetSession_Expired(t *testing.T) {
	f := newFixture()
	_, session, _ := f.provider.SignUp(context.Background(), "finn@example.com", "pass")

	f.provider.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if got, _ := f.provider.GetSession(context.Background(), session.AccessToken); got != nil {
		t.Fatalf("expected expired token rejected, got %+v", got)
	}
}

func TestAuthProvider_GetSession_WrongSecret(t *testing.T) {
	f := newFixture()
	forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other"))
	f.sessions.live[forged] = "u1"

	if got, _ := f.provider.GetSession(context.Background(), forged); got != nil {
		t.Fatalf("expected forged token rejected")
	}
}

func TestAuthProvider_GetUser(t *testing.T) {
	f := newFixture()
	user, session, _ := f.provider.SignUp(context.Background(), "gil@example.com", "pass")

	got, err := f.provider.GetUser(context.Background(), session)
	if err != nil || got.ID != user.ID {
		t.Fatalf("unexpected user %+v, %v", got, err)
	}
	if _, err := f.provider.GetUser(context.Background(), nil); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
