package ports

import (
	"context"
	"time"

	"github.com/listasy/grocery-api/internal/core/domain"
)

// AuthProvider is the external identity provider.
type AuthProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*domain.User, *domain.Session, error)
	// SignUp creates an identity. The returned session is nil when the
	// provider requires email confirmation before issuing one.
	SignUp(ctx context.Context, email, password string) (*domain.User, *domain.Session, error)
	SignOut(ctx context.Context, session *domain.Session) error
	// GetSession returns the live session for accessToken, or nil when the
	// token is unknown or expired.
	GetSession(ctx context.Context, accessToken string) (*domain.Session, error)
	GetUser(ctx context.Context, session *domain.Session) (*domain.User, error)
}

// AccountRepository persists self-hosted credentials.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
}

// SessionStore tracks issued self-hosted access tokens.
type SessionStore interface {
	Save(ctx context.Context, accessToken, userID string, ttl time.Duration) error
	Exists(ctx context.Context, accessToken string) (bool, error)
	Delete(ctx context.Context, accessToken string) error
}
