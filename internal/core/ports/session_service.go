package ports

import (
	"context"

	"github.com/listasy/grocery-api/internal/core/domain"
)

// SessionState is a snapshot of a session manager.
type SessionState struct {
	User    *domain.User    `json:"user"`
	Session *domain.Session `json:"session"`
	Loading bool            `json:"loading"`
}

// SessionService owns the authenticated identity of one client.
type SessionService interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	// GetUser rehydrates identity from an existing access token.
	GetUser(ctx context.Context, accessToken string) error
	UserID() (string, bool)
	Session() *domain.Session
	State() SessionState
}

// Workspace is the state owned by one authenticated client.
type Workspace struct {
	Token   string
	Session SessionService
	Grocery GroceryService
}

// WorkspaceRegistry creates, resolves and tears down workspaces.
type WorkspaceRegistry interface {
	SignIn(ctx context.Context, email, password string) (*Workspace, error)
	// SignUp returns a workspace with an empty Token when the provider did
	// not issue a session yet.
	SignUp(ctx context.Context, email, password string) (*Workspace, error)
	Resolve(ctx context.Context, accessToken string) (*Workspace, error)
	SignOut(ctx context.Context, accessToken string) error
}
