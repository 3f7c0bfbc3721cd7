package domain

import "time"

// User is the identity projection mirrored from the auth provider.
type User struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// Account is the self-hosted credential record behind a User.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// User returns the public identity of the account.
func (a *Account) User() *User {
	return &User{ID: a.ID, Email: a.Email, Name: a.Name}
}

// Session is a provider-issued proof of authentication.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	UserID       string    `json:"userId"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Valid reports whether the session carries a token that has not expired at now.
// A zero ExpiresAt means the provider did not report an expiry.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// Profile is the public lookup row used to resolve users by email.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
