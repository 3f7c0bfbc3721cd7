package hosted

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/mapper"
)

// Auth implements ports.AuthProvider against the hosted auth API.
type Auth struct {
	client *Client
	now    func() time.Time
}

func NewAuth(client *Client) *Auth {
	return &Auth{client: client, now: time.Now}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userBody struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u userBody) user() *domain.User {
	if u.ID == "" {
		return nil
	}
	return mapper.UserFromMetadata(u.ID, u.Email, u.UserMetadata)
}

type tokenBody struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	User         *userBody `json:"user"`
}

func (t tokenBody) session(now time.Time) *domain.Session {
	if t.AccessToken == "" {
		return nil
	}
	s := &domain.Session{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
	if t.User != nil {
		s.UserID = t.User.ID
	}
	switch {
	case t.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(t.ExpiresAt, 0).UTC()
	case t.ExpiresIn > 0:
		s.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second).UTC()
	}
	return s
}

func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	var out tokenBody
	err := a.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentials{Email: email, Password: password},
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	if out.User == nil || out.AccessToken == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}
	return out.User.user(), out.session(a.now()), nil
}

// SignUp registers an identity. When the project requires email
// confirmation the API answers with the bare user and no session.
func (a *Auth) SignUp(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	var out struct {
		tokenBody
		userBody
	}
	err := a.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   credentials{Email: email, Password: password},
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	if out.tokenBody.User != nil {
		return out.tokenBody.User.user(), out.session(a.now()), nil
	}
	return out.userBody.user(), nil, nil
}

func (a *Auth) SignOut(ctx context.Context, session *domain.Session) error {
	if session == nil || session.AccessToken == "" {
		return nil
	}
	return a.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  session.AccessToken,
	}, nil)
}

// GetSession reads subject and expiry from the access token. The signature
// is checked by the auth API on the following GetUser call.
func (a *Auth) GetSession(_ context.Context, accessToken string) (*domain.Session, error) {
	if accessToken == "" {
		return nil, nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, nil
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, nil
	}
	s := &domain.Session{AccessToken: accessToken, UserID: sub}
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		s.ExpiresAt = exp.Time.UTC()
	}
	if !s.Valid(a.now()) {
		return nil, nil
	}
	return s, nil
}

func (a *Auth) GetUser(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if session == nil || session.AccessToken == "" {
		return nil, domain.ErrUnauthenticated
	}
	var out userBody
	if err := a.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		token:  session.AccessToken,
	}, &out); err != nil {
		return nil, err
	}
	return out.user(), nil
}
