// Package selfhosted implements the identity provider used when the service
// runs against its own database instead of the hosted backend.
package selfhosted

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/mapper"
	"github.com/listasy/grocery-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// AuthProvider issues HS256 access tokens for password accounts and tracks
// them in a session store so sign-out revokes them.
type AuthProvider struct {
	accounts  ports.AccountRepository
	sessions  ports.SessionStore
	profiles  ports.DataStore
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewAuthProvider wires the provider. profiles is the trusted store the
// provider publishes the email lookup row to on sign-up.
func NewAuthProvider(accounts ports.AccountRepository, sessions ports.SessionStore, profiles ports.DataStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthProvider {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthProvider{
		accounts:  accounts,
		sessions:  sessions,
		profiles:  profiles,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
		log:       log.With().Str("component", "auth").Logger(),
	}
}

func (p *AuthProvider) SignInWithPassword(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	account, err := p.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := p.issue(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return account.User(), session, nil
}

// SignUp creates the account, publishes its profile row and signs it in.
// Self-hosted accounts need no email confirmation.
func (p *AuthProvider) SignUp(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := p.now().UTC()
	account, err := p.accounts.Create(ctx, &domain.Account{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, nil, err
	}

	if _, err := p.profiles.Insert(ctx, mapper.TableProfiles, mapper.ProfileRow(account.ID, account.Email, account.Name)); err != nil {
		p.log.Error().Err(err).Str("user_id", account.ID).Msg("profile publish failed")
		if delErr := p.accounts.Delete(ctx, account.ID); delErr != nil {
			p.log.Error().Err(delErr).Str("user_id", account.ID).Msg("account rollback failed")
		}
		return nil, nil, fmt.Errorf("publish profile: %w", err)
	}

	session, err := p.issue(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return account.User(), session, nil
}

func (p *AuthProvider) SignOut(ctx context.Context, session *domain.Session) error {
	if session == nil || session.AccessToken == "" {
		return nil
	}
	return p.sessions.Delete(ctx, session.AccessToken)
}

// GetSession verifies accessToken and checks it was not revoked. Invalid,
// expired and revoked tokens yield a nil session.
func (p *AuthProvider) GetSession(ctx context.Context, accessToken string) (*domain.Session, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(p.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil {
		p.log.Debug().Err(err).Msg("rejected access token")
		return nil, nil
	}

	live, err := p.sessions.Exists(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, nil
	}

	sub, _ := claims.GetSubject()
	exp, _ := claims.GetExpirationTime()
	session := &domain.Session{AccessToken: accessToken, UserID: sub}
	if exp != nil {
		session.ExpiresAt = exp.Time.UTC()
	}
	return session, nil
}

func (p *AuthProvider) GetUser(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if session == nil || session.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	account, err := p.accounts.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return account.User(), nil
}

func (p *AuthProvider) issue(ctx context.Context, account *domain.Account) (*domain.Session, error) {
	now := p.now()
	exp := now.Add(p.tokenTTL)
	claims := jwt.MapClaims{
		"jti":   uuid.NewString(),
		"sub":   account.ID,
		"email": account.Email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.jwtSecret))
	if err != nil {
		return nil, err
	}
	if err := p.sessions.Save(ctx, token, account.ID, p.tokenTTL); err != nil {
		return nil, err
	}
	return &domain.Session{
		AccessToken: token,
		UserID:      account.ID,
		ExpiresAt:   time.Unix(exp.Unix(), 0).UTC(),
	}, nil
}
