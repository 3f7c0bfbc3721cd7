package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/listasy/grocery-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	KeyWorkspace = "workspace"
	KeyToken     = "access_token"
	KeyUserID    = "user_id"
)

// Auth resolves the bearer token to its workspace and injects it into the
// context. When jwtSecret is set, the token's HS256 signature is checked
// before the registry is consulted.
func Auth(registry ports.WorkspaceRegistry, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c.Request())
			if err != nil {
				return err
			}

			if jwtSecret != "" {
				tkn, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
					return []byte(jwtSecret), nil
				}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
				if err != nil || !tkn.Valid {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
			}

			ws, err := registry.Resolve(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(KeyWorkspace, ws)
			c.Set(KeyToken, token)
			if uid, ok := ws.Session.UserID(); ok {
				c.Set(KeyUserID, uid)
			}

			return next(c)
		}
	}
}

// BearerToken extracts the access token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
