package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/listasy/grocery-api/internal/api/metrics"
	"github.com/listasy/grocery-api/internal/api/middleware"
	"github.com/listasy/grocery-api/internal/core/ports"
)

type AuthHandler struct {
	registry ports.WorkspaceRegistry
	log      zerolog.Logger
}

func NewAuthHandler(registry ports.WorkspaceRegistry, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{registry: registry, log: log.With().Str("component", "auth_handler").Logger()}
}

// SignIn authenticates with email and password and opens a workspace.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ws, err := h.registry.SignIn(c.Request().Context(), req.Email, req.Password)
	metrics.ObserveAuth("sign_in", err)
	if err != nil {
		return err
	}

	state := ws.Session.State()
	return c.JSON(http.StatusOK, sessionResponse{User: state.User, Session: state.Session})
}

// SignUp registers a new account. When the provider requires email
// confirmation no session is issued and the response is 202.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Account credentials"
// @Success      201   {object}  sessionResponse
// @Success      202   {object}  sessionResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ws, err := h.registry.SignUp(c.Request().Context(), req.Email, req.Password)
	metrics.ObserveAuth("sign_up", err)
	if err != nil {
		return err
	}

	state := ws.Session.State()
	if ws.Token == "" {
		return c.JSON(http.StatusAccepted, sessionResponse{User: state.User, ConfirmationRequired: true})
	}
	return c.JSON(http.StatusCreated, sessionResponse{User: state.User, Session: state.Session})
}

// SignOut ends the session. Local state is always discarded; a provider
// failure is logged and the response is still 204.
//
// @Summary      Sign out
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /auth/sign-out [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	token, _ := c.Get(middleware.KeyToken).(string)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}

	if err := h.registry.SignOut(c.Request().Context(), token); err != nil {
		h.log.Warn().Err(err).Msg("sign out failed at provider")
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the identity held by the current workspace.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.SessionState
// @Failure      401  {object}  errorResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ws.Session.State())
}
