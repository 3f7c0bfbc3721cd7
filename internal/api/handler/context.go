package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/listasy/grocery-api/internal/api/middleware"
	"github.com/listasy/grocery-api/internal/core/ports"
)

// ctxWorkspace extracts the workspace injected by the Auth middleware and
// fails fast when the route was mounted without it or the workspace has no
// synchronizer yet (sign-up awaiting confirmation).
func ctxWorkspace(c echo.Context) (*ports.Workspace, error) {
	ws, _ := c.Get(middleware.KeyWorkspace).(*ports.Workspace)
	if ws == nil || ws.Session == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return ws, nil
}

func ctxGrocery(c echo.Context) (ports.GroceryService, error) {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return nil, err
	}
	if ws.Grocery == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "workspace has no active session")
	}
	return ws.Grocery, nil
}

// bindAndValidate decodes the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
