package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/listasy/grocery-api/internal/core/domain"
)

// ListHandler serves the grocery lists of the authenticated workspace.
type ListHandler struct{}

func NewListHandler() *ListHandler {
	return &ListHandler{}
}

// Fetch reloads the caller's owned and shared lists.
//
// @Summary      List grocery lists
// @Tags         lists
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listsResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/lists [get]
func (h *ListHandler) Fetch(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	if err := gs.FetchLists(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listsResponse{Lists: nonNilLists(gs.State().Lists)})
}

// Create adds a list owned by the caller and selects it.
//
// @Summary      Create a grocery list
// @Tags         lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListRequest  true  "List name"
// @Success      201   {object}  createListResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/lists [post]
func (h *ListHandler) Create(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	var req createListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := gs.CreateList(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}

	resp := createListResponse{ID: id}
	if l, ok := gs.List(id); ok {
		resp.List = &l
	}
	return c.JSON(http.StatusCreated, resp)
}

// Rename changes a list's name.
//
// @Summary      Rename a grocery list
// @Tags         lists
// @Accept       json
// @Security     BearerAuth
// @Param        list_id  path  string             true  "List id"
// @Param        body     body  renameListRequest  true  "New name"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/lists/{list_id} [patch]
func (h *ListHandler) Rename(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	var req renameListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := gs.RenameList(c.Request().Context(), c.Param("list_id"), req.Name); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Share grants the user registered under email access to a list.
//
// @Summary      Share a grocery list
// @Tags         lists
// @Accept       json
// @Security     BearerAuth
// @Param        list_id  path  string            true  "List id"
// @Param        body     body  shareListRequest  true  "Recipient email"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/lists/{list_id}/share [post]
func (h *ListHandler) Share(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	var req shareListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := gs.ShareList(c.Request().Context(), c.Param("list_id"), req.Email); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Select marks a list as the current one. Lists not yet loaded trigger a
// fetch before the lookup.
//
// @Summary      Select the current list
// @Tags         lists
// @Produce      json
// @Security     BearerAuth
// @Param        list_id  path      string  true  "List id"
// @Success      200      {object}  domain.GroceryList
// @Failure      404      {object}  errorResponse
// @Router       /v1/lists/{list_id}/current [put]
func (h *ListHandler) Select(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	id := c.Param("list_id")

	l, ok := gs.List(id)
	if !ok {
		if err := gs.FetchLists(c.Request().Context()); err != nil {
			return err
		}
		if l, ok = gs.List(id); !ok {
			return domain.ErrListNotFound
		}
	}
	gs.SetCurrentList(&l)
	return c.JSON(http.StatusOK, l)
}

// Clear unsets the current list.
//
// @Summary      Clear the current list
// @Tags         lists
// @Security     BearerAuth
// @Success      204
// @Router       /v1/lists/current [delete]
func (h *ListHandler) Clear(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	gs.SetCurrentList(nil)
	return c.NoContent(http.StatusNoContent)
}

// Summary reloads a list's items and returns their totals.
//
// @Summary      Summarize a grocery list
// @Tags         lists
// @Produce      json
// @Security     BearerAuth
// @Param        list_id  path      string  true  "List id"
// @Success      200      {object}  summaryResponse
// @Failure      502      {object}  errorResponse
// @Router       /v1/lists/{list_id}/summary [get]
func (h *ListHandler) Summary(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	if err := gs.FetchItems(c.Request().Context(), c.Param("list_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummaryResponse(gs.Summary()))
}

// State returns the whole workspace snapshot.
//
// @Summary      Workspace state
// @Tags         state
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  stateResponse
// @Router       /v1/state [get]
func (h *ListHandler) State(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	resp := stateResponse{Auth: ws.Session.State()}
	if ws.Grocery != nil {
		resp.Grocery = ws.Grocery.State()
	}
	return c.JSON(http.StatusOK, resp)
}
