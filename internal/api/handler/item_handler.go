package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ItemHandler serves the items of the authenticated workspace.
type ItemHandler struct{}

func NewItemHandler() *ItemHandler {
	return &ItemHandler{}
}

// Fetch loads the items of a list, newest first.
//
// @Summary      List items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        list_id  path      string  true  "List id"
// @Success      200      {object}  itemsResponse
// @Failure      502      {object}  errorResponse
// @Router       /v1/lists/{list_id}/items [get]
func (h *ItemHandler) Fetch(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	if err := gs.FetchItems(c.Request().Context(), c.Param("list_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, itemsResponse{
		Items:   nonNilItems(gs.State().Items),
		Summary: toSummaryResponse(gs.Summary()),
	})
}

// Add creates an item in a list. Its total price is derived.
//
// @Summary      Add an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        list_id  path      string          true  "List id"
// @Param        body     body      addItemRequest  true  "Item"
// @Success      201      {object}  domain.GroceryItem
// @Failure      422      {object}  errorResponse
// @Router       /v1/lists/{list_id}/items [post]
func (h *ItemHandler) Add(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	var req addItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := gs.AddItem(c.Request().Context(), c.Param("list_id"), req.Product, req.Quantity, req.UnitPrice)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Update applies a partial change to an item.
//
// @Summary      Update an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        item_id  path      string             true  "Item id"
// @Param        body     body      updateItemRequest  true  "Fields to change"
// @Success      200      {object}  domain.GroceryItem
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/items/{item_id} [patch]
func (h *ItemHandler) Update(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	var req updateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := gs.UpdateItem(c.Request().Context(), c.Param("item_id"), toItemPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// TogglePurchased sets an item's purchased flag.
//
// @Summary      Mark an item purchased
// @Tags         items
// @Accept       json
// @Security     BearerAuth
// @Param        item_id  path  string            true  "Item id"
// @Param        body     body  purchasedRequest  true  "Purchased flag"
// @Success      204
// @Failure      422  {object}  errorResponse
// @Router       /v1/items/{item_id}/purchased [put]
func (h *ItemHandler) TogglePurchased(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	var req purchasedRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := gs.TogglePurchased(c.Request().Context(), c.Param("item_id"), *req.Purchased); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes an item.
//
// @Summary      Delete an item
// @Tags         items
// @Security     BearerAuth
// @Param        item_id  path  string  true  "Item id"
// @Success      204
// @Failure      502  {object}  errorResponse
// @Router       /v1/items/{item_id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	gs, err := ctxGrocery(c)
	if err != nil {
		return err
	}
	if err := gs.DeleteItem(c.Request().Context(), c.Param("item_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
