package handler

import (
	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type sessionResponse struct {
	User                 *domain.User    `json:"user"`
	Session              *domain.Session `json:"session"`
	ConfirmationRequired bool            `json:"confirmationRequired,omitempty"`
}

// --- Lists ---

type createListRequest struct {
	Name string `json:"name" validate:"required"`
}

type createListResponse struct {
	ID   string              `json:"id"`
	List *domain.GroceryList `json:"list,omitempty"`
}

type renameListRequest struct {
	Name string `json:"name" validate:"required"`
}

type shareListRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type listsResponse struct {
	Lists []domain.GroceryList `json:"lists"`
}

type summaryResponse struct {
	domain.ListSummary
	TotalCostFormatted     string `json:"totalCostFormatted"`
	PurchasedCostFormatted string `json:"purchasedCostFormatted"`
}

// --- Items ---

type addItemRequest struct {
	Product   string  `json:"product"   validate:"required"`
	Quantity  int     `json:"quantity"  validate:"gte=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

// updateItemRequest fields are optional; totalPrice is accepted but derived
// server-side from quantity and unitPrice.
type updateItemRequest struct {
	Product    *string  `json:"product"    validate:"omitempty,min=1"`
	Quantity   *int     `json:"quantity"   validate:"omitempty,gte=0"`
	UnitPrice  *float64 `json:"unitPrice"  validate:"omitempty,gte=0"`
	TotalPrice *float64 `json:"totalPrice" validate:"omitempty,gte=0"`
	Purchased  *bool    `json:"purchased"`
}

type purchasedRequest struct {
	Purchased *bool `json:"purchased" validate:"required"`
}

type itemsResponse struct {
	Items   []domain.GroceryItem `json:"items"`
	Summary summaryResponse      `json:"summary"`
}

// stateResponse is the full snapshot of a workspace.
type stateResponse struct {
	Auth    ports.SessionState `json:"auth"`
	Grocery ports.StoreState   `json:"grocery"`
}
