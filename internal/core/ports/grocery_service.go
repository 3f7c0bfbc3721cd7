package ports

import (
	"context"

	"github.com/listasy/grocery-api/internal/core/domain"
)

// StoreState is a snapshot of a synchronizer.
type StoreState struct {
	Lists       []domain.GroceryList `json:"lists"`
	CurrentList *domain.GroceryList  `json:"currentList"`
	Items       []domain.GroceryItem `json:"items"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error,omitempty"`
}

// GroceryService mirrors the current user's lists and items.
type GroceryService interface {
	FetchLists(ctx context.Context) error
	CreateList(ctx context.Context, name string) (string, error)
	FetchItems(ctx context.Context, listID string) error
	AddItem(ctx context.Context, listID, product string, quantity int, unitPrice float64) (domain.GroceryItem, error)
	UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.GroceryItem, error)
	TogglePurchased(ctx context.Context, id string, purchased bool) error
	DeleteItem(ctx context.Context, id string) error
	ShareList(ctx context.Context, listID, email string) error
	RenameList(ctx context.Context, listID, newName string) error
	SetCurrentList(list *domain.GroceryList)
	List(id string) (domain.GroceryList, bool)
	State() StoreState
	Summary() domain.ListSummary
}
