package domain

import (
	"math"
	"time"
)

// GroceryItem is a single product entry within a list.
// TotalPrice is derived: Quantity * UnitPrice.
type GroceryItem struct {
	ID         string    `json:"id"`
	ListID     string    `json:"listId"`
	Product    string    `json:"product"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unitPrice"`
	TotalPrice float64   `json:"totalPrice"`
	Purchased  bool      `json:"purchased"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CalculateTotalPrice returns the derived total for an item.
func CalculateTotalPrice(quantity int, unitPrice float64) float64 {
	return float64(quantity) * unitPrice
}

// ItemPatch carries a partial item update; nil fields are left untouched.
type ItemPatch struct {
	Product    *string
	Quantity   *int
	UnitPrice  *float64
	TotalPrice *float64
	Purchased  *bool
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Product == nil && p.Quantity == nil && p.UnitPrice == nil &&
		p.TotalPrice == nil && p.Purchased == nil
}

// ChangesPrice reports whether the patch touches an input of TotalPrice.
func (p ItemPatch) ChangesPrice() bool {
	return p.Quantity != nil || p.UnitPrice != nil
}

// Apply returns a copy of item with the patch applied.
func (p ItemPatch) Apply(item GroceryItem) GroceryItem {
	if p.Product != nil {
		item.Product = *p.Product
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		item.UnitPrice = *p.UnitPrice
	}
	if p.TotalPrice != nil {
		item.TotalPrice = *p.TotalPrice
	}
	if p.Purchased != nil {
		item.Purchased = *p.Purchased
	}
	return item
}

// Derive returns a patch whose TotalPrice is consistent with item after the
// patch is applied. A caller-supplied TotalPrice is discarded.
func (p ItemPatch) Derive(item GroceryItem) ItemPatch {
	p.TotalPrice = nil
	if !p.ChangesPrice() {
		return p
	}
	merged := p.Apply(item)
	total := CalculateTotalPrice(merged.Quantity, merged.UnitPrice)
	p.TotalPrice = &total
	return p
}

// ListSummary aggregates the items of a list.
type ListSummary struct {
	TotalItems      int     `json:"totalItems"`
	PurchasedItems  int     `json:"purchasedItems"`
	TotalCost       float64 `json:"totalCost"`
	PurchasedCost   float64 `json:"purchasedCost"`
	PercentComplete int     `json:"percentComplete"`
}

// Summarize computes the summary of items.
func Summarize(items []GroceryItem) ListSummary {
	var s ListSummary
	for _, it := range items {
		s.TotalItems++
		s.TotalCost += it.TotalPrice
		if it.Purchased {
			s.PurchasedItems++
			s.PurchasedCost += it.TotalPrice
		}
	}
	if s.TotalItems > 0 {
		s.PercentComplete = int(math.Round(float64(s.PurchasedItems) / float64(s.TotalItems) * 100))
	}
	return s
}
