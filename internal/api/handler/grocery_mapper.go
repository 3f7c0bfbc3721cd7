package handler

import (
	"github.com/listasy/grocery-api/internal/core/domain"
)

// --- Request → Service input ---

func toItemPatch(req updateItemRequest) domain.ItemPatch {
	return domain.ItemPatch{
		Product:    req.Product,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		TotalPrice: req.TotalPrice,
		Purchased:  req.Purchased,
	}
}

// --- Service output → Response ---

func toSummaryResponse(s domain.ListSummary) summaryResponse {
	return summaryResponse{
		ListSummary:            s,
		TotalCostFormatted:     domain.FormatCurrency(s.TotalCost),
		PurchasedCostFormatted: domain.FormatCurrency(s.PurchasedCost),
	}
}

// nonNilItems keeps empty collections rendering as [] instead of null.
func nonNilItems(items []domain.GroceryItem) []domain.GroceryItem {
	if items == nil {
		return []domain.GroceryItem{}
	}
	return items
}

func nonNilLists(lists []domain.GroceryList) []domain.GroceryList {
	if lists == nil {
		return []domain.GroceryList{}
	}
	return lists
}
