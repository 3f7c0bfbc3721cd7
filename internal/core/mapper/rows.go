package mapper

import (
	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/ports"
)

// ListFromRow translates a grocery_lists row.
func ListFromRow(r ports.Row) domain.GroceryList {
	return domain.GroceryList{
		ID:         str(r[ColID]),
		Name:       str(r[ColName]),
		CreatedBy:  str(r[ColCreatedBy]),
		CreatedAt:  timestamp(r[ColCreatedAt]),
		UpdatedAt:  timestamp(r[ColUpdatedAt]),
		Shared:     boolean(r[ColShared]),
		SharedWith: []string{},
	}
}

// EmbeddedList extracts the list embedded under the grocery_lists key of a
// shared_lists row. ok is false when the embed is missing or null.
func EmbeddedList(r ports.Row) (domain.GroceryList, bool) {
	var embedded ports.Row
	switch x := r[TableLists].(type) {
	case ports.Row:
		embedded = x
	case map[string]any:
		embedded = ports.Row(x)
	default:
		return domain.GroceryList{}, false
	}
	l := ListFromRow(embedded)
	return l, l.ID != ""
}

// NewListRow builds the insert row for a list owned by ownerID.
func NewListRow(name, ownerID string) ports.Row {
	return ports.Row{
		ColName:      name,
		ColCreatedBy: ownerID,
	}
}

// ListPatchRow translates a list patch into storage columns.
func ListPatchRow(p domain.ListPatch) ports.Row {
	row := ports.Row{}
	if p.Name != nil {
		row[ColName] = *p.Name
	}
	if p.Shared != nil {
		row[ColShared] = *p.Shared
	}
	return row
}

// ItemFromRow translates a grocery_items row.
func ItemFromRow(r ports.Row) domain.GroceryItem {
	return domain.GroceryItem{
		ID:         str(r[ColID]),
		ListID:     str(r[ColListID]),
		Product:    str(r[ColProduct]),
		Quantity:   integer(r[ColQuantity]),
		UnitPrice:  num(r[ColUnitPrice]),
		TotalPrice: num(r[ColTotalPrice]),
		Purchased:  boolean(r[ColPurchased]),
		CreatedAt:  timestamp(r[ColCreatedAt]),
		UpdatedAt:  timestamp(r[ColUpdatedAt]),
	}
}

// NewItemRow builds the insert row for an item.
func NewItemRow(listID, product string, quantity int, unitPrice, totalPrice float64) ports.Row {
	return ports.Row{
		ColListID:     listID,
		ColProduct:    product,
		ColQuantity:   quantity,
		ColUnitPrice:  unitPrice,
		ColTotalPrice: totalPrice,
		ColPurchased:  false,
	}
}

// ItemPatchRow translates an item patch into storage columns.
func ItemPatchRow(p domain.ItemPatch) ports.Row {
	row := ports.Row{}
	if p.Product != nil {
		row[ColProduct] = *p.Product
	}
	if p.Quantity != nil {
		row[ColQuantity] = *p.Quantity
	}
	if p.UnitPrice != nil {
		row[ColUnitPrice] = *p.UnitPrice
	}
	if p.TotalPrice != nil {
		row[ColTotalPrice] = *p.TotalPrice
	}
	if p.Purchased != nil {
		row[ColPurchased] = *p.Purchased
	}
	return row
}

// ShareRow builds the insert row granting userID access to listID.
func ShareRow(listID, userID string) ports.Row {
	return ports.Row{
		ColListID:     listID,
		ColSharedWith: userID,
	}
}

// ShareFromRow translates a shared_lists row.
func ShareFromRow(r ports.Row) domain.ShareRecord {
	return domain.ShareRecord{
		ListID:     str(r[ColListID]),
		SharedWith: str(r[ColSharedWith]),
		CreatedAt:  timestamp(r[ColCreatedAt]),
	}
}

// ProfileRow builds the profile row published for an account.
func ProfileRow(id, email string, name *string) ports.Row {
	row := ports.Row{ColID: id, ColEmail: email}
	if name != nil {
		row[ColName] = *name
	}
	return row
}

// ProfileFromRow translates a profiles row.
func ProfileFromRow(r ports.Row) domain.Profile {
	return domain.Profile{
		ID:    str(r[ColID]),
		Email: str(r[ColEmail]),
	}
}

// UserFromMetadata builds a User from provider identity fields; name is
// read from the provider's free-form metadata.
func UserFromMetadata(id, email string, metadata map[string]any) *domain.User {
	return &domain.User{ID: id, Email: email, Name: optStr(metadata[ColName])}
}
