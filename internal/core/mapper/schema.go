// Package mapper is the storage boundary: it is the only place that knows
// table and column names, and it translates rows into domain values and
// domain changes into rows in both directions.
package mapper

const (
	TableLists    = "grocery_lists"
	TableItems    = "grocery_items"
	TableShares   = "shared_lists"
	TableProfiles = "profiles"
)

const (
	ColID         = "id"
	ColCreatedAt  = "created_at"
	ColUpdatedAt  = "updated_at"
	ColName       = "name"
	ColCreatedBy  = "created_by"
	ColShared     = "shared"
	ColListID     = "list_id"
	ColProduct    = "product"
	ColQuantity   = "quantity"
	ColUnitPrice  = "unit_price"
	ColTotalPrice = "total_price"
	ColPurchased  = "purchased"
	ColSharedWith = "shared_with"
	ColEmail      = "email"
)
