package ports

import (
	"context"

	"github.com/listasy/grocery-api/internal/core/domain"
)

// Row is a storage record keyed by column name.
type Row map[string]any

// FilterOp is the comparison applied by a Filter.
type FilterOp string

const (
	OpEq FilterOp = "eq"
	OpIn FilterOp = "in"
)

// Filter is a predicate on a single column. For OpIn, Value is a []string.
type Filter struct {
	Column string
	Op     FilterOp
	Value  any
}

// Eq matches rows whose column equals value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// In matches rows whose column is one of values.
func In(column string, values []string) Filter {
	return Filter{Column: column, Op: OpIn, Value: values}
}

// Order sorts a selection by one column.
type Order struct {
	Column     string
	Descending bool
}

// Embed attaches, under key Table, the row of Table whose id equals this
// row's Column. The key holds nil when no such row is visible.
type Embed struct {
	Table  string
	Column string
}

// Query describes a selection. Zero Limit means no limit.
type Query struct {
	Filters []Filter
	Order   *Order
	Embed   *Embed
	Limit   int
}

// DataStore is the generic table API of the backend.
type DataStore interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	// Insert stores rows and returns them as persisted (ids, timestamps).
	Insert(ctx context.Context, table string, rows ...Row) ([]Row, error)
	Update(ctx context.Context, table string, patch Row, filters ...Filter) error
	Delete(ctx context.Context, table string, filters ...Filter) error
}

// DataStoreProvider hands out a DataStore acting as the session's user.
type DataStoreProvider interface {
	ForSession(session *domain.Session) DataStore
}
