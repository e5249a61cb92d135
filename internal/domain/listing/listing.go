// Package listing serves the raw table views of the admin UI: any
// whitelisted table, first N rows, columns discovered at query time.
package listing

import (
	"context"
	"fmt"
)

// DefaultLimit caps a table view when the caller does not ask for less.
const DefaultLimit = 100

// tables is the fixed set of viewable tables. Listing is the only place
// where a table name reaches SQL text, so the whitelist doubles as the
// injection guard.
var tables = map[string]struct{}{
	"users":             {},
	"customer_profiles": {},
	"categories":        {},
	"suppliers":         {},
	"products":          {},
	"inventory":         {},
	"orders":            {},
	"order_items":       {},
	"payments":          {},
	"reviews":           {},
}

// Names returns the viewable table names in a stable order.
func Names() []string {
	return []string{
		"users", "customer_profiles", "categories", "suppliers",
		"products", "inventory", "orders", "order_items", "payments", "reviews",
	}
}

// UnknownTableError indicates a request for a table outside the whitelist.
type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table %q", e.Name)
}

// Allowed reports whether name may be listed.
func Allowed(name string) bool {
	_, ok := tables[name]
	return ok
}

// Result is one table view: column names plus row values in column order.
// Values keep whatever Go types the storage driver produced; the transport
// layer is responsible for encoding them.
type Result struct {
	Table   string
	Columns []string
	Rows    [][]any
}

// Repository reads raw table contents.
type Repository interface {
	// ListTable returns up to limit rows of the named table. It returns an
	// UnknownTableError when the name is not whitelisted.
	ListTable(ctx context.Context, name string, limit int) (*Result, error)
}
