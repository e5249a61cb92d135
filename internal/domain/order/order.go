// Package order implements order placement: number generation, total
// calculation, and the transactional write sequence that records an order,
// its line item, and the matching inventory decrement.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a recorded customer purchase.
type Order struct {
	ID          int64
	UserID      int64
	OrderNumber string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

// Item is a single product-quantity-price line belonging to one order.
// ItemPrice is the unit price snapshot taken at order time; it is never
// re-read from the catalog afterwards.
type Item struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	ItemPrice decimal.Decimal
}

// Confirmation is returned to the caller after a successful placement.
type Confirmation struct {
	OrderID     int64           `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Total       decimal.Decimal `json:"total"`
}

// InvalidQuantityError indicates a non-positive order quantity.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0, got %d", e.Quantity)
}

// ReferenceError indicates an insert referenced a missing row, surfaced by
// the storage engine as a foreign key violation.
type ReferenceError struct {
	Relation string
	ID       int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Relation, e.ID)
}

// Writer is the set of writes available inside a placement transaction.
// All three succeed or none are persisted.
type Writer interface {
	// InsertOrder persists the order row and returns the generated order id.
	// The id comes back from the insert statement itself, so there is no
	// separate last-generated-id read to race against other sessions.
	InsertOrder(ctx context.Context, o *Order) (int64, error)

	// InsertItem persists one order line item.
	InsertItem(ctx context.Context, item *Item) error

	// AdjustInventory applies the (negative) delta to the product's
	// quantity on hand in a single statement. The arithmetic runs in the
	// storage engine, so concurrent placements cannot lose updates.
	AdjustInventory(ctx context.Context, productID int64, delta int) error
}

// Repository runs a placement transaction. The callback's writes are
// committed together or rolled back together.
type Repository interface {
	InTx(ctx context.Context, fn func(w Writer) error) error
}

// ListRepository reads recorded orders, for the admin table views.
type ListRepository interface {
	List(ctx context.Context, limit int) ([]Order, error)
	ListItems(ctx context.Context, orderID int64) ([]Item, error)
}
