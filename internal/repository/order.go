package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront-labs/shop-admin-api/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (user_id, order_number, total_amount)
		VALUES ($1, $2, $3) RETURNING order_id, created_at`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, item_price)
		VALUES ($1, $2, $3, $4)`

	adjustInventorySQL = `UPDATE inventory SET quantity = quantity + $1 WHERE product_id = $2`

	listOrdersSQL = `SELECT order_id, user_id, order_number, total_amount, created_at
		FROM orders ORDER BY order_id DESC LIMIT $1`

	listOrderItemsSQL = `SELECT order_item_id, order_id, product_id, quantity, item_price
		FROM order_items WHERE order_id = $1 ORDER BY order_item_id`
)

var (
	_ order.Repository     = (*OrderRepository)(nil)
	_ order.ListRepository = (*OrderRepository)(nil)
)

// OrderRepository implements the order placement transaction and order
// reads backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// InTx runs a placement transaction. The callback's writes are committed
// together or rolled back together.
func (r *OrderRepository) InTx(ctx context.Context, fn func(w order.Writer) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&orderWriter{tx: tx})
	})
}

// List returns the most recent orders, newest first.
func (r *OrderRepository) List(ctx context.Context, limit int) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListItems returns the line items of one order.
func (r *OrderRepository) ListItems(ctx context.Context, orderID int64) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx, listOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing items of order %d: %w", orderID, err)
	}
	return pgx.CollectRows(rows, scanOrderItem)
}

// orderWriter issues placement writes on one transaction.
type orderWriter struct {
	tx pgx.Tx
}

var _ order.Writer = (*orderWriter)(nil)

// InsertOrder persists the order row. The generated id comes back from the
// insert statement itself (RETURNING), scoped to this transaction.
func (w *orderWriter) InsertOrder(ctx context.Context, o *order.Order) (int64, error) {
	err := w.tx.QueryRow(ctx, insertOrderSQL, o.UserID, o.OrderNumber, o.TotalAmount).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		if constraint, ok := foreignKeyTarget(err); ok && constraint == "orders_user_id_fkey" {
			return 0, &order.ReferenceError{Relation: "user", ID: o.UserID}
		}
		return 0, fmt.Errorf("inserting order %q: %w", o.OrderNumber, err)
	}
	return o.ID, nil
}

func (w *orderWriter) InsertItem(ctx context.Context, item *order.Item) error {
	_, err := w.tx.Exec(ctx, insertOrderItemSQL,
		item.OrderID, item.ProductID, item.Quantity, item.ItemPrice,
	)
	if err != nil {
		if constraint, ok := foreignKeyTarget(err); ok && constraint == "order_items_product_id_fkey" {
			return &order.ReferenceError{Relation: "product", ID: item.ProductID}
		}
		return fmt.Errorf("inserting item for order %d: %w", item.OrderID, err)
	}
	return nil
}

// AdjustInventory applies delta to the product's quantity on hand in one
// statement, so concurrent placements cannot lose updates. The quantity is
// allowed to go negative.
func (w *orderWriter) AdjustInventory(ctx context.Context, productID int64, delta int) error {
	tag, err := w.tx.Exec(ctx, adjustInventorySQL, delta, productID)
	if err != nil {
		return fmt.Errorf("adjusting inventory for product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return &order.ReferenceError{Relation: "inventory record", ID: productID}
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.TotalAmount, &o.CreatedAt)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var it order.Item
	err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.ItemPrice)
	return it, err
}
