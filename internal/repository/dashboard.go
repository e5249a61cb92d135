package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/storefront-labs/shop-admin-api/internal/domain/dashboard"
)

const (
	summarySQL = `SELECT
			COALESCE((SELECT SUM(total_amount) FROM orders), 0),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM users WHERE is_active)`

	topProductsSQL = `SELECT p.product_id, p.name,
			SUM(oi.quantity)::bigint AS units_sold,
			SUM(oi.quantity * oi.item_price) AS revenue
		FROM order_items oi
		JOIN products p ON p.product_id = oi.product_id
		GROUP BY p.product_id, p.name
		ORDER BY units_sold DESC, p.product_id
		LIMIT $1`

	stockLevelsSQL = `SELECT p.product_id, p.name, i.quantity
		FROM inventory i
		JOIN products p ON p.product_id = i.product_id
		ORDER BY i.quantity, p.product_id`
)

var _ dashboard.Repository = (*DashboardRepository)(nil)

// DashboardRepository implements dashboard.Repository backed by PostgreSQL.
// Every figure is a single aggregate query.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository returns a DashboardRepository that uses the given pool.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// Summary returns the headline sales, order, and active-user figures.
func (r *DashboardRepository) Summary(ctx context.Context) (*dashboard.Summary, error) {
	var s dashboard.Summary
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, summarySQL).Scan(&total, &s.OrderCount, &s.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("loading dashboard summary: %w", err)
	}
	s.TotalSales = total
	return &s, nil
}

// TopProducts returns the best-selling products by units sold.
func (r *DashboardRepository) TopProducts(ctx context.Context, limit int) ([]dashboard.TopProduct, error) {
	rows, err := r.pool.Query(ctx, topProductsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("loading top products: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (dashboard.TopProduct, error) {
		var tp dashboard.TopProduct
		err := row.Scan(&tp.ProductID, &tp.Name, &tp.UnitsSold, &tp.Revenue)
		return tp, err
	})
}

// StockLevels returns quantity on hand per product, lowest first.
func (r *DashboardRepository) StockLevels(ctx context.Context) ([]dashboard.StockLevel, error) {
	rows, err := r.pool.Query(ctx, stockLevelsSQL)
	if err != nil {
		return nil, fmt.Errorf("loading stock levels: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (dashboard.StockLevel, error) {
		var sl dashboard.StockLevel
		err := row.Scan(&sl.ProductID, &sl.Name, &sl.Quantity)
		return sl, err
	})
}
