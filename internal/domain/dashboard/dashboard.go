// Package dashboard aggregates store activity for the admin overview.
// All numbers are computed by the storage engine; this package only shapes
// the results.
package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
)

// Summary holds the headline figures.
type Summary struct {
	TotalSales  decimal.Decimal `json:"totalSales"`
	OrderCount  int64           `json:"orderCount"`
	ActiveUsers int64           `json:"activeUsers"`
}

// TopProduct is one row of the best-sellers ranking.
type TopProduct struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitsSold int64           `json:"unitsSold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// StockLevel is one row of the inventory overview, lowest stock first.
type StockLevel struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// Repository defines the aggregate reads backing the dashboard.
type Repository interface {
	Summary(ctx context.Context) (*Summary, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	StockLevels(ctx context.Context) ([]StockLevel, error)
}
