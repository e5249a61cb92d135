package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront-labs/shop-admin-api/internal/domain/catalog"
)

const (
	upsertProductSQL = `INSERT INTO products (sku, name, description, category_id, supplier_id, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category_id = EXCLUDED.category_id,
			supplier_id = EXCLUDED.supplier_id,
			price = EXCLUDED.price
		RETURNING product_id`

	ensureInventorySQL = `INSERT INTO inventory (product_id, quantity) VALUES ($1, $2)
		ON CONFLICT (product_id) DO NOTHING`
)

// ImportRepository holds the bulk feed writes. Unlike the admin API paths it
// upserts by SKU, so re-running an import converges instead of failing on
// duplicates.
type ImportRepository struct {
	pool *pgxpool.Pool
}

// NewImportRepository returns an ImportRepository that uses the given pool.
func NewImportRepository(pool *pgxpool.Pool) *ImportRepository {
	return &ImportRepository{pool: pool}
}

// UpsertProduct inserts or updates one product by SKU and makes sure its
// inventory record exists. New products start at stock; existing quantities
// are left alone because placements may have moved them since the last feed.
func (r *ImportRepository) UpsertProduct(ctx context.Context, p *catalog.Product, stock int) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, upsertProductSQL,
		p.SKU, p.Name, p.Description, p.CategoryID, p.SupplierID, p.Price,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting product %q: %w", p.SKU, err)
	}

	if _, err := r.pool.Exec(ctx, ensureInventorySQL, id, stock); err != nil {
		return 0, fmt.Errorf("ensuring inventory for product %q: %w", p.SKU, err)
	}
	return id, nil
}
