package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront-labs/shop-admin-api/internal/domain/listing"
)

var _ listing.Repository = (*ListingRepository)(nil)

// ListingRepository implements listing.Repository backed by PostgreSQL.
type ListingRepository struct {
	pool *pgxpool.Pool
}

// NewListingRepository returns a ListingRepository that uses the given pool.
func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

// ListTable returns up to limit rows of the named table with its column
// names. The name is interpolated into the statement, which is safe only
// because it must pass the listing whitelist first.
func (r *ListingRepository) ListTable(ctx context.Context, name string, limit int) (*listing.Result, error) {
	if !listing.Allowed(name) {
		return nil, &listing.UnknownTableError{Name: name}
	}
	if limit <= 0 || limit > listing.DefaultLimit {
		limit = listing.DefaultLimit
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT $1", name), limit)
	if err != nil {
		return nil, fmt.Errorf("listing table %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	result := &listing.Result{
		Table:   name,
		Columns: columns,
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("reading row of %s: %w", name, err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating table %s: %w", name, err)
	}

	return result, nil
}
