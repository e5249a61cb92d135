package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront-labs/shop-admin-api/internal/domain/catalog"
)

const (
	insertCategorySQL = `INSERT INTO categories (name, slug, description, parent_id)
		VALUES ($1, $2, $3, $4) RETURNING category_id`

	listCategoriesSQL = `SELECT category_id, name, slug, description, parent_id
		FROM categories ORDER BY category_id`

	listSuppliersSQL = `SELECT supplier_id, name, contact_email, phone
		FROM suppliers ORDER BY supplier_id`

	insertSupplierSQL = `INSERT INTO suppliers (name, contact_email, phone)
		VALUES ($1, $2, $3) RETURNING supplier_id`

	listProductsSQL = `SELECT product_id, sku, name, description, category_id, supplier_id, price, created_at
		FROM products ORDER BY product_id`

	getProductByIDSQL = `SELECT product_id, sku, name, description, category_id, supplier_id, price, created_at
		FROM products WHERE product_id = $1`

	insertProductSQL = `INSERT INTO products (sku, name, description, category_id, supplier_id, price)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING product_id`

	initInventorySQL = `INSERT INTO inventory (product_id, quantity) VALUES ($1, $2)`
)

var (
	_ catalog.CategoryRepository  = (*CategoryRepository)(nil)
	_ catalog.SupplierRepository  = (*SupplierRepository)(nil)
	_ catalog.ProductRepository   = (*ProductRepository)(nil)
	_ catalog.ProductTxRepository = (*ProductRepository)(nil)
)

// CategoryRepository implements catalog.CategoryRepository backed by PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a CategoryRepository that uses the given pool.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Insert persists a category and returns the generated category id. A
// missing parent category surfaces as a catalog.ReferenceError.
func (r *CategoryRepository) Insert(ctx context.Context, c *catalog.Category) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, insertCategorySQL, c.Name, c.Slug, c.Description, c.ParentID).Scan(&id)
	if err != nil {
		if _, ok := foreignKeyTarget(err); ok {
			parent := int64(0)
			if c.ParentID != nil {
				parent = *c.ParentID
			}
			return 0, &catalog.ReferenceError{Relation: "category", ID: parent}
		}
		return 0, fmt.Errorf("inserting category %q: %w", c.Slug, err)
	}
	return id, nil
}

// List returns all categories ordered by id.
func (r *CategoryRepository) List(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, scanCategory)
}

// SupplierRepository implements catalog.SupplierRepository backed by PostgreSQL.
type SupplierRepository struct {
	pool *pgxpool.Pool
}

// NewSupplierRepository returns a SupplierRepository that uses the given pool.
func NewSupplierRepository(pool *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{pool: pool}
}

// Insert persists a supplier and returns the generated supplier id. Used by
// the seeder; the admin API itself only reads suppliers.
func (r *SupplierRepository) Insert(ctx context.Context, s *catalog.Supplier) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, insertSupplierSQL, s.Name, s.ContactEmail, s.Phone).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting supplier %q: %w", s.Name, err)
	}
	return id, nil
}

// List returns all suppliers ordered by id.
func (r *SupplierRepository) List(ctx context.Context) ([]catalog.Supplier, error) {
	rows, err := r.pool.Query(ctx, listSuppliersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	return pgx.CollectRows(rows, scanSupplier)
}

// ProductRepository implements the catalog product reads and the product
// registration transaction backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products ordered by id.
func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// InTx runs a product registration transaction. The callback's writes are
// committed together or rolled back together.
func (r *ProductRepository) InTx(ctx context.Context, fn func(w catalog.ProductWriter) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&productWriter{tx: tx})
	})
}

// productWriter issues product registration writes on one transaction.
type productWriter struct {
	tx pgx.Tx
}

var _ catalog.ProductWriter = (*productWriter)(nil)

func (w *productWriter) InsertProduct(ctx context.Context, p *catalog.Product) (int64, error) {
	var id int64
	err := w.tx.QueryRow(ctx, insertProductSQL,
		p.SKU, p.Name, p.Description, p.CategoryID, p.SupplierID, p.Price,
	).Scan(&id)
	if err != nil {
		if constraint, ok := foreignKeyTarget(err); ok {
			switch constraint {
			case "products_category_id_fkey":
				return 0, &catalog.ReferenceError{Relation: "category", ID: p.CategoryID}
			case "products_supplier_id_fkey":
				return 0, &catalog.ReferenceError{Relation: "supplier", ID: p.SupplierID}
			}
		}
		return 0, fmt.Errorf("inserting product %q: %w", p.SKU, err)
	}
	return id, nil
}

func (w *productWriter) InitInventory(ctx context.Context, productID int64, quantity int) error {
	if _, err := w.tx.Exec(ctx, initInventorySQL, productID, quantity); err != nil {
		return fmt.Errorf("initializing inventory for product %d: %w", productID, err)
	}
	return nil
}

func scanCategory(row pgx.CollectableRow) (catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID)
	return c, err
}

func scanSupplier(row pgx.CollectableRow) (catalog.Supplier, error) {
	var s catalog.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactEmail, &s.Phone)
	return s, err
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.CategoryID, &p.SupplierID, &p.Price, &p.CreatedAt)
	return p, err
}
