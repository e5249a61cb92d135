// Package catalog holds the product catalog: categories, suppliers,
// products, and each product's inventory record.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when a requested product does not exist.
var ErrProductNotFound = errors.New("product not found")

// Category groups products. ParentID is nil for top-level categories.
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	ParentID    *int64
}

// Supplier is a product source, referenced by products.
type Supplier struct {
	ID           int64
	Name         string
	ContactEmail string
	Phone        string
}

// Product is a catalog item. Price is the current list price; orders
// snapshot it at placement time.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Description string
	CategoryID  int64
	SupplierID  int64
	Price       decimal.Decimal
	CreatedAt   time.Time
}

// InventoryRecord is the quantity-on-hand counter for one product. It is
// created together with the product and mutated only by order placement
// and restocks.
type InventoryRecord struct {
	ProductID int64
	Quantity  int
}

// EmptyFieldError indicates a required text field was empty.
type EmptyFieldError struct {
	Field string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

// ReferenceError indicates an insert referenced a missing category or
// supplier, surfaced by the storage engine as a foreign key violation.
type ReferenceError struct {
	Relation string
	ID       int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Relation, e.ID)
}

// NewCategory validates the required fields and builds a Category.
func NewCategory(name, slug, description string, parentID *int64) (*Category, error) {
	if name == "" {
		return nil, &EmptyFieldError{Field: "name"}
	}
	if slug == "" {
		return nil, &EmptyFieldError{Field: "slug"}
	}
	return &Category{
		Name:        name,
		Slug:        slug,
		Description: description,
		ParentID:    parentID,
	}, nil
}

// CategoryRepository defines persistence for categories.
type CategoryRepository interface {
	Insert(ctx context.Context, c *Category) (int64, error)
	List(ctx context.Context) ([]Category, error)
}

// SupplierRepository defines read access to suppliers.
type SupplierRepository interface {
	List(ctx context.Context) ([]Supplier, error)
}

// ProductRepository defines read access to products.
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)

	// GetByID returns ErrProductNotFound when no matching product exists.
	GetByID(ctx context.Context, id int64) (*Product, error)
}

// ProductWriter is the set of writes available inside a product
// registration transaction.
type ProductWriter interface {
	// InsertProduct persists the product row and returns the generated id.
	InsertProduct(ctx context.Context, p *Product) (int64, error)

	// InitInventory creates the product's inventory record.
	InitInventory(ctx context.Context, productID int64, quantity int) error
}

// ProductTxRepository runs a product registration transaction.
type ProductTxRepository interface {
	InTx(ctx context.Context, fn func(w ProductWriter) error) error
}
