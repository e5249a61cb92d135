package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// AddProductRequest holds the input for registering a product.
type AddProductRequest struct {
	SKU          string
	Name         string
	Description  string
	CategoryID   int64
	SupplierID   int64
	Price        decimal.Decimal
	InitialStock int
}

// Service registers catalog entries.
type Service struct {
	products ProductTxRepository
}

// NewService creates a catalog Service.
func NewService(products ProductTxRepository) *Service {
	return &Service{products: products}
}

// AddProduct persists the product and its inventory record, both in one
// transaction so the catalog never contains a product without a stock
// counter. Returns the generated product id.
func (s *Service) AddProduct(ctx context.Context, req AddProductRequest) (int64, error) {
	if req.SKU == "" {
		return 0, &EmptyFieldError{Field: "sku"}
	}
	if req.Name == "" {
		return 0, &EmptyFieldError{Field: "name"}
	}

	var productID int64
	err := s.products.InTx(ctx, func(w ProductWriter) error {
		id, err := w.InsertProduct(ctx, &Product{
			SKU:         req.SKU,
			Name:        req.Name,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			SupplierID:  req.SupplierID,
			Price:       req.Price,
		})
		if err != nil {
			return errors.Wrap(err, "insert product")
		}
		productID = id

		if err := w.InitInventory(ctx, id, req.InitialStock); err != nil {
			return errors.Wrap(err, "init inventory")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return productID, nil
}
