package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PlaceOrderRequest holds the already-validated input for placing an order.
// UnitPrice comes from a prior catalog read; the service treats it as
// authoritative and never re-fetches it, so the order keeps the price that
// was current when the customer committed.
type PlaceOrderRequest struct {
	UserID    int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Service sequences the order placement writes.
type Service struct {
	orders   Repository
	numberer *Numberer
}

// NewService creates an order placement Service.
func NewService(orders Repository, numberer *Numberer) *Service {
	return &Service{
		orders:   orders,
		numberer: numberer,
	}
}

// PlaceOrder records one order with a single line item and decrements the
// product's inventory by the ordered quantity, all inside one transaction.
//
// The decrement is unconditional: quantity on hand may go negative, which
// the store treats as an oversell to fulfil from the next restock.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Confirmation, error) {
	if req.Quantity <= 0 {
		return nil, &InvalidQuantityError{Quantity: req.Quantity}
	}

	number := s.numberer.Next()
	total := req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2)

	var orderID int64
	err := s.orders.InTx(ctx, func(w Writer) error {
		id, err := w.InsertOrder(ctx, &Order{
			UserID:      req.UserID,
			OrderNumber: number,
			TotalAmount: total,
		})
		if err != nil {
			return errors.Wrap(err, "insert order")
		}
		orderID = id

		if err := w.InsertItem(ctx, &Item{
			OrderID:   id,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			ItemPrice: req.UnitPrice,
		}); err != nil {
			return errors.Wrap(err, "insert order item")
		}

		if err := w.AdjustInventory(ctx, req.ProductID, -req.Quantity); err != nil {
			return errors.Wrap(err, "adjust inventory")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Confirmation{
		OrderID:     orderID,
		OrderNumber: number,
		Total:       total,
	}, nil
}
