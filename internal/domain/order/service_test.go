package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

// inventoryDelta records one AdjustInventory call.
type inventoryDelta struct {
	productID int64
	delta     int
}

// mockWriter records placement writes and can fail any step.
type mockWriter struct {
	nextOrderID int64

	insertedOrders []Order
	insertedItems  []Item
	adjustments    []inventoryDelta

	insertOrderErr error
	insertItemErr  error
	adjustErr      error
}

func (m *mockWriter) InsertOrder(_ context.Context, o *Order) (int64, error) {
	if m.insertOrderErr != nil {
		return 0, m.insertOrderErr
	}
	m.nextOrderID++
	o.ID = m.nextOrderID
	m.insertedOrders = append(m.insertedOrders, *o)
	return o.ID, nil
}

func (m *mockWriter) InsertItem(_ context.Context, item *Item) error {
	if m.insertItemErr != nil {
		return m.insertItemErr
	}
	m.insertedItems = append(m.insertedItems, *item)
	return nil
}

func (m *mockWriter) AdjustInventory(_ context.Context, productID int64, delta int) error {
	if m.adjustErr != nil {
		return m.adjustErr
	}
	m.adjustments = append(m.adjustments, inventoryDelta{productID: productID, delta: delta})
	return nil
}

// mockRepo runs the callback against its writer and remembers whether the
// transaction would have committed.
type mockRepo struct {
	writer    *mockWriter
	began     int
	committed bool
}

func (m *mockRepo) InTx(_ context.Context, fn func(w Writer) error) error {
	m.began++
	if err := fn(m.writer); err != nil {
		m.committed = false
		return err
	}
	m.committed = true
	return nil
}

func newTestService() (*Service, *mockRepo) {
	repo := &mockRepo{writer: &mockWriter{}}
	return NewService(repo, NewNumberer()), repo
}

// --- Tests ---

func TestPlaceOrder_TotalIsUnitPriceTimesQuantity(t *testing.T) {
	svc, repo := newTestService()

	conf, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:    1,
		ProductID: 7,
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("19.99"),
	})
	require.NoError(t, err)

	assert.Equal(t, "59.97", conf.Total.StringFixed(2))
	require.Len(t, repo.writer.insertedOrders, 1)
	assert.Equal(t, "59.97", repo.writer.insertedOrders[0].TotalAmount.StringFixed(2))
}

func TestPlaceOrder_WritesAllThreeSteps(t *testing.T) {
	svc, repo := newTestService()

	conf, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:    42,
		ProductID: 7,
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("19.99"),
	})
	require.NoError(t, err)
	assert.True(t, repo.committed)

	require.Len(t, repo.writer.insertedOrders, 1)
	o := repo.writer.insertedOrders[0]
	assert.Equal(t, int64(42), o.UserID)
	assert.Equal(t, conf.OrderNumber, o.OrderNumber)
	assert.Equal(t, conf.OrderID, o.ID)

	require.Len(t, repo.writer.insertedItems, 1)
	item := repo.writer.insertedItems[0]
	assert.Equal(t, conf.OrderID, item.OrderID)
	assert.Equal(t, int64(7), item.ProductID)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, "19.99", item.ItemPrice.StringFixed(2))

	require.Len(t, repo.writer.adjustments, 1)
	assert.Equal(t, inventoryDelta{productID: 7, delta: -3}, repo.writer.adjustments[0])
}

func TestPlaceOrder_ZeroQuantityFailsBeforeAnyWrite(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:    1,
		ProductID: 7,
		Quantity:  0,
		UnitPrice: decimal.RequireFromString("5.00"),
	})

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, 0, iqErr.Quantity)
	assert.Zero(t, repo.began)
}

func TestPlaceOrder_NegativeQuantityFailsBeforeAnyWrite(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:    1,
		ProductID: 7,
		Quantity:  -2,
		UnitPrice: decimal.RequireFromString("5.00"),
	})

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, -2, iqErr.Quantity)
	assert.Zero(t, repo.began)
}

func TestPlaceOrder_InsertOrderFailureRollsBack(t *testing.T) {
	svc, repo := newTestService()
	repo.writer.insertOrderErr = &ReferenceError{Relation: "user", ID: 99}

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:    99,
		ProductID: 7,
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("5.00"),
	})

	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "user", refErr.Relation)
	assert.False(t, repo.committed)
	assert.Empty(t, repo.writer.insertedItems)
	assert.Empty(t, repo.writer.adjustments)
}

func TestPlaceOrder_AdjustInventoryFailureRollsBack(t *testing.T) {
	svc, repo := newTestService()
	repo.writer.adjustErr = errors.New("connection reset")

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:    1,
		ProductID: 7,
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("5.00"),
	})

	require.Error(t, err)
	assert.False(t, repo.committed)
}

func TestPlaceOrder_RoundsTotalToCents(t *testing.T) {
	svc, _ := newTestService()

	conf, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:    1,
		ProductID: 7,
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("0.335"),
	})
	require.NoError(t, err)

	// 0.335 * 3 = 1.005, rounded half away from zero.
	assert.Equal(t, "1.01", conf.Total.StringFixed(2))
}

func TestPlaceOrder_DistinctNumbersForSequentialOrders(t *testing.T) {
	svc, _ := newTestService()

	numbers := make(map[string]struct{})
	for range 5 {
		conf, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
			UserID:    1,
			ProductID: 7,
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("5.00"),
		})
		require.NoError(t, err)
		numbers[conf.OrderNumber] = struct{}{}
	}

	assert.Len(t, numbers, 5)
}
