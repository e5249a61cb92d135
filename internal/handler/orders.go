package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/storefront-labs/shop-admin-api/internal/domain/order"
)

const defaultOrderListLimit = 50

type placeOrderRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type orderResponse struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type orderItemResponse struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	ItemPrice decimal.Decimal `json:"itemPrice"`
}

// placeOrder looks up the product's current price and hands the placement to
// the order service. A missing product surfaces here as 404 before anything
// is written.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	confirmation, err := h.orderSvc.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: product.Price,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, confirmation)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	limit := defaultOrderListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			badRequest(w, r, errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	orders, err := h.orders.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = orderResponse{
			ID:          o.ID,
			UserID:      o.UserID,
			OrderNumber: o.OrderNumber,
			TotalAmount: o.TotalAmount,
			CreatedAt:   o.CreatedAt,
		}
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) listOrderItems(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		badRequest(w, r, errors.New("order id must be an integer"))
		return
	}

	items, err := h.orders.ListItems(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]orderItemResponse, len(items))
	for i, it := range items {
		out[i] = orderItemResponse{
			ID:        it.ID,
			OrderID:   it.OrderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			ItemPrice: it.ItemPrice,
		}
	}
	writeJSON(w, r, http.StatusOK, out)
}
