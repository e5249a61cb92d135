// Package handler exposes the admin operations as a JSON HTTP API.
// Handlers decode and validate transport concerns only; all store semantics
// live in the domain packages.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storefront-labs/shop-admin-api/internal/domain/catalog"
	"github.com/storefront-labs/shop-admin-api/internal/domain/dashboard"
	"github.com/storefront-labs/shop-admin-api/internal/domain/listing"
	"github.com/storefront-labs/shop-admin-api/internal/domain/order"
	"github.com/storefront-labs/shop-admin-api/internal/domain/user"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// TopProductsLimit caps the dashboard best-sellers ranking.
	TopProductsLimit int
}

// Handler routes admin API requests to the domain services and repositories.
type Handler struct {
	users      user.Repository
	categories catalog.CategoryRepository
	suppliers  catalog.SupplierRepository
	products   catalog.ProductRepository
	catalogSvc *catalog.Service
	orderSvc   *order.Service
	orders     order.ListRepository
	dashboards dashboard.Repository
	listings   listing.Repository

	topProductsLimit int
}

// New constructs a Handler with the required domain dependencies.
func New(
	cfg Config,
	users user.Repository,
	categories catalog.CategoryRepository,
	suppliers catalog.SupplierRepository,
	products catalog.ProductRepository,
	catalogSvc *catalog.Service,
	orderSvc *order.Service,
	orders order.ListRepository,
	dashboards dashboard.Repository,
	listings listing.Repository,
) *Handler {
	limit := cfg.TopProductsLimit
	if limit <= 0 {
		limit = 5
	}
	return &Handler{
		users:            users,
		categories:       categories,
		suppliers:        suppliers,
		products:         products,
		catalogSvc:       catalogSvc,
		orderSvc:         orderSvc,
		orders:           orders,
		dashboards:       dashboards,
		listings:         listings,
		topProductsLimit: limit,
	}
}

// Routes mounts every admin endpoint on a fresh router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/tables", h.listTableNames)
		r.Get("/tables/{table}", h.listTable)

		r.Get("/users", h.listUsers)
		r.Post("/users", h.addUser)

		r.Get("/categories", h.listCategories)
		r.Post("/categories", h.addCategory)

		r.Get("/suppliers", h.listSuppliers)

		r.Get("/products", h.listProducts)
		r.Get("/products/{productID}", h.getProduct)
		r.Post("/products", h.addProduct)

		r.Get("/orders", h.listOrders)
		r.Get("/orders/{orderID}/items", h.listOrderItems)
		r.Post("/orders", h.placeOrder)

		r.Get("/dashboard", h.getDashboard)
	})

	return r
}
