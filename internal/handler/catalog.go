package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/storefront-labs/shop-admin-api/internal/domain/catalog"
)

type addCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parentId"`
}

type categoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parentId,omitempty"`
}

type supplierResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contactEmail"`
	Phone        string `json:"phone"`
}

type addProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryID   int64           `json:"categoryId"`
	SupplierID   int64           `json:"supplierId"`
	Price        decimal.Decimal `json:"price"`
	InitialStock int             `json:"initialStock"`
}

type productResponse struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  int64           `json:"categoryId"`
	SupplierID  int64           `json:"supplierId"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	c, err := catalog.NewCategory(req.Name, req.Slug, req.Description, req.ParentID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.categories.Insert(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]categoryResponse, len(categories))
	for i, c := range categories {
		out[i] = categoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			ParentID:    c.ParentID,
		}
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.suppliers.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]supplierResponse, len(suppliers))
	for i, s := range suppliers {
		out[i] = supplierResponse{
			ID:           s.ID,
			Name:         s.Name,
			ContactEmail: s.ContactEmail,
			Phone:        s.Phone,
		}
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	id, err := h.catalogSvc.AddProduct(r.Context(), catalog.AddProductRequest{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		SupplierID:   req.SupplierID,
		Price:        req.Price,
		InitialStock: req.InitialStock,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(&p)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		badRequest(w, r, errors.New("product id must be an integer"))
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toProductResponse(p))
}

func toProductResponse(p *catalog.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
	}
}
