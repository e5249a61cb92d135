package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/storefront-labs/shop-admin-api/internal/domain/dashboard"
)

type dashboardResponse struct {
	Summary     *dashboard.Summary     `json:"summary"`
	TopProducts []dashboard.TopProduct `json:"topProducts"`
	StockLevels []dashboard.StockLevel `json:"stockLevels"`
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.dashboards.Summary(ctx)
	if err != nil {
		writeError(w, r, errors.Wrap(err, "summary"))
		return
	}
	top, err := h.dashboards.TopProducts(ctx, h.topProductsLimit)
	if err != nil {
		writeError(w, r, errors.Wrap(err, "top products"))
		return
	}
	stock, err := h.dashboards.StockLevels(ctx)
	if err != nil {
		writeError(w, r, errors.Wrap(err, "stock levels"))
		return
	}

	writeJSON(w, r, http.StatusOK, dashboardResponse{
		Summary:     summary,
		TopProducts: top,
		StockLevels: stock,
	})
}
