package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront-labs/shop-admin-api/internal/domain/listing"
)

func (h *Handler) listTableNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, listing.Names())
}

// listTable renders a raw table view. Row values come back from the driver
// as arbitrary Go types, so the body is built with a jx encoder instead of
// a static response struct.
func (h *Handler) listTable(w http.ResponseWriter, r *http.Request) {
	limit := listing.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			badRequest(w, r, errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	result, err := h.listings.ListTable(r.Context(), chi.URLParam(r, "table"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("table")
	e.Str(result.Table)
	e.FieldStart("columns")
	e.ArrStart()
	for _, c := range result.Columns {
		e.Str(c)
	}
	e.ArrEnd()
	e.FieldStart("rows")
	e.ArrStart()
	for _, row := range result.Rows {
		e.ArrStart()
		for _, v := range row {
			encodeValue(&e, v)
		}
		e.ArrEnd()
	}
	e.ArrEnd()
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(e.Bytes()); err != nil {
		zctx.From(r.Context()).Error("Write response", zap.Error(err))
	}
}

// encodeValue appends one driver-produced value as JSON. Types outside the
// expected set fall back to their string form rather than failing the view.
func encodeValue(e *jx.Encoder, v any) {
	switch v := v.(type) {
	case nil:
		e.Null()
	case bool:
		e.Bool(v)
	case string:
		e.Str(v)
	case int16:
		e.Int64(int64(v))
	case int32:
		e.Int64(int64(v))
	case int64:
		e.Int64(v)
	case float32:
		e.Float32(v)
	case float64:
		e.Float64(v)
	case []byte:
		e.Base64(v)
	case time.Time:
		e.Str(v.Format(time.RFC3339Nano))
	case decimal.Decimal:
		e.Raw([]byte(v.String()))
	default:
		e.Str(fmt.Sprint(v))
	}
}
