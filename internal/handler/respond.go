package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/storefront-labs/shop-admin-api/internal/domain/catalog"
	"github.com/storefront-labs/shop-admin-api/internal/domain/listing"
	"github.com/storefront-labs/shop-admin-api/internal/domain/order"
	"github.com/storefront-labs/shop-admin-api/internal/domain/user"
)

// apiError is the JSON body of every error response.
type apiError struct {
	Error string `json:"error"`
}

// writeJSON serialises v with the given status. Encoding failures are logged
// and swallowed: the status line is already on the wire at that point.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Error("Encode response", zap.Error(err))
	}
}

// writeError maps a domain error onto an HTTP status and JSON body.
//
// Validation failures that never reached storage are 400. Requests that were
// well-formed but referenced missing rows are 422 (404 for a direct product
// lookup). Everything else is a storage fault and reported as 500 without
// leaking the underlying error text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidQty   *order.InvalidQuantityError
		emptyUser    *user.EmptyFieldError
		emptyCatalog *catalog.EmptyFieldError
		orderRef     *order.ReferenceError
		catalogRef   *catalog.ReferenceError
		unknownTable *listing.UnknownTableError
	)
	switch {
	case errors.As(err, &invalidQty),
		errors.As(err, &emptyUser),
		errors.As(err, &emptyCatalog),
		errors.As(err, &unknownTable):
		writeJSON(w, r, http.StatusBadRequest, apiError{Error: err.Error()})
	case errors.As(err, &orderRef),
		errors.As(err, &catalogRef):
		writeJSON(w, r, http.StatusUnprocessableEntity, apiError{Error: err.Error()})
	case errors.Is(err, catalog.ErrProductNotFound):
		writeJSON(w, r, http.StatusNotFound, apiError{Error: err.Error()})
	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		writeJSON(w, r, http.StatusInternalServerError, apiError{Error: "internal error"})
	}
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "decode request")
	}
	return nil
}

// badRequest reports a malformed request body.
func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, r, http.StatusBadRequest, apiError{Error: err.Error()})
}
