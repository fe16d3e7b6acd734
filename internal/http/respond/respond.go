// Package respond is the single place service errors become HTTP responses,
// so every error body has the same shape.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/salestream/server/internal/sale"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields []sale.FieldError `json:"fields,omitempty"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes a uniform JSON error body.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// ServiceError maps a sale service error onto the HTTP taxonomy:
// validation failures are 400 with per-field detail, unknown ids are 404,
// duplicate invoice numbers are 409, everything else is a generic 500.
func ServiceError(w http.ResponseWriter, err error) {
	var verr *sale.ValidationError
	if errors.As(err, &verr) {
		JSON(w, http.StatusBadRequest, errorBody{
			Error:  "validation failed",
			Fields: verr.Fields,
		})

		return
	}

	if errors.Is(err, sale.ErrNotFound) {
		Error(w, http.StatusNotFound, "Sale not found")
		return
	}

	if errors.Is(err, sale.ErrDuplicateInvoice) {
		Error(w, http.StatusConflict, sale.ErrDuplicateInvoice.Error())
		return
	}

	slog.Error("request failed", "error", err)
	Error(w, http.StatusInternalServerError, "internal error")
}
