package importcsv

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salestream/server/internal/http/respond"
	"github.com/salestream/server/internal/importer"
	"github.com/salestream/server/internal/sale"
)

// Handler accepts a CSV body and creates a sale per row through the normal
// mutation path, so every imported row is validated and broadcast like any
// other create.
type Handler struct {
	importSvc *importer.Service
	saleSvc   *sale.Service
}

func NewHandler(importSvc *importer.Service, saleSvc *sale.Service) *Handler {
	return &Handler{importSvc: importSvc, saleSvc: saleSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/import", h.importCSV)
}

type importResponse struct {
	Imported int                 `json:"imported"`
	Failed   []importer.RowError `json:"failed,omitempty"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	rows, failed, err := h.importSvc.Parse(r.Body)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := importResponse{Failed: failed}

	for _, row := range rows {
		if _, err := h.saleSvc.Create(r.Context(), row.Input); err != nil {
			resp.Failed = append(resp.Failed, importer.RowError{Line: row.Line, Err: rowErrMessage(err)})
			continue
		}

		resp.Imported++
	}

	respond.JSON(w, http.StatusOK, resp)
}

func rowErrMessage(err error) string {
	var verr *sale.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	if errors.Is(err, sale.ErrDuplicateInvoice) {
		return sale.ErrDuplicateInvoice.Error()
	}

	return "could not create sale"
}
