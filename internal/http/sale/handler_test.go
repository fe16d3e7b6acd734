package sale_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	salehttp "github.com/salestream/server/internal/http/sale"
	"github.com/salestream/server/internal/sale"
)

func newTestRouter(t *testing.T) (http.Handler, *sale.MockRepository, *sale.MockPublisher) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := sale.NewMockRepository(ctrl)
	pub := sale.NewMockPublisher(ctrl)

	router := chi.NewRouter()
	router.Route("/api/sales", salehttp.NewHandler(sale.NewService(repo, pub)).Routes)

	return router, repo, pub
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	return w
}

const createBody = `{
	"productId": "P-100",
	"productName": "Espresso Machine",
	"quantity": 2,
	"unitPrice": 50,
	"totalPrice": 0,
	"discount": 10,
	"finalPrice": 0,
	"customerId": "C-7",
	"customerName": "Ada Lovelace",
	"paymentMethod": "card",
	"paymentStatus": "pending",
	"saleerId": "S-1",
	"SaleerName": "Grace Hopper",
	"saleDate": "2025-07-25T00:00:00Z",
	"invoiceNumber": "INV-2025-000123"
}`

func TestHandler_Create(t *testing.T) {
	router, repo, pub := newTestRouter(t)

	repo.EXPECT().
		CreateSale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sl *sale.Sale) error {
			sl.ID = 42
			sl.CreatedAt = time.Now()
			sl.UpdatedAt = sl.CreatedAt
			return nil
		})
	pub.EXPECT().Publish(sale.EventCreated, gomock.Any())

	w := doRequest(router, http.MethodPost, "/api/sales", createBody)

	require.Equal(t, http.StatusCreated, w.Code)

	var got sale.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	assert.Equal(t, int64(42), got.ID)

	// Totals come back recomputed, not as submitted.
	assert.Equal(t, "100", got.TotalPrice.String())
	assert.Equal(t, "90", got.FinalPrice.String())
	assert.Equal(t, "9", got.TaxAmount.String())
}

func TestHandler_Create_ValidationFailure(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/sales", `{"quantity": 2}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields []sale.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.Fields)

	fields := make([]string, 0, len(resp.Fields))
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}

	assert.Contains(t, fields, "productId")
	assert.Contains(t, fields, "saleDate")
}

func TestHandler_Create_MalformedJSON(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/sales", `{"quantity": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_List_Defaults(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	repo.EXPECT().CountSales(gomock.Any()).Return(int64(0), nil)
	repo.EXPECT().ListSales(gomock.Any(), 10, 0).Return(nil, nil)

	w := doRequest(router, http.MethodGet, "/api/sales", "")

	require.Equal(t, http.StatusOK, w.Code)

	// An empty page serializes as an array, never null.
	assert.JSONEq(t, `{"totalItems":0,"totalPages":0,"currentPage":1,"sales":[]}`, w.Body.String())
}

func TestHandler_List_WithPagination(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	repo.EXPECT().CountSales(gomock.Any()).Return(int64(12), nil)
	repo.EXPECT().ListSales(gomock.Any(), 5, 5).Return([]*sale.Sale{{ID: 6}}, nil)

	w := doRequest(router, http.MethodGet, "/api/sales?page=2&limit=5", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalItems  int64        `json:"totalItems"`
		TotalPages  int          `json:"totalPages"`
		CurrentPage int          `json:"currentPage"`
		Sales       []*sale.Sale `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, int64(12), resp.TotalItems)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.CurrentPage)
	require.Len(t, resp.Sales, 1)
	assert.Equal(t, int64(6), resp.Sales[0].ID)
}

func TestHandler_Update_NotFound(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	repo.EXPECT().GetSale(gomock.Any(), int64(99)).Return(nil, sale.ErrNotFound)

	w := doRequest(router, http.MethodPut, "/api/sales/99", `{"notes": "x"}`)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Sale not found"}`, w.Body.String())
}

func TestHandler_Update_InvalidID(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPut, "/api/sales/abc", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UpdateStatus(t *testing.T) {
	router, repo, pub := newTestRouter(t)

	repo.EXPECT().GetSale(gomock.Any(), int64(7)).Return(&sale.Sale{ID: 7, PaymentStatus: sale.StatusPending}, nil)
	repo.EXPECT().UpdateSale(gomock.Any(), gomock.Any()).Return(nil)
	pub.EXPECT().Publish(sale.EventUpdated, gomock.Any())

	w := doRequest(router, http.MethodPatch, "/api/sales/7/status", `{"paymentStatus": "paid"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var got sale.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, sale.StatusPaid, got.PaymentStatus)
}

func TestHandler_Delete(t *testing.T) {
	router, repo, pub := newTestRouter(t)

	repo.EXPECT().GetSale(gomock.Any(), int64(7)).Return(&sale.Sale{ID: 7}, nil)
	repo.EXPECT().DeleteSale(gomock.Any(), int64(7)).Return(nil)
	pub.EXPECT().Publish(sale.EventDeleted, int64(7))

	w := doRequest(router, http.MethodDelete, "/api/sales/7", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Sale deleted successfully"}`, w.Body.String())
}

func TestHandler_Delete_NotFound(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	repo.EXPECT().GetSale(gomock.Any(), int64(99)).Return(nil, sale.ErrNotFound)

	w := doRequest(router, http.MethodDelete, "/api/sales/99", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Create_DuplicateInvoice(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	repo.EXPECT().CreateSale(gomock.Any(), gomock.Any()).Return(sale.ErrDuplicateInvoice)

	w := doRequest(router, http.MethodPost, "/api/sales", createBody)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "invoice")
}
