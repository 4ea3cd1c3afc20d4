package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aevon-lab/salespulse/internal/core/analytics"
	httperr "github.com/aevon-lab/salespulse/internal/core/errors"
	"github.com/aevon-lab/salespulse/internal/core/storage/memory"
	storagemocks "github.com/aevon-lab/salespulse/internal/mocks/storage"
	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const orderBody = `{
	"orderId": "ord-1",
	"customerId": "cust-1",
	"items": [{"productId": "prod-1", "quantity": 2, "price": "5.00"}],
	"totalAmount": "10.00",
	"purchasedAt": "2026-03-10T14:30:00Z"
}`

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func postOrder(r *gin.Engine, tenantID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/tenants/"+tenantID+"/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) httperr.ErrorResponse {
	t.Helper()
	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	return errResp
}

func TestRecordOrderHandler_Success(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(analytics.ProductCounters{TenantID: "tenant-a", ProductID: "prod-1"})
	svc := NewService(NewRecorder(store, nil, quartz.NewMock(t), nil), 1)
	r := newTestRouter(t, svc)

	resp := postOrder(r, "tenant-a", orderBody)
	require.Equal(t, http.StatusAccepted, resp.Code)

	var body struct {
		Status string       `json:"status"`
		Result RecordResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "accepted", body.Status)
	require.Equal(t, 1, body.Result.ProductsUpdated)

	got, err := store.GetProduct(t.Context(), "tenant-a", "prod-1")
	require.NoError(t, err)
	require.Equal(t, int64(2), got.SalesCount)
}

func TestRecordOrderHandler_DuplicateReturnsConflict(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(analytics.ProductCounters{TenantID: "tenant-a", ProductID: "prod-1"})
	r := newTestRouter(t, NewService(NewRecorder(store, nil, quartz.NewMock(t), nil), 1))

	require.Equal(t, http.StatusAccepted, postOrder(r, "tenant-a", orderBody).Code)

	resp := postOrder(r, "tenant-a", orderBody)
	require.Equal(t, http.StatusConflict, resp.Code)
	require.Equal(t, httperr.HttpDuplicateOrderError, decodeError(t, resp).ErrorType)
}

func TestRecordOrderHandler_InvalidJSON(t *testing.T) {
	store := storagemocks.NewCounterStore(t)
	r := newTestRouter(t, NewService(NewRecorder(store, nil, nil, nil), 1))

	resp := postOrder(r, "tenant-a", `{"orderId":`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, httperr.HttpInvalidJsonError, decodeError(t, resp).ErrorType)
}

func TestRecordOrderHandler_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "missing order id",
			body:    `{"items":[],"purchasedAt":"2026-03-10T14:30:00Z"}`,
			wantMsg: "orderId is required",
		},
		{
			name:    "zero quantity",
			body:    `{"orderId":"o1","items":[{"productId":"p1","quantity":0,"price":"1"}],"purchasedAt":"2026-03-10T14:30:00Z"}`,
			wantMsg: "quantity must be > 0",
		},
		{
			name:    "tenant mismatch",
			body:    `{"orderId":"o1","tenantId":"tenant-b","purchasedAt":"2026-03-10T14:30:00Z"}`,
			wantMsg: msgTenantMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storagemocks.NewCounterStore(t)
			r := newTestRouter(t, NewService(NewRecorder(store, nil, nil, nil), 1))

			resp := postOrder(r, "tenant-a", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)

			errResp := decodeError(t, resp)
			require.Equal(t, httperr.HttpValidationError, errResp.ErrorType)
			require.Contains(t, errResp.Message, tt.wantMsg)
		})
	}
}

func TestRecordOrderHandler_StoreFailureReturns500(t *testing.T) {
	store := storagemocks.NewCounterStore(t)
	store.EXPECT().GetProduct(mock.Anything, "tenant-a", "prod-1").
		Return(nil, errors.New("db failure")).
		Once()
	r := newTestRouter(t, NewService(NewRecorder(store, nil, nil, nil), 1))

	resp := postOrder(r, "tenant-a", orderBody)
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	errResp := decodeError(t, resp)
	require.Equal(t, httperr.HttpInternalError, errResp.ErrorType)
	require.NotContains(t, errResp.Message, "db failure")
}

func TestRecordOrderHandler_BodyTooLarge(t *testing.T) {
	store := storagemocks.NewCounterStore(t)
	svc := NewService(NewRecorder(store, nil, nil, nil), 0) // 0 defaults to 1MB, but we'll test with custom
	svc.maxBodySizeBytes = 10
	r := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/tenants/tenant-a/orders", bytes.NewReader([]byte(orderBody)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	errResp := decodeError(t, resp)
	require.Equal(t, httperr.HttpInvalidJsonError, errResp.ErrorType)
	require.Contains(t, errResp.Message, "maximum allowed size")
}

func TestRecordOrderHandler_OversizedBatch(t *testing.T) {
	store := memory.NewStore(memory.WithMaxBatchSize(1))
	store.PutProduct(analytics.ProductCounters{TenantID: "tenant-a", ProductID: "prod-1"})
	r := newTestRouter(t, NewService(NewRecorder(store, nil, nil, nil), 1))

	resp := postOrder(r, "tenant-a", orderBody)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	require.Equal(t, httperr.HttpBatchTooLargeError, decodeError(t, resp).ErrorType)
}
