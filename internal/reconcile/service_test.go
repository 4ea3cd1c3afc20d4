package reconcile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aevon-lab/salespulse/internal/core/analytics"
	httperr "github.com/aevon-lab/salespulse/internal/core/errors"
	"github.com/aevon-lab/salespulse/internal/core/lock"
	"github.com/aevon-lab/salespulse/internal/core/storage/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func postBackfill(r *gin.Engine, tenantID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/tenants/"+tenantID+"/backfill", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func seededStore() *memory.Store {
	store := memory.NewStore()
	store.PutProduct(analytics.ProductCounters{TenantID: "tenant-a", ProductID: "prod-1"})
	store.AppendOrder(order("ord-1", "tenant-a", daysAgo(40), item("prod-1", 3)))
	return store
}

func TestBackfillHandler_Lookback(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		processed int
		lookback  int
	}{
		{name: "empty body uses default", body: "", processed: 1, lookback: analytics.DefaultLookbackDays},
		{name: "explicit lookback", body: `{"lookback_days": 30}`, processed: 0, lookback: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t, seededStore(), Options{})
			r := newTestRouter(NewService(engine, lock.NewLocalLocker(nil), time.Minute))

			resp := postBackfill(r, "tenant-a", tt.body)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			var result BackfillResult
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
			assert.Equal(t, tt.processed, result.Processed)
			assert.Equal(t, tt.lookback, result.LookbackDays)
		})
	}
}

func TestBackfillHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		errorType string
	}{
		{name: "malformed json", body: `{"lookback_days":`, errorType: httperr.HttpInvalidJsonError},
		{name: "negative lookback", body: `{"lookback_days": -1}`, errorType: httperr.HttpValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t, seededStore(), Options{})
			r := newTestRouter(NewService(engine, lock.NewLocalLocker(nil), time.Minute))

			resp := postBackfill(r, "tenant-a", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)

			var errResp httperr.ErrorResponse
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
			assert.Equal(t, tt.errorType, errResp.ErrorType)
		})
	}
}

func TestBackfillHandler_TenantBusy(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t, seededStore(), Options{})
	locker := lock.NewLocalLocker(nil)
	unlock, err := locker.TryLock(ctx, lock.TenantKey("tenant-a"), time.Minute)
	require.NoError(t, err)
	defer unlock(ctx) //nolint:errcheck

	r := newTestRouter(NewService(engine, locker, time.Minute))

	resp := postBackfill(r, "tenant-a", "")
	require.Equal(t, http.StatusConflict, resp.Code)
}
