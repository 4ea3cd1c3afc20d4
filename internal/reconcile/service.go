package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	httperr "github.com/aevon-lab/salespulse/internal/core/errors"
	"github.com/aevon-lab/salespulse/internal/core/lock"
	"github.com/gin-gonic/gin"
)

const defaultLockTTL = 10 * time.Minute

// BackfillRequest is the optional body of a backfill call.
type BackfillRequest struct {
	LookbackDays int `json:"lookback_days"`
}

// Service exposes operator-triggered backfills over HTTP.
type Service struct {
	engine  *Engine
	locker  lock.Locker
	lockTTL time.Duration
}

func NewService(engine *Engine, locker lock.Locker, lockTTL time.Duration) *Service {
	if engine == nil {
		panic("reconcile: engine must not be nil")
	}
	if locker == nil {
		panic("reconcile: locker must not be nil")
	}
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	return &Service{engine: engine, locker: locker, lockTTL: lockTTL}
}

func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/tenants/:tenant_id/backfill", s.BackfillHandler)
}

// BackfillHandler runs a backfill synchronously under the tenant lock.
// An empty body uses the tenant's default lookback.
func (s *Service) BackfillHandler(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var req BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Request body must be valid JSON",
			Details:   err.Error(),
		})
		return
	}
	if req.LookbackDays < 0 {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   "lookback_days must not be negative",
		})
		return
	}

	var result BackfillResult
	err := lock.WithTenant(c.Request.Context(), s.locker, tenantID, s.lockTTL, func(ctx context.Context) error {
		var err error
		result, err = s.engine.Backfill(ctx, tenantID, req.LookbackDays)
		return err
	})

	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, lock.ErrLocked):
		c.JSON(http.StatusConflict, httperr.ErrorResponse{
			ErrorType: httperr.HttpTenantBusyError,
			Message:   "Another rollup or backfill is running for this tenant",
		})
	default:
		slog.Error("[Backfill] On-demand backfill failed", "tenant_id", tenantID, "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Backfill failed",
			Details: map[string]interface{}{
				"run_id":           result.RunID,
				"chunks_committed": result.Chunks,
			},
		})
	}
}
