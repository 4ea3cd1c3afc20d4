package aggregation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	httperr "github.com/aevon-lab/salespulse/internal/core/errors"
	"github.com/aevon-lab/salespulse/internal/core/lock"
	"github.com/gin-gonic/gin"
)

// Service exposes on-demand rollups over HTTP.
type Service struct {
	engine  *Engine
	locker  lock.Locker
	lockTTL time.Duration
}

func NewService(engine *Engine, locker lock.Locker, lockTTL time.Duration) *Service {
	if engine == nil {
		panic("aggregation: engine must not be nil")
	}
	if locker == nil {
		panic("aggregation: locker must not be nil")
	}
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	return &Service{engine: engine, locker: locker, lockTTL: lockTTL}
}

func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/tenants/:tenant_id/rollup", s.RollupHandler)
}

// RollupHandler runs a rollup for one tenant synchronously.
func (s *Service) RollupHandler(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var result RollupResult
	err := lock.WithTenant(c.Request.Context(), s.locker, tenantID, s.lockTTL, func(ctx context.Context) error {
		var err error
		result, err = s.engine.Rollup(ctx, tenantID)
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
		slog.Error("[Rollup] On-demand rollup failed", "tenant_id", tenantID, "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Rollup failed",
			Details: map[string]interface{}{
				"run_id":           result.RunID,
				"chunks_committed": result.Chunks,
			},
		})
	}
}
