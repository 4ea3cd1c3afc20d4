package aggregation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/aevon-lab/salespulse/internal/core/analytics"
	"github.com/aevon-lab/salespulse/internal/core/lock"
	"github.com/aevon-lab/salespulse/internal/core/metrics"
	"github.com/aevon-lab/salespulse/internal/core/partition"
	"github.com/aevon-lab/salespulse/internal/core/storage"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"
)

const (
	defaultInterval    = 15 * time.Minute
	defaultWorkerCount = 4
	defaultLockTTL     = 10 * time.Minute
	finalRunTimeout    = 30 * time.Second
)

// TenantLister resolves the tenants one scheduled pass covers.
type TenantLister func(ctx context.Context) ([]string, error)

// SchedulerOptions controls the periodic rollup.
type SchedulerOptions struct {
	Interval    time.Duration
	WorkerCount int
	LockTTL     time.Duration
	Clock       quartz.Clock
}

func (o SchedulerOptions) normalized() SchedulerOptions {
	n := o
	if n.Interval <= 0 {
		n.Interval = defaultInterval
	}
	if n.WorkerCount <= 0 {
		n.WorkerCount = defaultWorkerCount
	}
	if n.LockTTL <= 0 {
		n.LockTTL = defaultLockTTL
	}
	if n.Clock == nil {
		n.Clock = quartz.NewReal()
	}
	return n
}

// PassSummary counts tenant outcomes of one scheduled pass.
type PassSummary struct {
	Tenants   int
	Succeeded int
	Failed    int
	Busy      int
}

// Scheduler runs the rollup for every tenant on a fixed interval.
// Each tenant is pinned to one worker by its partition and runs under the
// tenant lock, so a backfill or manual rollup for the same tenant is never
// interleaved with it.
type Scheduler struct {
	engine  *Engine
	locker  lock.Locker
	tenants TenantLister
	metrics *metrics.Metrics
	opts    SchedulerOptions
}

func NewScheduler(engine *Engine, locker lock.Locker, tenants TenantLister, opts SchedulerOptions) *Scheduler {
	return &Scheduler{
		engine:  engine,
		locker:  locker,
		tenants: tenants,
		metrics: engine.metrics,
		opts:    opts.normalized(),
	}
}

// ScheduledTenants lists tenants owning product counters plus tenants with a
// policy file, minus tenants whose policy disables scheduling.
func ScheduledTenants(store storage.CounterStore, policies *analytics.PolicyRepository) TenantLister {
	return func(ctx context.Context) ([]string, error) {
		stored, err := store.ListTenants(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tenants: %w", err)
		}

		seen := make(map[string]struct{}, len(stored))
		var out []string
		for _, id := range append(stored, policies.ScheduledTenants()...) {
			if _, dup := seen[id]; dup || !policies.Scheduled(id) {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
		sort.Strings(out)
		return out, nil
	}
}

// Start runs one pass immediately, then one per interval until ctx is
// cancelled. A final pass runs on shutdown.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := s.opts.Clock.NewTicker(s.opts.Interval, "rollup", "scheduler")
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting rollup scheduler",
		"interval", s.opts.Interval,
		"workers", s.opts.WorkerCount,
		"lock_ttl", s.opts.LockTTL,
	)

	s.runPass(ctx)

	for {
		select {
		case <-ticker.C:
			s.runPass(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), finalRunTimeout)
			defer cancel()

			slog.Info("[Scheduler] Running final rollup before shutdown...")
			s.runPass(shutdownCtx)
			slog.Info("[Scheduler] Final rollup complete")

			return nil
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		slog.Error("[Scheduler] Rollup pass failed", "error", err)
	}
}

// RunOnce rolls up every scheduled tenant once. Per-tenant failures are
// logged and counted, never returned; only failing to list tenants is.
func (s *Scheduler) RunOnce(ctx context.Context) (PassSummary, error) {
	tenants, err := s.tenants(ctx)
	if err != nil {
		return PassSummary{}, err
	}
	if len(tenants) == 0 {
		slog.Debug("[Scheduler] No tenants to roll up")
		return PassSummary{}, nil
	}

	var succeeded, failed, busy atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for worker, group := range partition.Group(tenants, s.opts.WorkerCount) {
		if len(group) == 0 {
			continue
		}
		g.Go(func() error {
			for _, tenantID := range group {
				if gctx.Err() != nil {
					return nil
				}
				err := lock.WithTenant(gctx, s.locker, tenantID, s.opts.LockTTL, func(ctx context.Context) error {
					_, err := s.engine.Rollup(ctx, tenantID)
					return err
				})
				switch {
				case err == nil:
					succeeded.Add(1)
				case errors.Is(err, lock.ErrLocked):
					busy.Add(1)
					s.metrics.TenantBusy.WithLabelValues(metrics.JobRollup).Inc()
					slog.Info("[Scheduler] Tenant busy, skipping this pass", "tenant_id", tenantID, "worker", worker)
				default:
					failed.Add(1)
					slog.Error("[Scheduler] Tenant rollup failed", "tenant_id", tenantID, "worker", worker, "error", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := PassSummary{
		Tenants:   len(tenants),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		Busy:      int(busy.Load()),
	}
	slog.Info("[Scheduler] Rollup pass complete",
		"tenants", summary.Tenants,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"busy", summary.Busy)
	return summary, nil
}
