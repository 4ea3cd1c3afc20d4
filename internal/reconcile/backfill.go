// Package reconcile rebuilds product sales counters from the order ledger.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/salespulse/internal/api/v1"
	"github.com/aevon-lab/salespulse/internal/core/analytics"
	"github.com/aevon-lab/salespulse/internal/core/metrics"
	"github.com/aevon-lab/salespulse/internal/core/storage"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultReadConcurrency = 16

// BackfillResult summarizes one tenant's backfill run.
type BackfillResult struct {
	RunID        string `json:"run_id"`
	LookbackDays int    `json:"lookback_days"`
	Processed    int    `json:"processed"`
	Updated      int    `json:"updated"`
	Chunks       int    `json:"chunks"`
}

// Options tunes an Engine. Zero values use the defaults.
type Options struct {
	MaxBatchSize    int
	ReadConcurrency int
}

// Engine reconciles stored salesCount values against the order ledger.
// Reconciliation is a max-merge, so a backfill never lowers a counter.
type Engine struct {
	store    storage.CounterStore
	ledger   storage.OrderLedger
	policies analytics.PolicySource
	clock    quartz.Clock
	metrics  *metrics.Metrics
	opts     Options
}

func NewEngine(store storage.CounterStore, ledger storage.OrderLedger, policies analytics.PolicySource, clock quartz.Clock, m *metrics.Metrics, opts Options) *Engine {
	if store == nil {
		panic("reconcile: store must not be nil")
	}
	if ledger == nil {
		panic("reconcile: ledger must not be nil")
	}
	if policies == nil {
		policies = analytics.StaticPolicy(analytics.DefaultPolicy())
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	if m == nil {
		m = metrics.Discard()
	}
	if opts.ReadConcurrency <= 0 {
		opts.ReadConcurrency = defaultReadConcurrency
	}
	return &Engine{store: store, ledger: ledger, policies: policies, clock: clock, metrics: m, opts: opts}
}

// Backfill sums item quantities per product over the tenant's orders of the
// last lookbackDays and raises each product's salesCount to that sum when it
// is higher. A non-positive lookbackDays uses the tenant policy's default.
// Products without a counters document are skipped.
func (e *Engine) Backfill(ctx context.Context, tenantID string, lookbackDays int) (BackfillResult, error) {
	start := e.clock.Now()
	if lookbackDays <= 0 {
		lookbackDays = e.policies.For(tenantID).LookbackDays
	}
	result := BackfillResult{RunID: uuid.NewString(), LookbackDays: lookbackDays}

	cutoff := analytics.LookbackCutoff(start, lookbackDays)
	orders, err := e.ordersSince(ctx, tenantID, cutoff)
	if err != nil {
		return e.fail(result, tenantID, fmt.Errorf("backfill %s: %w", tenantID, err))
	}
	result.Processed = len(orders)

	totals := analytics.AggregateQuantities(orders)
	productIDs := analytics.SortedKeys(totals)

	current, err := e.readSalesCounts(ctx, tenantID, productIDs)
	if err != nil {
		return e.fail(result, tenantID, fmt.Errorf("backfill %s: %w", tenantID, err))
	}

	var mutations []storage.Mutation
	for i, productID := range productIDs {
		existing := current[i]
		if existing == nil {
			continue
		}
		merged := analytics.MaxMerge(*existing, totals[productID])
		if merged == *existing {
			continue
		}
		mutations = append(mutations, storage.SalesCountFloor{
			TenantID:   tenantID,
			ProductID:  productID,
			SalesCount: merged,
		})
	}

	batchSize := storage.BatchSize(e.store, e.opts.MaxBatchSize)
	chunks, err := storage.CommitChunked(ctx, e.store, mutations, batchSize)
	result.Chunks = chunks
	result.Updated = min(len(mutations), chunks*batchSize)
	e.metrics.JobChunks.WithLabelValues(metrics.JobBackfill).Add(float64(chunks))
	e.metrics.JobUpdates.WithLabelValues(metrics.JobBackfill).Add(float64(result.Updated))
	if err != nil {
		return e.fail(result, tenantID, fmt.Errorf("backfill %s: %w", tenantID, err))
	}

	e.metrics.JobRuns.WithLabelValues(metrics.JobBackfill, metrics.ResultSuccess).Inc()
	e.metrics.JobSeconds.WithLabelValues(metrics.JobBackfill).Observe(e.clock.Since(start).Seconds())

	slog.Info("[Backfill] Backfill complete",
		"tenant_id", tenantID,
		"run_id", result.RunID,
		"lookback_days", lookbackDays,
		"processed", result.Processed,
		"products", len(productIDs),
		"updated", result.Updated,
		"chunks", result.Chunks)
	return result, nil
}

// ordersSince queries the ledger with the tenant and date filters. When the
// backend cannot combine them it reads all tenant orders and applies the
// cutoff here.
func (e *Engine) ordersSince(ctx context.Context, tenantID string, cutoff time.Time) ([]v1.Order, error) {
	return storage.QueryWithFallback(ctx, storage.FallbackQuery[v1.Order]{
		Name: "backfill.orders",
		Primary: func(ctx context.Context) ([]v1.Order, error) {
			return e.ledger.QueryOrders(ctx, tenantID, &cutoff)
		},
		Broad: func(ctx context.Context) ([]v1.Order, error) {
			return e.ledger.QueryOrders(ctx, tenantID, nil)
		},
		Keep: func(o v1.Order) bool {
			return !o.PurchasedAt.Before(cutoff)
		},
		OnDegrade: e.metrics.OnDegrade,
	})
}

// readSalesCounts fetches the stored salesCount of every product, in order.
// A nil entry means the product has no counters document.
func (e *Engine) readSalesCounts(ctx context.Context, tenantID string, productIDs []string) ([]*int64, error) {
	counts := make([]*int64, len(productIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.ReadConcurrency)
	for i, productID := range productIDs {
		g.Go(func() error {
			c, err := e.store.GetProduct(gctx, tenantID, productID)
			if errors.Is(err, storage.ErrNotFound) {
				slog.Debug("[Backfill] Product not in catalog, skipping", "tenant_id", tenantID, "product_id", productID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("read product %s: %w", productID, err)
			}
			counts[i] = &c.SalesCount
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (e *Engine) fail(result BackfillResult, tenantID string, err error) (BackfillResult, error) {
	e.metrics.JobRuns.WithLabelValues(metrics.JobBackfill, metrics.ResultFailed).Inc()
	slog.Error("[Backfill] Backfill failed",
		"tenant_id", tenantID,
		"run_id", result.RunID,
		"processed", result.Processed,
		"updated", result.Updated,
		"chunks_committed", result.Chunks,
		"error", err)
	return result, err
}
