package aggregation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aevon-lab/salespulse/internal/core/analytics"
	"github.com/aevon-lab/salespulse/internal/core/metrics"
	"github.com/aevon-lab/salespulse/internal/core/storage"
	"github.com/coder/quartz"
	"github.com/google/uuid"
)

// RollupResult summarizes one tenant's rollup run.
type RollupResult struct {
	RunID   string `json:"run_id"`
	Scanned int    `json:"scanned"`
	Skipped int    `json:"skipped"`
	// Updated counts committed signal writes, including any dropped by the
	// store because a sale moved the product's counters after the read.
	Updated int    `json:"updated"`
	Chunks  int    `json:"chunks"`
}

// Engine recomputes derived signals (velocity, trending) from stored counters.
// It is stateless between runs and never changes cumulative counters.
type Engine struct {
	store        storage.CounterStore
	policies     analytics.PolicySource
	clock        quartz.Clock
	metrics      *metrics.Metrics
	maxBatchSize int
}

func NewEngine(store storage.CounterStore, policies analytics.PolicySource, clock quartz.Clock, m *metrics.Metrics, maxBatchSize int) *Engine {
	if store == nil {
		panic("aggregation: store must not be nil")
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
	return &Engine{store: store, policies: policies, clock: clock, metrics: m, maxBatchSize: maxBatchSize}
}

// Rollup recomputes velocity and trending for every product of tenantID
// that has ever sold, and writes back only the products whose signals
// changed. Each write is guarded on the counters it was derived from, so a
// sale recorded mid-run keeps the signals it computed. Chunks committed before a failure stay committed; rerunning is
// safe because the result depends only on stored counters and the clock.
func (e *Engine) Rollup(ctx context.Context, tenantID string) (RollupResult, error) {
	start := e.clock.Now()
	result := RollupResult{RunID: uuid.NewString()}

	q := storage.ProductQuery{TenantID: tenantID}
	products, err := storage.QueryWithFallback(ctx, storage.FallbackQuery[analytics.ProductCounters]{
		Name:      "rollup.products",
		Primary:   func(ctx context.Context) ([]analytics.ProductCounters, error) { return e.store.QueryProducts(ctx, q) },
		Broad:     e.store.ScanProducts,
		Keep:      q.Matches,
		OnDegrade: e.metrics.OnDegrade,
	})
	if err != nil {
		return e.fail(result, tenantID, fmt.Errorf("rollup %s: %w", tenantID, err))
	}
	result.Scanned = len(products)

	policy := e.policies.For(tenantID)
	now := e.clock.Now()

	var mutations []storage.Mutation
	for _, c := range products {
		if c.LastSaleAt == nil {
			result.Skipped++
			continue
		}

		d := analytics.Derive(c, now, policy)
		if !d.Changed(c) {
			continue
		}
		mutations = append(mutations, storage.SignalsFor(c, d))
	}

	batchSize := storage.BatchSize(e.store, e.maxBatchSize)
	chunks, err := storage.CommitChunked(ctx, e.store, mutations, batchSize)
	result.Chunks = chunks
	result.Updated = min(len(mutations), chunks*batchSize)
	e.metrics.JobChunks.WithLabelValues(metrics.JobRollup).Add(float64(chunks))
	e.metrics.JobUpdates.WithLabelValues(metrics.JobRollup).Add(float64(result.Updated))
	if err != nil {
		return e.fail(result, tenantID, fmt.Errorf("rollup %s: %w", tenantID, err))
	}

	e.metrics.JobRuns.WithLabelValues(metrics.JobRollup, metrics.ResultSuccess).Inc()
	e.metrics.JobSeconds.WithLabelValues(metrics.JobRollup).Observe(e.clock.Since(start).Seconds())

	slog.Info("[Rollup] Rollup complete",
		"tenant_id", tenantID,
		"run_id", result.RunID,
		"scanned", result.Scanned,
		"skipped", result.Skipped,
		"updated", result.Updated,
		"chunks", result.Chunks)
	return result, nil
}

func (e *Engine) fail(result RollupResult, tenantID string, err error) (RollupResult, error) {
	e.metrics.JobRuns.WithLabelValues(metrics.JobRollup, metrics.ResultFailed).Inc()
	slog.Error("[Rollup] Rollup failed",
		"tenant_id", tenantID,
		"run_id", result.RunID,
		"updated", result.Updated,
		"chunks_committed", result.Chunks,
		"error", err)
	return result, err
}
