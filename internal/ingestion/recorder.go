package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	v1 "github.com/aevon-lab/salespulse/internal/api/v1"
	"github.com/aevon-lab/salespulse/internal/core/analytics"
	"github.com/aevon-lab/salespulse/internal/core/metrics"
	"github.com/aevon-lab/salespulse/internal/core/storage"
	"github.com/coder/quartz"
)

// RecordResult summarizes what one order changed, as seen when the order was
// read.
type RecordResult struct {
	ProductsUpdated int      `json:"products_updated"`
	BundlesUpdated  int      `json:"bundles_updated"`
	SkippedProducts []string `json:"skipped_products,omitempty"`
	SkippedBundles  []string `json:"skipped_bundles,omitempty"`
}

// Recorder applies a completed order to product and bundle counters as one
// atomic batch.
type Recorder struct {
	store    storage.CounterStore
	policies analytics.PolicySource
	clock    quartz.Clock
	metrics  *metrics.Metrics
}

func NewRecorder(store storage.CounterStore, policies analytics.PolicySource, clock quartz.Clock, m *metrics.Metrics) *Recorder {
	if store == nil {
		panic("ingestion: store must not be nil")
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
	return &Recorder{store: store, policies: policies, clock: clock, metrics: m}
}

// RecordSale increments counters for every line item whose product exists
// and records a redemption for every existing bundle. Missing products and
// bundles are skipped. The order receipt travels in the same batch, so a
// re-delivered order fails with storage.ErrDuplicate and changes nothing.
// An order touching no existing document writes nothing.
//
// Existence is checked when the order is read. A product or bundle deleted
// between that check and the commit is skipped by the store without failing
// the batch, and still counts in ProductsUpdated or BundlesUpdated.
func (r *Recorder) RecordSale(ctx context.Context, tenantID string, order v1.Order) (RecordResult, error) {
	var result RecordResult
	policy := r.policies.For(tenantID)

	mutations := []storage.Mutation{storage.OrderReceipt{
		TenantID:   tenantID,
		OrderID:    order.OrderID,
		RecordedAt: r.clock.Now(),
	}}

	exists := make(map[string]bool, len(order.Items))
	for _, item := range order.Items {
		found, seen := exists[item.ProductID]
		if !seen {
			var err error
			found, err = r.productExists(ctx, tenantID, item.ProductID)
			if err != nil {
				r.metrics.OrdersRecorded.WithLabelValues(metrics.ResultFailed).Inc()
				return RecordResult{}, fmt.Errorf("record order %s: %w", order.OrderID, err)
			}
			exists[item.ProductID] = found
			if !found {
				result.SkippedProducts = append(result.SkippedProducts, item.ProductID)
			}
		}
		if !found {
			continue
		}

		mutations = append(mutations, storage.ProductSale{
			TenantID:          tenantID,
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			SoldAt:            order.PurchasedAt,
			VelocityThreshold: policy.VelocityThreshold,
		})
		result.ProductsUpdated++
	}

	for _, bundleID := range order.BundleIDs {
		_, err := r.store.GetBundle(ctx, tenantID, bundleID)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Debug("[Recorder] Bundle not found, skipping", "tenant_id", tenantID, "bundle_id", bundleID)
			result.SkippedBundles = append(result.SkippedBundles, bundleID)
			continue
		}
		if err != nil {
			r.metrics.OrdersRecorded.WithLabelValues(metrics.ResultFailed).Inc()
			return RecordResult{}, fmt.Errorf("record order %s: read bundle %s: %w", order.OrderID, bundleID, err)
		}

		mutations = append(mutations, storage.BundleRedemption{
			TenantID: tenantID,
			BundleID: bundleID,
			Entry: analytics.RedemptionEntry{
				Date:       order.PurchasedAt,
				CustomerID: order.CustomerID,
				OrderID:    order.OrderID,
			},
		})
		result.BundlesUpdated++
	}

	if result.ProductsUpdated == 0 && result.BundlesUpdated == 0 {
		slog.Info("[Recorder] Order touches no known product or bundle, nothing recorded",
			"tenant_id", tenantID,
			"order_id", order.OrderID)
		r.metrics.OrdersRecorded.WithLabelValues(metrics.ResultEmpty).Inc()
		return result, nil
	}

	if limit := r.store.MaxBatchSize(); len(mutations) > limit {
		r.metrics.OrdersRecorded.WithLabelValues(metrics.ResultFailed).Inc()
		return RecordResult{}, fmt.Errorf("record order %s: %d updates (max %d): %w",
			order.OrderID, len(mutations), limit, storage.ErrBatchTooLarge)
	}

	if err := r.store.Commit(ctx, mutations); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			slog.Info("[Recorder] Duplicate order rejected", "tenant_id", tenantID, "order_id", order.OrderID)
			r.metrics.OrdersRecorded.WithLabelValues(metrics.ResultDuplicate).Inc()
		} else {
			r.metrics.OrdersRecorded.WithLabelValues(metrics.ResultFailed).Inc()
		}
		return RecordResult{}, fmt.Errorf("record order %s: %w", order.OrderID, err)
	}

	r.metrics.OrdersRecorded.WithLabelValues(metrics.ResultRecorded).Inc()
	r.metrics.ProductsIncremented.Add(float64(result.ProductsUpdated))
	r.metrics.BundlesRedeemed.Add(float64(result.BundlesUpdated))

	slog.Info("[Recorder] Recorded sale",
		"tenant_id", tenantID,
		"order_id", order.OrderID,
		"products", result.ProductsUpdated,
		"bundles", result.BundlesUpdated,
		"skipped_products", len(result.SkippedProducts),
		"skipped_bundles", len(result.SkippedBundles))
	return result, nil
}

func (r *Recorder) productExists(ctx context.Context, tenantID, productID string) (bool, error) {
	_, err := r.store.GetProduct(ctx, tenantID, productID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Debug("[Recorder] Product not found, skipping", "tenant_id", tenantID, "product_id", productID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read product %s: %w", productID, err)
	}
	return true, nil
}
