package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/aevon-lab/salespulse/internal/api/v1"
	"github.com/aevon-lab/salespulse/internal/core/analytics"
)

var (
	// ErrNotFound is returned when a product or bundle document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate is returned when an order receipt for the same (tenant_id, order_id) already exists.
	ErrDuplicate = errors.New("order already recorded")

	// ErrUnsupportedQuery marks a query the backend cannot execute as requested.
	// Callers recover by widening the query and filtering in memory.
	ErrUnsupportedQuery = errors.New("query not supported by store")

	// ErrBatchTooLarge is returned when a single commit exceeds the store's batch cap.
	ErrBatchTooLarge = errors.New("batch exceeds max batch size")
)

// ProductQuery selects product counters for a tenant.
type ProductQuery struct {
	TenantID string

	// TrendingOnly restricts results to products currently flagged trending.
	TrendingOnly bool
}

// Matches reports whether c satisfies q. Used for in-memory filtering on
// the fallback path.
func (q ProductQuery) Matches(c analytics.ProductCounters) bool {
	if c.TenantID != q.TenantID {
		return false
	}
	if q.TrendingOnly && !c.Trending {
		return false
	}
	return true
}

// CounterStore is the keyed document store holding product and bundle counters.
type CounterStore interface {
	// GetProduct returns ErrNotFound when the product has no counters document.
	GetProduct(ctx context.Context, tenantID, productID string) (*analytics.ProductCounters, error)

	// GetBundle returns ErrNotFound when the bundle has no counters document.
	GetBundle(ctx context.Context, tenantID, bundleID string) (*analytics.BundleCounters, error)

	// QueryProducts runs a server-side filtered query. It may fail with
	// ErrUnsupportedQuery; see QueryWithFallback.
	QueryProducts(ctx context.Context, q ProductQuery) ([]analytics.ProductCounters, error)

	// ScanProducts returns product counters of every tenant. It is the broad
	// query used when QueryProducts cannot run.
	ScanProducts(ctx context.Context) ([]analytics.ProductCounters, error)

	// ListTenants returns the distinct tenants owning product counters.
	ListTenants(ctx context.Context) ([]string, error)

	// Commit applies all mutations atomically. Batches larger than
	// MaxBatchSize fail with ErrBatchTooLarge; an existing order receipt
	// fails the whole batch with ErrDuplicate.
	Commit(ctx context.Context, mutations []Mutation) error

	// MaxBatchSize is the largest batch Commit accepts.
	MaxBatchSize() int
}

// OrderLedger is the read-only source of truth for completed orders.
type OrderLedger interface {
	// QueryOrders returns the tenant's orders purchased at or after since.
	// A nil since returns all of the tenant's orders. Backends that cannot
	// combine the tenant and date filters fail with ErrUnsupportedQuery.
	QueryOrders(ctx context.Context, tenantID string, since *time.Time) ([]v1.Order, error)
}
