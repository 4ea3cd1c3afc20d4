package projection

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aevon-lab/salespulse/internal/core/analytics"
	"github.com/aevon-lab/salespulse/internal/core/metrics"
	"github.com/aevon-lab/salespulse/internal/core/storage"
	"github.com/coder/quartz"
)

const (
	defaultTrendingLimit = 50
	maxTrendingLimit     = 500
)

var (
	// ErrInvalidQuery marks request validation errors that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNotFound is returned when the requested product or bundle has no counters.
	ErrNotFound = errors.New("not found")
)

// Service implements the read side over the counter store.
type Service struct {
	store   storage.CounterStore
	clock   quartz.Clock
	metrics *metrics.Metrics
}

// NewService creates a new projection service.
func NewService(store storage.CounterStore, clock quartz.Clock, m *metrics.Metrics) *Service {
	if store == nil {
		panic("projection: store must not be nil")
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	if m == nil {
		m = metrics.Discard()
	}
	return &Service{store: store, clock: clock, metrics: m}
}

// Product returns a product's counters as last written.
func (s *Service) Product(ctx context.Context, tenantID, productID string) (*analytics.ProductCounters, error) {
	c, err := s.store.GetProduct(ctx, tenantID, productID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	return c, nil
}

// Bundle returns a bundle's counters. A positive HistoryLimit keeps only the
// newest entries.
func (s *Service) Bundle(ctx context.Context, req BundleQueryRequest) (*BundleView, error) {
	if req.HistoryLimit < 0 {
		return nil, invalidQueryf("history_limit must not be negative")
	}

	b, err := s.store.GetBundle(ctx, req.TenantID, req.BundleID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("bundle %s: %w", req.BundleID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bundle %s: %w", req.BundleID, err)
	}

	view := &BundleView{BundleCounters: *b, HistoryTotal: len(b.RedemptionHistory)}
	if req.HistoryLimit > 0 && len(view.RedemptionHistory) > req.HistoryLimit {
		view.RedemptionHistory = view.RedemptionHistory[len(view.RedemptionHistory)-req.HistoryLimit:]
	}
	return view, nil
}

// Trending lists the tenant's products flagged trending, highest velocity
// first, ties broken by product id.
func (s *Service) Trending(ctx context.Context, req TrendingQueryRequest) (*TrendingResponse, error) {
	if req.TenantID == "" {
		return nil, invalidQueryf("tenant_id is required")
	}
	if req.Limit == 0 {
		req.Limit = defaultTrendingLimit
	}
	if req.Limit < 0 || req.Limit > maxTrendingLimit {
		return nil, invalidQueryf("limit must be between 1 and %d", maxTrendingLimit)
	}

	degraded := false
	q := storage.ProductQuery{TenantID: req.TenantID, TrendingOnly: true}
	products, err := storage.QueryWithFallback(ctx, storage.FallbackQuery[analytics.ProductCounters]{
		Name:    "projection.trending",
		Primary: func(ctx context.Context) ([]analytics.ProductCounters, error) { return s.store.QueryProducts(ctx, q) },
		Broad:   s.store.ScanProducts,
		Keep:    q.Matches,
		OnDegrade: func(name string, cause error) {
			degraded = true
			s.metrics.OnDegrade(name, cause)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query trending: %w", err)
	}

	sort.SliceStable(products, func(i, j int) bool {
		if products[i].SalesVelocity != products[j].SalesVelocity {
			return products[i].SalesVelocity > products[j].SalesVelocity
		}
		return products[i].ProductID < products[j].ProductID
	})
	if len(products) > req.Limit {
		products = products[:req.Limit]
	}
	if products == nil {
		products = []analytics.ProductCounters{}
	}

	return &TrendingResponse{
		TenantID:    req.TenantID,
		Limit:       req.Limit,
		GeneratedAt: s.clock.Now().UTC(),
		Degraded:    degraded,
		Products:    products,
	}, nil
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
