// Package memory is an in-process document store implementing
// storage.CounterStore and storage.OrderLedger. It backs development runs
// and tests, and can simulate backends that reject filtered queries.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	v1 "github.com/aevon-lab/salespulse/internal/api/v1"
	"github.com/aevon-lab/salespulse/internal/core/analytics"
	"github.com/aevon-lab/salespulse/internal/core/storage"
	"github.com/coder/quartz"
)

// Op names a store operation for fault injection.
type Op string

const (
	OpGetProduct    Op = "GetProduct"
	OpGetBundle     Op = "GetBundle"
	OpQueryProducts Op = "QueryProducts"
	OpScanProducts  Op = "ScanProducts"
	OpListTenants   Op = "ListTenants"
	OpCommit        Op = "Commit"
	OpQueryOrders   Op = "QueryOrders"
)

type docKey struct {
	tenantID string
	id       string
}

// Store is safe for concurrent use. All commits run under one lock, so
// increments from concurrent orders never interleave.
type Store struct {
	mu       sync.RWMutex
	products map[docKey]analytics.ProductCounters
	bundles  map[docKey]analytics.BundleCounters
	receipts map[docKey]time.Time
	orders   []v1.Order

	maxBatchSize      int
	rejectFilterQuery bool
	clock             quartz.Clock

	faults      map[Op]error
	commitSizes []int
}

// Option configures a Store.
type Option func(*Store)

// WithMaxBatchSize caps the number of mutations per Commit.
func WithMaxBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithoutFilteredQueries makes QueryProducts, and QueryOrders with a date
// cutoff, fail with storage.ErrUnsupportedQuery.
func WithoutFilteredQueries() Option {
	return func(s *Store) { s.rejectFilterQuery = true }
}

// WithClock sets the clock used for UpdatedAt stamps.
func WithClock(c quartz.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		products:     make(map[docKey]analytics.ProductCounters),
		bundles:      make(map[docKey]analytics.BundleCounters),
		receipts:     make(map[docKey]time.Time),
		maxBatchSize: analytics.DefaultMaxBatchSize,
		clock:        quartz.NewReal(),
		faults:       make(map[Op]error),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutProduct creates or replaces a product counters document.
func (s *Store) PutProduct(c analytics.ProductCounters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[docKey{c.TenantID, c.ProductID}] = cloneProduct(c)
}

// PutBundle creates or replaces a bundle counters document.
func (s *Store) PutBundle(b analytics.BundleCounters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles[docKey{b.TenantID, b.BundleID}] = cloneBundle(b)
}

// AppendOrder adds a completed order to the ledger.
func (s *Store) AppendOrder(o v1.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o)
}

// InjectError makes every later call of op fail with err. A nil err clears it.
func (s *Store) InjectError(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// CommitSizes returns the mutation count of every successful Commit, in order.
func (s *Store) CommitSizes() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.commitSizes...)
}

// ResetCommitLog forgets recorded commit sizes.
func (s *Store) ResetCommitLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitSizes = nil
}

func (s *Store) fault(op Op) error {
	if err, ok := s.faults[op]; ok {
		return fmt.Errorf("memory %s: %w", op, err)
	}
	return nil
}

func (s *Store) GetProduct(_ context.Context, tenantID, productID string) (*analytics.ProductCounters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fault(OpGetProduct); err != nil {
		return nil, err
	}

	c, ok := s.products[docKey{tenantID, productID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := cloneProduct(c)
	return &out, nil
}

func (s *Store) GetBundle(_ context.Context, tenantID, bundleID string) (*analytics.BundleCounters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fault(OpGetBundle); err != nil {
		return nil, err
	}

	b, ok := s.bundles[docKey{tenantID, bundleID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := cloneBundle(b)
	return &out, nil
}

func (s *Store) QueryProducts(_ context.Context, q storage.ProductQuery) ([]analytics.ProductCounters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fault(OpQueryProducts); err != nil {
		return nil, err
	}
	if s.rejectFilterQuery {
		return nil, fmt.Errorf("memory: filter on tenantId: %w", storage.ErrUnsupportedQuery)
	}

	var out []analytics.ProductCounters
	for _, c := range s.products {
		if q.Matches(c) {
			out = append(out, cloneProduct(c))
		}
	}
	sortProducts(out)
	return out, nil
}

func (s *Store) ScanProducts(_ context.Context) ([]analytics.ProductCounters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fault(OpScanProducts); err != nil {
		return nil, err
	}

	out := make([]analytics.ProductCounters, 0, len(s.products))
	for _, c := range s.products {
		out = append(out, cloneProduct(c))
	}
	sortProducts(out)
	return out, nil
}

func (s *Store) ListTenants(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fault(OpListTenants); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for k := range s.products {
		seen[k.tenantID] = struct{}{}
	}
	tenants := make([]string, 0, len(seen))
	for t := range seen {
		tenants = append(tenants, t)
	}
	sort.Strings(tenants)
	return tenants, nil
}

func (s *Store) MaxBatchSize() int {
	return s.maxBatchSize
}

// Commit validates the whole batch before touching any document, so a
// rejected batch leaves the store unchanged.
func (s *Store) Commit(_ context.Context, mutations []storage.Mutation) error {
	if len(mutations) > s.maxBatchSize {
		return fmt.Errorf("memory commit of %d mutations (max %d): %w", len(mutations), s.maxBatchSize, storage.ErrBatchTooLarge)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpCommit); err != nil {
		return err
	}

	pending := make(map[docKey]struct{})
	for _, m := range mutations {
		switch m := m.(type) {
		case storage.OrderReceipt:
			k := docKey{m.TenantID, m.OrderID}
			if _, exists := s.receipts[k]; exists {
				return fmt.Errorf("memory commit %s: %w", m.DocumentKey(), storage.ErrDuplicate)
			}
			if _, exists := pending[k]; exists {
				return fmt.Errorf("memory commit %s: %w", m.DocumentKey(), storage.ErrDuplicate)
			}
			pending[k] = struct{}{}
		case storage.ProductSale, storage.BundleRedemption, storage.ProductSignals, storage.SalesCountFloor:
		default:
			return fmt.Errorf("memory commit: unsupported mutation %T", m)
		}
	}

	now := s.clock.Now()
	for _, m := range mutations {
		s.apply(m, now)
	}
	s.commitSizes = append(s.commitSizes, len(mutations))
	return nil
}

func (s *Store) apply(m storage.Mutation, now time.Time) {
	switch m := m.(type) {
	case storage.ProductSale:
		k := docKey{m.TenantID, m.ProductID}
		c, ok := s.products[k]
		if !ok {
			return
		}
		c.SalesCount += m.Quantity
		c.SalesLast7Days += m.Quantity
		c.SalesLast30Days += m.Quantity
		last := analytics.LaterOf(c.LastSaleAt, m.SoldAt)
		c.LastSaleAt = &last
		c.SalesVelocity = analytics.Velocity(c.SalesLast7Days)
		c.Trending = analytics.TrendingAtSale(c.SalesVelocity, analytics.Policy{VelocityThreshold: m.VelocityThreshold})
		c.UpdatedAt = now
		s.products[k] = c

	case storage.BundleRedemption:
		k := docKey{m.TenantID, m.BundleID}
		b, ok := s.bundles[k]
		if !ok {
			return
		}
		b.CurrentRedemptions++
		history := make([]analytics.RedemptionEntry, len(b.RedemptionHistory), len(b.RedemptionHistory)+1)
		copy(history, b.RedemptionHistory)
		b.RedemptionHistory = append(history, m.Entry)
		b.UpdatedAt = now
		s.bundles[k] = b

	case storage.ProductSignals:
		k := docKey{m.TenantID, m.ProductID}
		c, ok := s.products[k]
		if !ok || c.SalesLast7Days != m.ReadSalesLast7Days || !sameInstant(c.LastSaleAt, m.ReadLastSaleAt) {
			return
		}
		c.SalesVelocity = m.SalesVelocity
		c.Trending = m.Trending
		c.UpdatedAt = now
		s.products[k] = c

	case storage.SalesCountFloor:
		k := docKey{m.TenantID, m.ProductID}
		c, ok := s.products[k]
		if !ok {
			return
		}
		c.SalesCount = analytics.MaxMerge(c.SalesCount, m.SalesCount)
		c.UpdatedAt = now
		s.products[k] = c

	case storage.OrderReceipt:
		s.receipts[docKey{m.TenantID, m.OrderID}] = m.RecordedAt
	}
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (s *Store) QueryOrders(_ context.Context, tenantID string, since *time.Time) ([]v1.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fault(OpQueryOrders); err != nil {
		return nil, err
	}
	if since != nil && s.rejectFilterQuery {
		return nil, fmt.Errorf("memory: filter on tenantId and purchasedAt: %w", storage.ErrUnsupportedQuery)
	}

	var out []v1.Order
	for _, o := range s.orders {
		if o.TenantID != tenantID {
			continue
		}
		if since != nil && o.PurchasedAt.Before(*since) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PurchasedAt.Before(out[j].PurchasedAt)
	})
	return out, nil
}

func sortProducts(ps []analytics.ProductCounters) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].TenantID != ps[j].TenantID {
			return ps[i].TenantID < ps[j].TenantID
		}
		return ps[i].ProductID < ps[j].ProductID
	})
}

func cloneProduct(c analytics.ProductCounters) analytics.ProductCounters {
	if c.LastSaleAt != nil {
		t := *c.LastSaleAt
		c.LastSaleAt = &t
	}
	return c
}

func cloneBundle(b analytics.BundleCounters) analytics.BundleCounters {
	b.RedemptionHistory = append([]analytics.RedemptionEntry(nil), b.RedemptionHistory...)
	return b
}

var (
	_ storage.CounterStore = (*Store)(nil)
	_ storage.OrderLedger  = (*Store)(nil)
)
