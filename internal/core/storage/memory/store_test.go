package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	v1 "github.com/aevon-lab/salespulse/internal/api/v1"
	"github.com/aevon-lab/salespulse/internal/core/analytics"
	"github.com/aevon-lab/salespulse/internal/core/storage"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetMissing(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.GetProduct(ctx, "t1", "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.GetBundle(ctx, "t1", "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ProductSaleIncrementsAtomically(t *testing.T) {
	clock := quartz.NewMock(t)
	s := NewStore(WithClock(clock))
	ctx := context.Background()
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "p1", SalesCount: 10, SalesLast7Days: 5, SalesLast30Days: 15})

	soldAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := s.Commit(ctx, []storage.Mutation{
		storage.ProductSale{TenantID: "t1", ProductID: "p1", Quantity: 2, SoldAt: soldAt, VelocityThreshold: 2},
	})
	require.NoError(t, err)

	got, err := s.GetProduct(ctx, "t1", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.SalesCount)
	assert.Equal(t, int64(7), got.SalesLast7Days)
	assert.Equal(t, int64(17), got.SalesLast30Days)
	assert.Equal(t, 1.0, got.SalesVelocity)
	assert.False(t, got.Trending)
	require.NotNil(t, got.LastSaleAt)
	assert.True(t, got.LastSaleAt.Equal(soldAt))
	assert.True(t, got.UpdatedAt.Equal(clock.Now()))
}

func TestStore_ProductSaleTrendsOnlyAboveThreshold(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	soldAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "at", SalesLast7Days: 13})
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "above", SalesLast7Days: 14})

	require.NoError(t, s.Commit(ctx, []storage.Mutation{
		storage.ProductSale{TenantID: "t1", ProductID: "at", Quantity: 1, SoldAt: soldAt, VelocityThreshold: 2},
		storage.ProductSale{TenantID: "t1", ProductID: "above", Quantity: 1, SoldAt: soldAt, VelocityThreshold: 2},
	}))

	at, _ := s.GetProduct(ctx, "t1", "at")
	above, _ := s.GetProduct(ctx, "t1", "above")
	assert.Equal(t, 2.0, at.SalesVelocity)
	assert.False(t, at.Trending)
	assert.True(t, above.Trending)
}

func TestStore_ProductSaleNeverMovesLastSaleBackwards(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	later := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "p1", LastSaleAt: &later})

	err := s.Commit(ctx, []storage.Mutation{
		storage.ProductSale{TenantID: "t1", ProductID: "p1", Quantity: 1, SoldAt: later.Add(-48 * time.Hour), VelocityThreshold: 2},
	})
	require.NoError(t, err)

	got, _ := s.GetProduct(ctx, "t1", "p1")
	assert.True(t, got.LastSaleAt.Equal(later))
}

func TestStore_ConcurrentSalesDoNotLoseUpdates(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "p1"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Commit(ctx, []storage.Mutation{
				storage.ProductSale{TenantID: "t1", ProductID: "p1", Quantity: 1, SoldAt: time.Now(), VelocityThreshold: 2},
			})
		}()
	}
	wg.Wait()

	got, _ := s.GetProduct(ctx, "t1", "p1")
	assert.Equal(t, int64(50), got.SalesCount)
	assert.Equal(t, int64(50), got.SalesLast7Days)
}

func TestStore_BundleRedemptionAppendsHistory(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.PutBundle(analytics.BundleCounters{
		TenantID:           "t1",
		BundleID:           "b1",
		CurrentRedemptions: 1,
		RedemptionHistory:  []analytics.RedemptionEntry{{OrderID: "o-0"}},
	})

	entry := analytics.RedemptionEntry{Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), CustomerID: "c1", OrderID: "o-1"}
	require.NoError(t, s.Commit(ctx, []storage.Mutation{
		storage.BundleRedemption{TenantID: "t1", BundleID: "b1", Entry: entry},
	}))

	got, err := s.GetBundle(ctx, "t1", "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.CurrentRedemptions)
	require.Len(t, got.RedemptionHistory, 2)
	assert.Equal(t, "o-0", got.RedemptionHistory[0].OrderID)
	assert.Equal(t, entry, got.RedemptionHistory[1])
}

func TestStore_SalesCountFloorNeverLowers(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "high", SalesCount: 10})
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "low", SalesCount: 0})

	require.NoError(t, s.Commit(ctx, []storage.Mutation{
		storage.SalesCountFloor{TenantID: "t1", ProductID: "high", SalesCount: 5},
		storage.SalesCountFloor{TenantID: "t1", ProductID: "low", SalesCount: 5},
	}))

	high, _ := s.GetProduct(ctx, "t1", "high")
	low, _ := s.GetProduct(ctx, "t1", "low")
	assert.Equal(t, int64(10), high.SalesCount)
	assert.Equal(t, int64(5), low.SalesCount)
}

func TestStore_ProductSignalsGuardedOnReadCounters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	readAt := time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)
	soldAt := readAt.Add(time.Hour)
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "moved", SalesLast7Days: 7, LastSaleAt: &readAt})
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "still", SalesLast7Days: 7, LastSaleAt: &readAt})
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "never", SalesLast7Days: 0})

	require.NoError(t, s.Commit(ctx, []storage.Mutation{
		storage.ProductSale{TenantID: "t1", ProductID: "moved", Quantity: 8, SoldAt: soldAt, VelocityThreshold: 2},
	}))

	stale := readAt.In(time.FixedZone("UTC+2", 2*60*60))
	require.NoError(t, s.Commit(ctx, []storage.Mutation{
		storage.ProductSignals{TenantID: "t1", ProductID: "moved", SalesVelocity: 1, ReadSalesLast7Days: 7, ReadLastSaleAt: &readAt},
		storage.ProductSignals{TenantID: "t1", ProductID: "still", SalesVelocity: 1, ReadSalesLast7Days: 7, ReadLastSaleAt: &stale},
		storage.ProductSignals{TenantID: "t1", ProductID: "never", Trending: true, ReadLastSaleAt: &readAt},
	}))

	moved, _ := s.GetProduct(ctx, "t1", "moved")
	assert.InDelta(t, 15.0/7, moved.SalesVelocity, 1e-9)
	assert.True(t, moved.Trending)

	still, _ := s.GetProduct(ctx, "t1", "still")
	assert.Equal(t, 1.0, still.SalesVelocity)

	never, _ := s.GetProduct(ctx, "t1", "never")
	assert.False(t, never.Trending)
}

func TestStore_MutationsOnMissingDocumentsAreNoOps(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Commit(ctx, []storage.Mutation{
		storage.ProductSale{TenantID: "t1", ProductID: "ghost", Quantity: 1, SoldAt: time.Now()},
		storage.BundleRedemption{TenantID: "t1", BundleID: "ghost"},
	}))

	_, err := s.GetProduct(ctx, "t1", "ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_DuplicateReceiptRollsBackBatch(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "p1"})

	batch := []storage.Mutation{
		storage.ProductSale{TenantID: "t1", ProductID: "p1", Quantity: 3, SoldAt: time.Now(), VelocityThreshold: 2},
		storage.OrderReceipt{TenantID: "t1", OrderID: "o-1", RecordedAt: time.Now()},
	}
	require.NoError(t, s.Commit(ctx, batch))

	err := s.Commit(ctx, batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	got, _ := s.GetProduct(ctx, "t1", "p1")
	assert.Equal(t, int64(3), got.SalesCount)
}

func TestStore_SameOrderIDInOtherTenantIsNotDuplicate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Commit(ctx, []storage.Mutation{storage.OrderReceipt{TenantID: "t1", OrderID: "o-1"}}))
	require.NoError(t, s.Commit(ctx, []storage.Mutation{storage.OrderReceipt{TenantID: "t2", OrderID: "o-1"}}))
}

func TestStore_BatchCap(t *testing.T) {
	s := NewStore(WithMaxBatchSize(2))
	ctx := context.Background()

	err := s.Commit(ctx, []storage.Mutation{
		storage.ProductSignals{TenantID: "t1", ProductID: "a"},
		storage.ProductSignals{TenantID: "t1", ProductID: "b"},
		storage.ProductSignals{TenantID: "t1", ProductID: "c"},
	})
	assert.ErrorIs(t, err, storage.ErrBatchTooLarge)
	assert.Equal(t, 2, s.MaxBatchSize())
	assert.Empty(t, s.CommitSizes())
}

func TestStore_QueryProducts(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "b", Trending: true})
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "a"})
	s.PutProduct(analytics.ProductCounters{TenantID: "t2", ProductID: "c"})

	all, err := s.QueryProducts(ctx, storage.ProductQuery{TenantID: "t1"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ProductID)
	assert.Equal(t, "b", all[1].ProductID)

	trending, err := s.QueryProducts(ctx, storage.ProductQuery{TenantID: "t1", TrendingOnly: true})
	require.NoError(t, err)
	require.Len(t, trending, 1)
	assert.Equal(t, "b", trending[0].ProductID)

	scan, err := s.ScanProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, scan, 3)

	tenants, err := s.ListTenants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, tenants)
}

func TestStore_WithoutFilteredQueries(t *testing.T) {
	s := NewStore(WithoutFilteredQueries())
	ctx := context.Background()
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "a"})
	s.AppendOrder(v1.Order{OrderID: "o1", TenantID: "t1", PurchasedAt: time.Now()})

	_, err := s.QueryProducts(ctx, storage.ProductQuery{TenantID: "t1"})
	assert.ErrorIs(t, err, storage.ErrUnsupportedQuery)

	since := time.Now().Add(-time.Hour)
	_, err = s.QueryOrders(ctx, "t1", &since)
	assert.ErrorIs(t, err, storage.ErrUnsupportedQuery)

	orders, err := s.QueryOrders(ctx, "t1", nil)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = s.ScanProducts(ctx)
	assert.NoError(t, err)
}

func TestStore_QueryOrdersFiltersTenantAndCutoff(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.AppendOrder(v1.Order{OrderID: "new", TenantID: "t1", PurchasedAt: base.Add(time.Hour)})
	s.AppendOrder(v1.Order{OrderID: "old", TenantID: "t1", PurchasedAt: base.Add(-time.Hour)})
	s.AppendOrder(v1.Order{OrderID: "edge", TenantID: "t1", PurchasedAt: base})
	s.AppendOrder(v1.Order{OrderID: "other", TenantID: "t2", PurchasedAt: base.Add(time.Hour)})

	got, err := s.QueryOrders(ctx, "t1", &base)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "edge", got[0].OrderID)
	assert.Equal(t, "new", got[1].OrderID)
}

func TestStore_InjectError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("unavailable")

	s.InjectError(OpScanProducts, boom)
	_, err := s.ScanProducts(ctx)
	assert.ErrorIs(t, err, boom)

	s.InjectError(OpScanProducts, nil)
	_, err = s.ScanProducts(ctx)
	assert.NoError(t, err)
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.PutProduct(analytics.ProductCounters{TenantID: "t1", ProductID: "p1", LastSaleAt: &at})

	got, _ := s.GetProduct(ctx, "t1", "p1")
	*got.LastSaleAt = at.Add(time.Hour)
	got.SalesCount = 99

	again, _ := s.GetProduct(ctx, "t1", "p1")
	assert.True(t, again.LastSaleAt.Equal(at))
	assert.Zero(t, again.SalesCount)
}
