package storage

import (
	"fmt"
	"time"

	"github.com/aevon-lab/salespulse/internal/core/analytics"
)

// Mutation is one document update inside a batched commit.
type Mutation interface {
	// DocumentKey identifies the document touched, for logging and errors.
	DocumentKey() string
}

// ProductSale atomically adds Quantity to a product's cumulative counters,
// moves LastSaleAt forward to SoldAt and recomputes velocity and trending
// from the post-increment values. It is a no-op when the product is missing.
type ProductSale struct {
	TenantID          string
	ProductID         string
	Quantity          int64
	SoldAt            time.Time
	VelocityThreshold float64
}

// BundleRedemption increments a bundle's redemptions by one and appends Entry
// to its history. It is a no-op when the bundle is missing.
type BundleRedemption struct {
	TenantID string
	BundleID string
	Entry    analytics.RedemptionEntry
}

// ProductSignals overwrites a product's derived velocity and trending flag.
// The write is compare-and-set: it only lands while the stored
// salesLast7Days and lastSaleAt still equal ReadSalesLast7Days and
// ReadLastSaleAt, so a sale committed after the read is never clobbered.
// A guarded-out write is a silent no-op, like a missing product.
type ProductSignals struct {
	TenantID      string
	ProductID     string
	SalesVelocity float64
	Trending      bool

	ReadSalesLast7Days int64
	ReadLastSaleAt     *time.Time
}

// SignalsFor builds the ProductSignals write for d, guarded on the counters
// c it was derived from.
func SignalsFor(c analytics.ProductCounters, d analytics.Derived) ProductSignals {
	return ProductSignals{
		TenantID:           c.TenantID,
		ProductID:          c.ProductID,
		SalesVelocity:      d.SalesVelocity,
		Trending:           d.Trending,
		ReadSalesLast7Days: c.SalesLast7Days,
		ReadLastSaleAt:     c.LastSaleAt,
	}
}

// SalesCountFloor raises a product's salesCount to at least SalesCount.
// It never lowers the stored value.
type SalesCountFloor struct {
	TenantID   string
	ProductID  string
	SalesCount int64
}

// OrderReceipt marks an order as recorded. Committing a receipt that already
// exists fails the batch with ErrDuplicate.
type OrderReceipt struct {
	TenantID   string
	OrderID    string
	RecordedAt time.Time
}

func (m ProductSale) DocumentKey() string      { return productKey(m.TenantID, m.ProductID) }
func (m BundleRedemption) DocumentKey() string { return fmt.Sprintf("bundles/%s/%s", m.TenantID, m.BundleID) }
func (m ProductSignals) DocumentKey() string   { return productKey(m.TenantID, m.ProductID) }
func (m SalesCountFloor) DocumentKey() string  { return productKey(m.TenantID, m.ProductID) }
func (m OrderReceipt) DocumentKey() string     { return fmt.Sprintf("receipts/%s/%s", m.TenantID, m.OrderID) }

func productKey(tenantID, productID string) string {
	return fmt.Sprintf("products/%s/%s", tenantID, productID)
}
