package analytics

import "time"

const (
	// VelocityThreshold is the daily sales rate above which a product trends.
	VelocityThreshold = 2.0

	// RecencyWindow bounds how old the last sale may be for a product to trend.
	RecencyWindow = 7 * 24 * time.Hour

	// VelocityDays is the divisor turning salesLast7Days into a daily rate.
	VelocityDays = 7

	// DefaultMaxBatchSize is the document cap of a single batched commit.
	DefaultMaxBatchSize = 500

	// DefaultLookbackDays is the backfill window when the caller passes none.
	DefaultLookbackDays = 90
)

// ProductCounters is the sales analytics document of one catalog product.
type ProductCounters struct {
	TenantID  string `json:"tenantId"`
	ProductID string `json:"productId"`

	// SalesCount is cumulative lifetime units sold.
	SalesCount int64 `json:"salesCount"`

	// SalesLast7Days and SalesLast30Days are incremented on every sale and
	// never decayed by this service.
	SalesLast7Days  int64 `json:"salesLast7Days"`
	SalesLast30Days int64 `json:"salesLast30Days"`

	// LastSaleAt is nil for products that never had a recorded sale.
	LastSaleAt *time.Time `json:"lastSaleAt,omitempty"`

	SalesVelocity float64 `json:"salesVelocity"`
	Trending      bool    `json:"trending"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// BundleCounters is the redemption document of one bundle.
type BundleCounters struct {
	TenantID           string            `json:"tenantId"`
	BundleID           string            `json:"bundleId"`
	CurrentRedemptions int64             `json:"currentRedemptions"`
	RedemptionHistory  []RedemptionEntry `json:"redemptionHistory"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// RedemptionEntry records one bundle redemption. History is append-only and
// kept in insertion order.
type RedemptionEntry struct {
	Date       time.Time `json:"date"`
	CustomerID string    `json:"customerId"`
	OrderID    string    `json:"orderId"`
}
