package v1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a completed order as delivered by the checkout pipeline.
// Orders are owned by the order ledger; this service only reads them.
type Order struct {
	// OrderID is unique per tenant. It doubles as the idempotency key for
	// the sale recorder: an order is counted at most once.
	OrderID string `json:"orderId"`

	TenantID   string `json:"tenantId"`
	CustomerID string `json:"customerId"`

	Items []OrderItem `json:"items"`

	// BundleIDs lists bundles redeemed by this order. Optional.
	BundleIDs []string `json:"bundleIds,omitempty"`

	TotalAmount decimal.Decimal `json:"totalAmount"`

	// PurchasedAt is when the order was completed. It becomes the product's
	// lastSaleAt and the redemption date for bundles.
	PurchasedAt time.Time `json:"purchasedAt"`
}

// OrderItem is a single order line.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Validate ensures the order carries everything the sale recorder needs.
func (o *Order) Validate() error {
	if o.OrderID == "" {
		return fmt.Errorf("orderId is required")
	}

	if o.PurchasedAt.IsZero() {
		return fmt.Errorf("purchasedAt is required")
	}

	for i, item := range o.Items {
		if item.ProductID == "" {
			return fmt.Errorf("items[%d].productId is required", i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("items[%d].quantity must be > 0", i)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("items[%d].price must not be negative", i)
		}
	}

	for i, bundleID := range o.BundleIDs {
		if bundleID == "" {
			return fmt.Errorf("bundleIds[%d] must not be empty", i)
		}
	}

	if o.TotalAmount.IsNegative() {
		return fmt.Errorf("totalAmount must not be negative")
	}

	return nil
}
