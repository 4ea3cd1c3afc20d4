package projection

import (
	"time"

	"github.com/aevon-lab/salespulse/internal/core/analytics"
)

// TrendingQueryRequest selects a tenant's trending products.
type TrendingQueryRequest struct {
	TenantID string `uri:"tenant_id" binding:"required"`
	Limit    int    `form:"limit"` // default: 50
}

// BundleQueryRequest selects one bundle and how much history to return.
type BundleQueryRequest struct {
	TenantID     string `uri:"tenant_id" binding:"required"`
	BundleID     string `uri:"bundle_id" binding:"required"`
	HistoryLimit int    `form:"history_limit"` // default: all
}

// BundleView is a bundle's counters with the newest history entries last.
type BundleView struct {
	analytics.BundleCounters
	HistoryTotal int `json:"historyTotal"`
}

// TrendingResponse lists trending products, fastest sellers first.
type TrendingResponse struct {
	TenantID    string                      `json:"tenant_id"`
	Limit       int                         `json:"limit"`
	GeneratedAt time.Time                   `json:"generated_at"`
	Degraded    bool                        `json:"degraded"`
	Products    []analytics.ProductCounters `json:"products"`
}
