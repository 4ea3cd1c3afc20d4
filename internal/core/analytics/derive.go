package analytics

import "time"

// Derived holds the signals computed from stored counters.
type Derived struct {
	SalesVelocity float64
	Trending      bool
}

// Velocity returns the smoothed daily sales rate.
func Velocity(salesLast7Days int64) float64 {
	return float64(salesLast7Days) / VelocityDays
}

// Trending reports whether velocity is above the threshold and the last sale
// falls within the recency window. A nil lastSaleAt never trends.
func Trending(velocity float64, lastSaleAt *time.Time, now time.Time, p Policy) bool {
	if lastSaleAt == nil {
		return false
	}
	if velocity <= p.VelocityThreshold {
		return false
	}
	return now.Sub(*lastSaleAt) <= p.RecencyWindow
}

// TrendingAtSale is the trending test applied while a sale is being
// recorded. The sale itself makes the product recent, so only velocity counts.
func TrendingAtSale(velocity float64, p Policy) bool {
	return velocity > p.VelocityThreshold
}

// Derive recomputes velocity and trending for c as of now.
func Derive(c ProductCounters, now time.Time, p Policy) Derived {
	v := Velocity(c.SalesLast7Days)
	return Derived{
		SalesVelocity: v,
		Trending:      Trending(v, c.LastSaleAt, now, p),
	}
}

// Changed reports whether d differs from the values stored on c.
func (d Derived) Changed(c ProductCounters) bool {
	return d.SalesVelocity != c.SalesVelocity || d.Trending != c.Trending
}

// LaterOf returns the later of existing and t, treating nil as "never".
func LaterOf(existing *time.Time, t time.Time) time.Time {
	if existing != nil && existing.After(t) {
		return *existing
	}
	return t
}
