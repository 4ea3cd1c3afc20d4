package analytics

import (
	"sort"

	v1 "github.com/aevon-lab/salespulse/internal/api/v1"
)

// MaxMerge reconciles an existing counter with a recomputed one by keeping
// the larger value. The result is never below existing.
func MaxMerge(existing, aggregated int64) int64 {
	if aggregated > existing {
		return aggregated
	}
	return existing
}

// AggregateQuantities sums item quantities per product across orders.
// Products whose total is zero are omitted.
func AggregateQuantities(orders []v1.Order) map[string]int64 {
	totals := make(map[string]int64)
	for _, o := range orders {
		for _, item := range o.Items {
			if item.ProductID == "" || item.Quantity == 0 {
				continue
			}
			totals[item.ProductID] += item.Quantity
		}
	}
	for id, qty := range totals {
		if qty == 0 {
			delete(totals, id)
		}
	}
	return totals
}

// SortedKeys returns the product ids of totals in ascending order so that
// batch composition is deterministic.
func SortedKeys(totals map[string]int64) []string {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
