package partition

import "hash/fnv"

// Count is the fixed number of logical partitions.
const Count = 256

// For returns the partition ID for a given tenant ID.
// Stable and deterministic: same tenantID always maps to the same partition.
// Uses FNV-32a (stdlib, fast, well-distributed).
func For(tenantID string) int {
	h := fnv.New32a()
	h.Write([]byte(tenantID))
	return int(h.Sum32() % Count)
}

// ForN maps a tenant onto one of n workers through its partition, so a
// tenant is always handled by the same worker while n is unchanged.
// n <= 0 is treated as 1.
func ForN(tenantID string, n int) int {
	if n <= 1 {
		return 0
	}
	return For(tenantID) % n
}

// Group buckets tenants by ForN, preserving input order inside each bucket.
func Group(tenantIDs []string, n int) [][]string {
	if n <= 0 {
		n = 1
	}
	groups := make([][]string, n)
	for _, id := range tenantIDs {
		w := ForN(id, n)
		groups[w] = append(groups[w], id)
	}
	return groups
}
