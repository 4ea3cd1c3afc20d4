package storage

import (
	"context"
	"fmt"

	"github.com/aevon-lab/salespulse/internal/core/analytics"
)

// CommitChunked commits mutations in consecutive chunks of at most
// maxBatchSize, one Commit per chunk. Chunks are independent: when a chunk
// fails, earlier chunks stay committed. It returns the number of chunks
// committed successfully.
func CommitChunked(ctx context.Context, store CounterStore, mutations []Mutation, maxBatchSize int) (int, error) {
	maxBatchSize = BatchSize(store, maxBatchSize)

	committed := 0
	for i, chunk := range analytics.Chunk(mutations, maxBatchSize) {
		if err := store.Commit(ctx, chunk); err != nil {
			return committed, fmt.Errorf("commit chunk %d (%d mutations): %w", i+1, len(chunk), err)
		}
		committed++
	}
	return committed, nil
}

// BatchSize clamps a requested batch size to what store accepts. A
// non-positive request means the store's own cap.
func BatchSize(store CounterStore, requested int) int {
	limit := store.MaxBatchSize()
	if requested <= 0 || requested > limit {
		return limit
	}
	return requested
}
