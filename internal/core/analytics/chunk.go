package analytics

// Chunk splits items into consecutive slices of at most size elements.
// A non-positive size falls back to DefaultMaxBatchSize.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultMaxBatchSize
	}
	if len(items) == 0 {
		return nil
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}
