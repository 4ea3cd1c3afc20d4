package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// FallbackQuery describes a precise query plus the broader query that
// replaces it when the backend reports ErrUnsupportedQuery.
type FallbackQuery[T any] struct {
	// Name labels the query in logs and metrics.
	Name string

	Primary func(ctx context.Context) ([]T, error)
	Broad   func(ctx context.Context) ([]T, error)

	// Keep applies the primary query's predicate in memory to broad results.
	Keep func(T) bool

	// OnDegrade is called once when the broad path is taken.
	OnDegrade func(name string, cause error)
}

// QueryWithFallback runs q.Primary. When it fails with ErrUnsupportedQuery
// the degradation is logged as a warning, q.Broad runs instead and its
// results are filtered through q.Keep. Any other error, or a failure of the
// broad query, is returned.
func QueryWithFallback[T any](ctx context.Context, q FallbackQuery[T]) ([]T, error) {
	results, err := q.Primary(ctx)
	if err == nil {
		return results, nil
	}
	if !errors.Is(err, ErrUnsupportedQuery) {
		return nil, fmt.Errorf("%s: %w", q.Name, err)
	}

	slog.Warn("[Storage] Precise query unsupported, falling back to broad scan",
		"query", q.Name,
		"error", err)
	if q.OnDegrade != nil {
		q.OnDegrade(q.Name, err)
	}

	broad, err := q.Broad(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s fallback: %w", q.Name, err)
	}

	filtered := make([]T, 0, len(broad))
	for _, item := range broad {
		if q.Keep == nil || q.Keep(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}
