package storage_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aevon-lab/salespulse/internal/core/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryWithFallback_PrimarySucceeds(t *testing.T) {
	broadCalled := false
	q := storage.FallbackQuery[int]{
		Name:    "numbers",
		Primary: func(context.Context) ([]int, error) { return []int{1, 2}, nil },
		Broad: func(context.Context) ([]int, error) {
			broadCalled = true
			return nil, nil
		},
	}

	got, err := storage.QueryWithFallback(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
	assert.False(t, broadCalled)
}

func TestQueryWithFallback_UnsupportedUsesBroadAndFilters(t *testing.T) {
	var degraded []string
	q := storage.FallbackQuery[int]{
		Name: "evens",
		Primary: func(context.Context) ([]int, error) {
			return nil, fmt.Errorf("composite index missing: %w", storage.ErrUnsupportedQuery)
		},
		Broad:     func(context.Context) ([]int, error) { return []int{1, 2, 3, 4}, nil },
		Keep:      func(n int) bool { return n%2 == 0 },
		OnDegrade: func(name string, _ error) { degraded = append(degraded, name) },
	}

	got, err := storage.QueryWithFallback(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, got)
	assert.Equal(t, []string{"evens"}, degraded)
}

func TestQueryWithFallback_NilKeepReturnsEverything(t *testing.T) {
	q := storage.FallbackQuery[string]{
		Name:    "all",
		Primary: func(context.Context) ([]string, error) { return nil, storage.ErrUnsupportedQuery },
		Broad:   func(context.Context) ([]string, error) { return []string{"a", "b"}, nil },
	}

	got, err := storage.QueryWithFallback(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestQueryWithFallback_OtherErrorsPropagate(t *testing.T) {
	ioErr := errors.New("connection reset")
	q := storage.FallbackQuery[int]{
		Name:    "numbers",
		Primary: func(context.Context) ([]int, error) { return nil, ioErr },
		Broad: func(context.Context) ([]int, error) {
			t.Fatal("broad query must not run for I/O failures")
			return nil, nil
		},
	}

	_, err := storage.QueryWithFallback(context.Background(), q)
	require.Error(t, err)
	assert.ErrorIs(t, err, ioErr)
	assert.NotErrorIs(t, err, storage.ErrUnsupportedQuery)
}

func TestQueryWithFallback_BroadFailurePropagates(t *testing.T) {
	ioErr := errors.New("scan timed out")
	q := storage.FallbackQuery[int]{
		Name:    "numbers",
		Primary: func(context.Context) ([]int, error) { return nil, storage.ErrUnsupportedQuery },
		Broad:   func(context.Context) ([]int, error) { return nil, ioErr },
	}

	_, err := storage.QueryWithFallback(context.Background(), q)
	require.Error(t, err)
	assert.ErrorIs(t, err, ioErr)
	assert.Contains(t, err.Error(), "numbers fallback")
}
