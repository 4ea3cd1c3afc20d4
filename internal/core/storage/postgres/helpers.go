package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	v1 "github.com/aevon-lab/salespulse/internal/api/v1"
	"github.com/aevon-lab/salespulse/internal/core/analytics"
	"github.com/aevon-lab/salespulse/internal/core/storage"
	"github.com/lib/pq"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanProductRow scans one product_counters row.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanProductRow(row scanner) (*analytics.ProductCounters, error) {
	var c analytics.ProductCounters
	var lastSaleAt sql.NullTime

	err := row.Scan(
		&c.TenantID,
		&c.ProductID,
		&c.SalesCount,
		&c.SalesLast7Days,
		&c.SalesLast30Days,
		&lastSaleAt,
		&c.SalesVelocity,
		&c.Trending,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastSaleAt.Valid {
		t := lastSaleAt.Time
		c.LastSaleAt = &t
	}
	return &c, nil
}

// nullTime maps a nil timestamp to SQL NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func scanBundleRow(row scanner) (*analytics.BundleCounters, error) {
	var b analytics.BundleCounters
	var historyJSON []byte

	if err := row.Scan(&b.TenantID, &b.BundleID, &b.CurrentRedemptions, &historyJSON, &b.UpdatedAt); err != nil {
		return nil, err
	}

	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &b.RedemptionHistory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal redemption history: %w", err)
		}
	}
	return &b, nil
}

func scanOrderRow(row scanner) (*v1.Order, error) {
	var o v1.Order
	var itemsJSON, bundlesJSON []byte

	err := row.Scan(
		&o.OrderID,
		&o.TenantID,
		&o.CustomerID,
		&itemsJSON,
		&bundlesJSON,
		&o.TotalAmount,
		&o.PurchasedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan order row: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items of order %s: %w", o.OrderID, err)
	}
	if len(bundlesJSON) > 0 {
		if err := json.Unmarshal(bundlesJSON, &o.BundleIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bundle ids of order %s: %w", o.OrderID, err)
		}
	}
	return &o, nil
}

func collectProducts(rows *sql.Rows) ([]analytics.ProductCounters, error) {
	defer rows.Close()

	var out []analytics.ProductCounters
	for rows.Next() {
		c, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", classify(err))
	}
	return out, nil
}

// classify marks Postgres errors meaning "this query shape cannot run here"
// with storage.ErrUnsupportedQuery so callers can widen the query. The
// original error stays in the chain.
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch {
	case pqErr.Code.Class() == "0A", // feature_not_supported
		pqErr.Code.Class() == "54", // program_limit_exceeded
		pqErr.Code == "42703",      // undefined_column
		pqErr.Code == "42883":      // undefined_function
		return fmt.Errorf("%w: %w", storage.ErrUnsupportedQuery, err)
	}
	return err
}
