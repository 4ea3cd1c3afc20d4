package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/salespulse/internal/core/analytics"
	"github.com/aevon-lab/salespulse/internal/core/storage"
)

// GetProduct returns storage.ErrNotFound when no row exists.
func (a *Adapter) GetProduct(ctx context.Context, tenantID, productID string) (*analytics.ProductCounters, error) {
	c, err := scanProductRow(a.db.QueryRowContext(ctx, queryGetProduct, tenantID, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s/%s: %w", tenantID, productID, err)
	}
	return c, nil
}

// GetBundle returns storage.ErrNotFound when no row exists.
func (a *Adapter) GetBundle(ctx context.Context, tenantID, bundleID string) (*analytics.BundleCounters, error) {
	b, err := scanBundleRow(a.db.QueryRowContext(ctx, queryGetBundle, tenantID, bundleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bundle %s/%s: %w", tenantID, bundleID, err)
	}
	return b, nil
}

// QueryProducts runs the per-tenant query. Capability errors from Postgres
// come back wrapped in storage.ErrUnsupportedQuery.
func (a *Adapter) QueryProducts(ctx context.Context, q storage.ProductQuery) ([]analytics.ProductCounters, error) {
	rows, err := a.db.QueryContext(ctx, queryProductsByTenant, q.TenantID, q.TrendingOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", classify(err))
	}
	return collectProducts(rows)
}

func (a *Adapter) ScanProducts(ctx context.Context) ([]analytics.ProductCounters, error) {
	rows, err := a.db.QueryContext(ctx, queryScanProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return collectProducts(rows)
}

func (a *Adapter) ListTenants(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, queryListTenants)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		tenants = append(tenants, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenants: %w", err)
	}
	return tenants, nil
}

// Commit applies all mutations in one transaction. Any failure rolls the
// whole batch back, including a duplicate order receipt.
func (a *Adapter) Commit(ctx context.Context, mutations []storage.Mutation) error {
	if len(mutations) > a.maxBatchSize {
		return fmt.Errorf("commit of %d mutations (max %d): %w", len(mutations), a.maxBatchSize, storage.ErrBatchTooLarge)
	}
	if len(mutations) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := a.clock.Now().UTC()
	for _, m := range mutations {
		if err := a.apply(ctx, tx, m, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.Debug("[Postgres] Committed batch", "mutations", len(mutations))
	return nil
}

func (a *Adapter) apply(ctx context.Context, tx *sql.Tx, m storage.Mutation, now time.Time) error {
	var err error
	switch m := m.(type) {
	case storage.ProductSale:
		_, err = tx.ExecContext(ctx, queryRecordProductSale,
			m.TenantID, m.ProductID, m.Quantity, m.SoldAt.UTC(), m.VelocityThreshold, now)

	case storage.BundleRedemption:
		entry, marshalErr := json.Marshal(m.Entry)
		if marshalErr != nil {
			return fmt.Errorf("commit %s: failed to marshal redemption entry: %w", m.DocumentKey(), marshalErr)
		}
		_, err = tx.ExecContext(ctx, queryRecordBundleRedemption, m.TenantID, m.BundleID, entry, now)

	case storage.ProductSignals:
		_, err = tx.ExecContext(ctx, querySetProductSignals,
			m.TenantID, m.ProductID, m.SalesVelocity, m.Trending, now,
			m.ReadSalesLast7Days, nullTime(m.ReadLastSaleAt))

	case storage.SalesCountFloor:
		_, err = tx.ExecContext(ctx, queryRaiseSalesCount, m.TenantID, m.ProductID, m.SalesCount, now)

	case storage.OrderReceipt:
		res, execErr := tx.ExecContext(ctx, queryInsertOrderReceipt, m.TenantID, m.OrderID, m.RecordedAt.UTC())
		if execErr != nil {
			err = execErr
			break
		}
		affected, raErr := res.RowsAffected()
		if raErr != nil {
			return fmt.Errorf("commit %s: rows affected: %w", m.DocumentKey(), raErr)
		}
		if affected == 0 {
			return fmt.Errorf("commit %s: %w", m.DocumentKey(), storage.ErrDuplicate)
		}

	default:
		return fmt.Errorf("commit: unsupported mutation %T", m)
	}

	if err != nil {
		return fmt.Errorf("commit %s: %w", m.DocumentKey(), err)
	}
	return nil
}

var _ storage.CounterStore = (*Adapter)(nil)
