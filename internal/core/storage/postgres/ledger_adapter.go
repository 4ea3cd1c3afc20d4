package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	v1 "github.com/aevon-lab/salespulse/internal/api/v1"
	"github.com/aevon-lab/salespulse/internal/core/storage"
)

// LedgerAdapter implements storage.OrderLedger on the orders table written
// by the checkout pipeline. It never writes.
type LedgerAdapter struct {
	db *sql.DB
}

// NewLedgerAdapter creates a LedgerAdapter sharing the given connection.
func NewLedgerAdapter(db *sql.DB) *LedgerAdapter {
	return &LedgerAdapter{db: db}
}

// QueryOrders returns the tenant's orders with purchased_at >= since, or all
// of them when since is nil, oldest first.
func (a *LedgerAdapter) QueryOrders(ctx context.Context, tenantID string, since *time.Time) ([]v1.Order, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if since == nil {
		rows, err = a.db.QueryContext(ctx, queryOrdersByTenant, tenantID)
	} else {
		rows, err = a.db.QueryContext(ctx, queryOrdersByTenantSince, tenantID, since.UTC())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", classify(err))
	}
	defer rows.Close()

	var orders []v1.Order
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", classify(err))
	}
	return orders, nil
}

var _ storage.OrderLedger = (*LedgerAdapter)(nil)
