package postgres

// SQL for the counter store and the order ledger.

const (
	productColumns = `
			tenant_id, product_id, sales_count, sales_last_7_days, sales_last_30_days,
			last_sale_at, sales_velocity, trending, updated_at`

	queryGetProduct = `
		SELECT` + productColumns + `
		FROM product_counters
		WHERE tenant_id = $1 AND product_id = $2
	`

	// queryProductsByTenant is the precise per-tenant query. $2 restricts the
	// result to trending products and uses the partial trending index.
	queryProductsByTenant = `
		SELECT` + productColumns + `
		FROM product_counters
		WHERE tenant_id = $1
		  AND (NOT $2::boolean OR trending)
		ORDER BY product_id ASC
	`

	// queryScanProducts is the broad query used when the precise one is rejected.
	queryScanProducts = `
		SELECT` + productColumns + `
		FROM product_counters
		ORDER BY tenant_id ASC, product_id ASC
	`

	queryListTenants = `SELECT DISTINCT tenant_id FROM product_counters ORDER BY tenant_id ASC`

	queryGetBundle = `
		SELECT tenant_id, bundle_id, current_redemptions, redemption_history, updated_at
		FROM bundle_counters
		WHERE tenant_id = $1 AND bundle_id = $2
	`

	// queryRecordProductSale increments in place. SET expressions see the
	// pre-update row, so sales_last_7_days + $3 is the post-increment value.
	// GREATEST ignores a NULL last_sale_at.
	queryRecordProductSale = `
		UPDATE product_counters
		SET sales_count        = sales_count + $3,
		    sales_last_7_days  = sales_last_7_days + $3,
		    sales_last_30_days = sales_last_30_days + $3,
		    last_sale_at       = GREATEST(last_sale_at, $4),
		    sales_velocity     = (sales_last_7_days + $3)::double precision / 7,
		    trending           = ((sales_last_7_days + $3)::double precision / 7) > $5,
		    updated_at         = $6
		WHERE tenant_id = $1 AND product_id = $2
	`

	queryRecordBundleRedemption = `
		UPDATE bundle_counters
		SET current_redemptions = current_redemptions + 1,
		    redemption_history  = COALESCE(redemption_history, '[]'::jsonb) || jsonb_build_array($3::jsonb),
		    updated_at          = $4
		WHERE tenant_id = $1 AND bundle_id = $2
	`

	querySetProductSignals = `
		UPDATE product_counters
		SET sales_velocity = $3,
		    trending       = $4,
		    updated_at     = $5
		WHERE tenant_id = $1 AND product_id = $2
		  AND sales_last_7_days = $6
		  AND last_sale_at IS NOT DISTINCT FROM $7
	`

	queryRaiseSalesCount = `
		UPDATE product_counters
		SET sales_count = GREATEST(sales_count, $3),
		    updated_at  = $4
		WHERE tenant_id = $1 AND product_id = $2
	`

	// queryInsertOrderReceipt affects no rows when the order was already recorded.
	queryInsertOrderReceipt = `
		INSERT INTO order_receipts (tenant_id, order_id, recorded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, order_id) DO NOTHING
	`

	orderColumns = `
			order_id, tenant_id, customer_id, items, bundle_ids, total_amount, purchased_at`

	queryOrdersByTenant = `
		SELECT` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1
		ORDER BY purchased_at ASC, order_id ASC
	`

	queryOrdersByTenantSince = `
		SELECT` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1
		  AND purchased_at >= $2
		ORDER BY purchased_at ASC, order_id ASC
	`
)
