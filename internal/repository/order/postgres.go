package order

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketfront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `
id::text, order_number, user_id::text, status, payment_status, payment_method, currency,
subtotal_cents, shipping_cents, tax_cents, discount_cents, total_cents,
ship_full_name, COALESCE(ship_phone, ''), ship_street, ship_city, COALESCE(ship_state, ''), ship_postal_code, ship_country,
created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var addressID string
	if err := tx.QueryRow(ctx, `
INSERT INTO addresses (user_id, full_name, phone, street, city, state, postal_code, country, is_default)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8, TRUE)
RETURNING id::text
`, in.UserID, in.Address.FullName, in.Address.Phone, in.Address.Street, in.Address.City, in.Address.State, in.Address.PostalCode, in.Address.Country).Scan(&addressID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
UPDATE addresses
SET is_default = FALSE
WHERE user_id = $1 AND id <> $2 AND is_default
`, in.UserID, addressID); err != nil {
		return nil, err
	}

	var order domain.Order
	if err := tx.QueryRow(ctx, `
INSERT INTO orders (
    order_number, user_id, status, payment_status, payment_method, currency,
    subtotal_cents, shipping_cents, tax_cents, discount_cents, total_cents,
    ship_full_name, ship_phone, ship_street, ship_city, ship_state, ship_postal_code, ship_country
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14, $15, NULLIF($16, ''), $17, $18)
RETURNING `+orderColumns+`
`,
		in.OrderNumber, in.UserID, domain.OrderPending, domain.PaymentPending, in.PaymentMethod, in.Currency,
		in.SubtotalCents, in.ShippingCents, in.TaxCents, in.DiscountCents, in.TotalCents,
		in.Address.FullName, in.Address.Phone, in.Address.Street, in.Address.City, in.Address.State, in.Address.PostalCode, in.Address.Country,
	).Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &order.Status, &order.PaymentStatus, &order.PaymentMethod, &order.Currency,
		&order.SubtotalCents, &order.ShippingCents, &order.TaxCents, &order.DiscountCents, &order.TotalCents,
		&order.ShipFullName, &order.ShipPhone, &order.ShipStreet, &order.ShipCity, &order.ShipState, &order.ShipPostalCode, &order.ShipCountry,
		&order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	for _, item := range in.Items {
		var oi domain.OrderItem
		if err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, variant_id, vendor_id, product_name, purchase_type, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9)
RETURNING id::text
`, order.ID, item.ProductID, item.VariantID, item.VendorID, item.ProductName, item.PurchaseType, item.Quantity, item.UnitPriceCents, item.TotalCents).Scan(&oi.ID); err != nil {
			return nil, err
		}
		oi.OrderID = order.ID
		oi.ProductID = item.ProductID
		oi.VariantID = item.VariantID
		oi.VendorID = item.VendorID
		oi.ProductName = item.ProductName
		oi.PurchaseType = item.PurchaseType
		oi.Quantity = item.Quantity
		oi.UnitPriceCents = item.UnitPriceCents
		oi.TotalCents = item.TotalCents
		order.Items = append(order.Items, oi)
	}

	for _, vt := range in.VendorTotals {
		var vo domain.VendorOrder
		if err := tx.QueryRow(ctx, `
INSERT INTO vendor_orders (order_id, vendor_id, status, subtotal_cents, commission_cents, earnings_cents)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, created_at, updated_at
`, order.ID, vt.VendorID, domain.OrderPending, vt.SubtotalCents, vt.CommissionCents, vt.EarningsCents).Scan(&vo.ID, &vo.CreatedAt, &vo.UpdatedAt); err != nil {
			return nil, err
		}
		vo.OrderID = order.ID
		vo.VendorID = vt.VendorID
		vo.Status = domain.OrderPending
		vo.SubtotalCents = vt.SubtotalCents
		vo.CommissionCents = vt.CommissionCents
		vo.EarningsCents = vt.EarningsCents
		order.VendorOrders = append(order.VendorOrders, vo)
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO tracking_events (order_id, status, description, occurred_at)
VALUES ($1, $2, $3, $4)
`, order.ID, string(domain.OrderPending), "Order placed", time.Now().UTC()); err != nil {
		return nil, err
	}

	if in.ClearCartUserID != "" {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, in.ClearCartUserID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var order domain.Order
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &order.Status, &order.PaymentStatus, &order.PaymentMethod, &order.Currency,
		&order.SubtotalCents, &order.ShippingCents, &order.TaxCents, &order.DiscountCents, &order.TotalCents,
		&order.ShipFullName, &order.ShipPhone, &order.ShipStreet, &order.ShipCity, &order.ShipState, &order.ShipPostalCode, &order.ShipCountry,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	items, err := r.listItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	vendorOrders, err := r.listVendorOrders(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.VendorOrders = vendorOrders
	return &order, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.OrderNumber, &order.UserID, &order.Status, &order.PaymentStatus, &order.PaymentMethod, &order.Currency,
			&order.SubtotalCents, &order.ShippingCents, &order.TaxCents, &order.DiscountCents, &order.TotalCents,
			&order.ShipFullName, &order.ShipPhone, &order.ShipStreet, &order.ShipCity, &order.ShipState, &order.ShipPostalCode, &order.ShipCountry,
			&order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}

func (r *postgresRepo) listItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
SELECT id::text, order_id::text, product_id::text, COALESCE(variant_id::text, ''), vendor_id::text,
       product_name, purchase_type, quantity, unit_price_cents, total_cents
FROM order_items
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var i domain.OrderItem
		if err := rows.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.VariantID, &i.VendorID, &i.ProductName, &i.PurchaseType, &i.Quantity, &i.UnitPriceCents, &i.TotalCents); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const vendorOrderColumns = `id::text, order_id::text, vendor_id::text, status, subtotal_cents, commission_cents, earnings_cents, created_at, updated_at`

func (r *postgresRepo) listVendorOrders(ctx context.Context, orderID string) ([]domain.VendorOrder, error) {
	const q = `SELECT ` + vendorOrderColumns + ` FROM vendor_orders WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VendorOrder
	for rows.Next() {
		var vo domain.VendorOrder
		if err := rows.Scan(&vo.ID, &vo.OrderID, &vo.VendorID, &vo.Status, &vo.SubtotalCents, &vo.CommissionCents, &vo.EarningsCents, &vo.CreatedAt, &vo.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, vo)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetVendorOrder(ctx context.Context, id string) (*domain.VendorOrder, error) {
	const q = `SELECT ` + vendorOrderColumns + ` FROM vendor_orders WHERE id = $1`
	var vo domain.VendorOrder
	err := r.pool.QueryRow(ctx, q, id).Scan(&vo.ID, &vo.OrderID, &vo.VendorID, &vo.Status, &vo.SubtotalCents, &vo.CommissionCents, &vo.EarningsCents, &vo.CreatedAt, &vo.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &vo, nil
}

func (r *postgresRepo) ListVendorOrdersByVendor(ctx context.Context, vendorID string) ([]domain.VendorOrder, error) {
	const q = `SELECT ` + vendorOrderColumns + ` FROM vendor_orders WHERE vendor_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VendorOrder
	for rows.Next() {
		var vo domain.VendorOrder
		if err := rows.Scan(&vo.ID, &vo.OrderID, &vo.VendorID, &vo.Status, &vo.SubtotalCents, &vo.CommissionCents, &vo.EarningsCents, &vo.CreatedAt, &vo.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, vo)
	}
	return result, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, event domain.TrackingEvent) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE orders
SET status = $1, updated_at = now()
WHERE id = $2 AND status = $3
`, to, orderID, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// The row moved out from under us; the caller's precondition no
		// longer holds.
		return domain.ErrIllegalTransition
	}

	if err := appendEvent(ctx, tx, orderID, "", event); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) UpdateVendorStatus(ctx context.Context, vendorOrderID string, from, to domain.OrderStatus, event domain.TrackingEvent) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var orderID string
	err = tx.QueryRow(ctx, `
UPDATE vendor_orders
SET status = $1, updated_at = now()
WHERE id = $2 AND status = $3
RETURNING order_id::text
`, to, vendorOrderID, from).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrIllegalTransition
		}
		return err
	}

	if err := appendEvent(ctx, tx, orderID, vendorOrderID, event); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) SetPaymentStatus(ctx context.Context, orderID string, from, to domain.PaymentStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET payment_status = $1, updated_at = now()
WHERE id = $2 AND payment_status = $3
`, to, orderID, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrIllegalTransition
	}
	return nil
}

func (r *postgresRepo) Refund(ctx context.Context, orderID string, payment domain.PaymentStatus, event domain.TrackingEvent) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE orders
SET payment_status = $1, status = $2, updated_at = now()
WHERE id = $3 AND payment_status = $4 AND status = $5
`, payment, domain.OrderRefunded, orderID, domain.PaymentPaid, domain.OrderDelivered)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrIllegalTransition
	}

	if err := appendEvent(ctx, tx, orderID, "", event); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) ListTracking(ctx context.Context, orderID string) ([]domain.TrackingEvent, error) {
	const q = `
SELECT id::text, order_id::text, COALESCE(vendor_order_id::text, ''), status,
       COALESCE(description, ''), COALESCE(location, ''), COALESCE(carrier, ''), COALESCE(tracking_number, ''), occurred_at
FROM tracking_events
WHERE order_id = $1
ORDER BY occurred_at ASC
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.TrackingEvent
	for rows.Next() {
		var e domain.TrackingEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.VendorOrderID, &e.Status, &e.Description, &e.Location, &e.Carrier, &e.TrackingNumber, &e.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func appendEvent(ctx context.Context, tx pgx.Tx, orderID, vendorOrderID string, event domain.TrackingEvent) error {
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err := tx.Exec(ctx, `
INSERT INTO tracking_events (order_id, vendor_order_id, status, description, location, carrier, tracking_number, occurred_at)
VALUES ($1, NULLIF($2, '')::uuid, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8)
`, orderID, vendorOrderID, event.Status, event.Description, event.Location, event.Carrier, event.TrackingNumber, occurredAt)
	return err
}
