package cartitem

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketfront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Upsert(ctx context.Context, item domain.CartItem) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var itemID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_items
WHERE user_id = $1 AND product_id = $2 AND COALESCE(variant_id::text, '') = $3 AND purchase_type = $4
`, item.UserID, item.ProductID, item.VariantID, item.PurchaseType).Scan(&itemID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE id = $2
`, existingQty+item.Quantity, itemID); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (user_id, product_id, variant_id, purchase_type, quantity, unit_price_cents, product_name, image_url, vendor_name, currency)
VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10)
`, item.UserID, item.ProductID, item.VariantID, item.PurchaseType, item.Quantity, item.UnitPriceCents, item.ProductName, item.ImageURL, item.VendorName, item.Currency); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	const q = `
SELECT id::text, user_id::text, product_id::text, COALESCE(variant_id::text, ''), purchase_type, quantity,
       unit_price_cents, product_name, COALESCE(image_url, ''), COALESCE(vendor_name, ''), currency, created_at
FROM cart_items
WHERE user_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var i domain.CartItem
		if err := rows.Scan(
			&i.ID, &i.UserID, &i.ProductID, &i.VariantID, &i.PurchaseType, &i.Quantity,
			&i.UnitPriceCents, &i.ProductName, &i.ImageURL, &i.VendorName, &i.Currency, &i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity <= 0 {
		return r.Delete(ctx, userID, itemID)
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE id = $2 AND user_id = $3
`, quantity, itemID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID, itemID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ClearUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
