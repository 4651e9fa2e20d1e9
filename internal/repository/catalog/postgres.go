package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketfront/internal/domain"
)

// validUUIDs drops ids Postgres could not cast to uuid, so client-supplied
// garbage surfaces as a missing row instead of a query error.
func validUUIDs(ids []string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if uuid.Validate(id) == nil {
			out = append(out, id)
		}
	}
	return out
}

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

const productColumns = `
p.id::text, p.vendor_id::text, v.name, p.name, COALESCE(p.image_url, ''), p.currency,
p.base_price_cents, p.sale_price_cents, p.status, p.created_at`

func (r *postgresRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	q := `
SELECT ` + productColumns + `
FROM products p
JOIN vendors v ON v.id = p.vendor_id
WHERE p.id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.VendorID, &p.VendorName, &p.Name, &p.ImageURL, &p.Currency,
		&p.BasePriceCents, &p.SalePriceCents, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: get product id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products p
JOIN vendors v ON v.id = p.vendor_id
WHERE p.status = 'ACTIVE'
ORDER BY p.created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("catalog repo: list products error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.VendorID, &p.VendorName, &p.Name, &p.ImageURL, &p.Currency,
			&p.BasePriceCents, &p.SalePriceCents, &p.Status, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// ListProductsByIDs batch-fetches products keyed by id. Missing ids are
// simply absent from the map; callers decide whether that is fatal.
func (r *postgresRepo) ListProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(ids))
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	q := `
SELECT ` + productColumns + `
FROM products p
JOIN vendors v ON v.id = p.vendor_id
WHERE p.id = ANY($1::uuid[])
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		r.logger.Printf("catalog repo: list products by ids error=%v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.VendorID, &p.VendorName, &p.Name, &p.ImageURL, &p.Currency,
			&p.BasePriceCents, &p.SalePriceCents, &p.Status, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *postgresRepo) ListVariantsByIDs(ctx context.Context, ids []string) (map[string]domain.Variant, error) {
	out := make(map[string]domain.Variant, len(ids))
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	const q = `
SELECT id::text, product_id::text, name, price_cents, sale_price_cents, is_active, created_at
FROM product_variants
WHERE id = ANY($1::uuid[])
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		r.logger.Printf("catalog repo: list variants by ids error=%v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.PriceCents, &v.SalePriceCents, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, err
		}
		out[v.ID] = v
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT id::text, name, commission_bps, created_at
FROM vendors
WHERE id = $1
`
	var v domain.Vendor
	err := r.pool.QueryRow(ctx, q, id).Scan(&v.ID, &v.Name, &v.CommissionBPS, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
