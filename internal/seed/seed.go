package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type vendorSeed struct {
	Name          string
	CommissionBPS int
	Products      []productSeed
}

type productSeed struct {
	Name           string
	ImageURL       string
	Currency       string
	BasePriceCents int64
	SalePriceCents *int64
	Variants       []variantSeed
}

type variantSeed struct {
	Name           string
	PriceCents     *int64
	SalePriceCents *int64
	IsActive       bool
}

func cents(n int64) *int64 { return &n }

// Apply inserts basic seed data for manual testing. Vendors upsert by
// name; products and variants are inserted only when missing.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	vendors := []vendorSeed{
		{
			Name:          "Northwind Outfitters",
			CommissionBPS: 1500,
			Products: []productSeed{
				{
					Name:           "Trail Daypack 22L",
					ImageURL:       "https://img.example.com/daypack.jpg",
					Currency:       "USD",
					BasePriceCents: 8900,
					Variants: []variantSeed{
						{Name: "Forest Green", IsActive: true},
						{Name: "Slate Grey", PriceCents: cents(9400), IsActive: true},
					},
				},
				{
					Name:           "Merino Hiking Socks",
					Currency:       "USD",
					BasePriceCents: 1800,
					SalePriceCents: cents(1400),
				},
			},
		},
		{
			Name: "Beanfield Roasters",
			Products: []productSeed{
				{
					Name:           "Single Origin Espresso 250g",
					ImageURL:       "https://img.example.com/espresso.jpg",
					Currency:       "USD",
					BasePriceCents: 1650,
					Variants: []variantSeed{
						{Name: "Whole Bean", IsActive: true},
						{Name: "Ground", SalePriceCents: cents(1500), IsActive: true},
						{Name: "Decaf", IsActive: false},
					},
				},
			},
		},
	}

	for _, v := range vendors {
		vendorID, err := ensureVendor(ctx, pool, v)
		if err != nil {
			return fmt.Errorf("ensure vendor %s: %w", v.Name, err)
		}
		for _, p := range v.Products {
			productID, err := ensureProduct(ctx, pool, vendorID, p)
			if err != nil {
				return fmt.Errorf("ensure product %s: %w", p.Name, err)
			}
			for _, variant := range p.Variants {
				if err := ensureVariant(ctx, pool, productID, variant); err != nil {
					return fmt.Errorf("ensure variant %s: %w", variant.Name, err)
				}
			}
		}
	}
	return nil
}

func ensureVendor(ctx context.Context, pool *pgxpool.Pool, v vendorSeed) (string, error) {
	const q = `
INSERT INTO vendors (name, commission_bps)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET commission_bps = EXCLUDED.commission_bps
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, v.Name, v.CommissionBPS).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, vendorID string, p productSeed) (string, error) {
	var id string
	err := pool.QueryRow(ctx, `
SELECT id::text FROM products WHERE vendor_id = $1 AND name = $2
`, vendorID, p.Name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	err = pool.QueryRow(ctx, `
INSERT INTO products (vendor_id, name, image_url, currency, base_price_cents, sale_price_cents, status)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, 'ACTIVE')
RETURNING id::text
`, vendorID, p.Name, p.ImageURL, currency, p.BasePriceCents, p.SalePriceCents).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureVariant(ctx context.Context, pool *pgxpool.Pool, productID string, v variantSeed) error {
	var exists bool
	err := pool.QueryRow(ctx, `
SELECT TRUE FROM product_variants WHERE product_id = $1 AND name = $2
`, productID, v.Name).Scan(&exists)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	_, err = pool.Exec(ctx, `
INSERT INTO product_variants (product_id, name, price_cents, sale_price_cents, is_active)
VALUES ($1, $2, $3, $4, $5)
`, productID, v.Name, v.PriceCents, v.SalePriceCents, v.IsActive)
	return err
}
