package catalog

import (
	"context"

	"marketfront/internal/domain"
)

// Repository reads products and variants. It is the single source of truth
// for pricing at checkout time.
type Repository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	ListVariantsByIDs(ctx context.Context, ids []string) (map[string]domain.Variant, error)
	GetVendor(ctx context.Context, id string) (*domain.Vendor, error)
}
