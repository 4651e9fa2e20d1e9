package pricing

import (
	"errors"
	"testing"

	"marketfront/internal/domain"
)

func cents(v int64) *int64 {
	return &v
}

func activeProduct() domain.Product {
	return domain.Product{
		ID:             "p1",
		Status:         domain.ProductActive,
		BasePriceCents: 10000,
		SalePriceCents: cents(8000),
	}
}

func TestVariantPriceBeatsProductSalePrice(t *testing.T) {
	variant := &domain.Variant{ID: "v1", ProductID: "p1", IsActive: true, PriceCents: cents(9000)}
	got, err := ResolveUnitPrice(activeProduct(), variant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 9000 {
		t.Fatalf("expected 9000, got %d", got)
	}
}

func TestVariantSalePriceWins(t *testing.T) {
	variant := &domain.Variant{ID: "v1", ProductID: "p1", IsActive: true, PriceCents: cents(9000), SalePriceCents: cents(7000)}
	got, err := ResolveUnitPrice(activeProduct(), variant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7000 {
		t.Fatalf("expected 7000, got %d", got)
	}
}

func TestVariantWithoutPricesFallsBackToProduct(t *testing.T) {
	variant := &domain.Variant{ID: "v1", ProductID: "p1", IsActive: true}
	got, err := ResolveUnitPrice(activeProduct(), variant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 8000 {
		t.Fatalf("expected product sale price 8000, got %d", got)
	}
}

func TestProductBasePriceWhenNoSale(t *testing.T) {
	p := activeProduct()
	p.SalePriceCents = nil
	got, err := ResolveUnitPrice(p, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 10000 {
		t.Fatalf("expected base price 10000, got %d", got)
	}
}

func TestInactiveProductUnavailable(t *testing.T) {
	p := activeProduct()
	p.Status = domain.ProductDraft
	if _, err := ResolveUnitPrice(p, nil); !errors.Is(err, domain.ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
}

func TestForeignVariantUnavailable(t *testing.T) {
	variant := &domain.Variant{ID: "v1", ProductID: "other", IsActive: true, PriceCents: cents(500)}
	if _, err := ResolveUnitPrice(activeProduct(), variant); !errors.Is(err, domain.ErrVariantUnavailable) {
		t.Fatalf("expected ErrVariantUnavailable, got %v", err)
	}
}

func TestInactiveVariantUnavailable(t *testing.T) {
	variant := &domain.Variant{ID: "v1", ProductID: "p1", IsActive: false, PriceCents: cents(500)}
	if _, err := ResolveUnitPrice(activeProduct(), variant); !errors.Is(err, domain.ErrVariantUnavailable) {
		t.Fatalf("expected ErrVariantUnavailable, got %v", err)
	}
}
