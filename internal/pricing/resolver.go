// Package pricing resolves the single authoritative unit price for a
// product or product variant. Resolution is pure; checkout calls it fresh
// against current catalog rows and never trusts client-supplied prices.
package pricing

import "marketfront/internal/domain"

// ResolveUnitPrice returns the unit price in cents for the given product
// and optional variant. Precedence, first non-nil wins:
//
//	variant.salePrice > variant.price > product.salePrice > product.basePrice
//
// The product must be ACTIVE or domain.ErrProductUnavailable is returned.
// A supplied variant must belong to the product and be active, or
// domain.ErrVariantUnavailable is returned.
func ResolveUnitPrice(product domain.Product, variant *domain.Variant) (int64, error) {
	if product.Status != domain.ProductActive {
		return 0, domain.ErrProductUnavailable
	}
	if variant != nil {
		if variant.ProductID != product.ID || !variant.IsActive {
			return 0, domain.ErrVariantUnavailable
		}
		if variant.SalePriceCents != nil {
			return *variant.SalePriceCents, nil
		}
		if variant.PriceCents != nil {
			return *variant.PriceCents, nil
		}
	}
	if product.SalePriceCents != nil {
		return *product.SalePriceCents, nil
	}
	return product.BasePriceCents, nil
}
