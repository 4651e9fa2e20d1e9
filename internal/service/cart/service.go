// Package cart is the server-side mirror of an authenticated user's cart.
// It stores display/price snapshots taken at add time; checkout never
// trusts them and re-resolves prices against the live catalog.
package cart

import (
	"context"
	"fmt"
	"strings"

	"marketfront/internal/domain"
	"marketfront/internal/pricing"
	cartitemrepo "marketfront/internal/repository/cartitem"
)

type catalogRepo interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListVariantsByIDs(ctx context.Context, ids []string) (map[string]domain.Variant, error)
}

type Service struct {
	repo    cartitemrepo.Repository
	catalog catalogRepo
}

func New(repo cartitemrepo.Repository, catalog catalogRepo) *Service {
	return &Service{repo: repo, catalog: catalog}
}

type AddInput struct {
	ProductID    string              `json:"productId"`
	VariantID    string              `json:"variantId,omitempty"`
	PurchaseType domain.PurchaseType `json:"purchaseType,omitempty"`
	Quantity     int                 `json:"quantity,omitempty"`
}

// Add merges a line into the user's mirrored cart, snapshotting the
// product's display fields and current price as hints.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) error {
	if strings.TrimSpace(in.ProductID) == "" {
		return fmt.Errorf("%w: productId required", domain.ErrValidation)
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	key := domain.NewLineKey(in.ProductID, in.VariantID, in.PurchaseType)

	product, err := s.catalog.GetProduct(ctx, in.ProductID)
	if err != nil {
		return err
	}
	var variant *domain.Variant
	if in.VariantID != "" {
		variants, err := s.catalog.ListVariantsByIDs(ctx, []string{in.VariantID})
		if err != nil {
			return err
		}
		v, ok := variants[in.VariantID]
		if !ok {
			return domain.ErrVariantUnavailable
		}
		variant = &v
	}
	unitPrice, err := pricing.ResolveUnitPrice(*product, variant)
	if err != nil {
		return err
	}

	return s.repo.Upsert(ctx, domain.CartItem{
		UserID:         userID,
		ProductID:      key.ProductID,
		VariantID:      key.VariantID,
		PurchaseType:   key.PurchaseType,
		Quantity:       in.Quantity,
		UnitPriceCents: unitPrice,
		ProductName:    product.Name,
		ImageURL:       product.ImageURL,
		VendorName:     product.VendorName,
		Currency:       product.Currency,
	})
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return s.repo.ListByUser(ctx, userID)
}

// SetQuantity sets a mirrored line's quantity; n <= 0 removes the line.
func (s *Service) SetQuantity(ctx context.Context, userID, itemID string, n int) error {
	return s.repo.SetQuantity(ctx, userID, itemID, n)
}

func (s *Service) Remove(ctx context.Context, userID, itemID string) error {
	return s.repo.Delete(ctx, userID, itemID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.ClearUser(ctx, userID)
}
