package cart

import (
	"context"
	"errors"
	"log"
	"testing"

	cartledger "marketfront/internal/cart"
	"marketfront/internal/domain"
)

type stubRepo struct {
	items   []domain.CartItem
	cleared []string
}

func (s *stubRepo) Upsert(_ context.Context, item domain.CartItem) error {
	for i, existing := range s.items {
		if existing.UserID == item.UserID && existing.Key() == item.Key() {
			s.items[i].Quantity += item.Quantity
			return nil
		}
	}
	s.items = append(s.items, item)
	return nil
}

func (s *stubRepo) ListByUser(_ context.Context, userID string) ([]domain.CartItem, error) {
	var out []domain.CartItem
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubRepo) SetQuantity(_ context.Context, userID, itemID string, quantity int) error {
	return nil
}

func (s *stubRepo) Delete(_ context.Context, userID, itemID string) error {
	return nil
}

func (s *stubRepo) ClearUser(_ context.Context, userID string) error {
	s.cleared = append(s.cleared, userID)
	return nil
}

type stubCatalog struct {
	products map[string]domain.Product
	variants map[string]domain.Variant
}

func (s *stubCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *stubCatalog) ListVariantsByIDs(_ context.Context, ids []string) (map[string]domain.Variant, error) {
	out := make(map[string]domain.Variant)
	for _, id := range ids {
		if v, ok := s.variants[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func cents(n int64) *int64 { return &n }

func newFixture() (*Service, *stubRepo) {
	repo := &stubRepo{}
	catalog := &stubCatalog{
		products: map[string]domain.Product{
			"p1": {
				ID: "p1", VendorID: "vend1", VendorName: "Acme", Name: "Mug",
				Currency: "USD", BasePriceCents: 1200, Status: domain.ProductActive,
				ImageURL: "https://img.example.com/mug.jpg",
			},
		},
		variants: map[string]domain.Variant{
			"v1": {ID: "v1", ProductID: "p1", Name: "Large", PriceCents: cents(1500), IsActive: true},
		},
	}
	return New(repo, catalog), repo
}

func TestAddSnapshotsProductFields(t *testing.T) {
	svc, repo := newFixture()

	if err := svc.Add(context.Background(), "u1", AddInput{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if len(repo.items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(repo.items))
	}
	item := repo.items[0]
	if item.Quantity != 2 || item.UnitPriceCents != 1200 {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.ProductName != "Mug" || item.VendorName != "Acme" || item.Currency != "USD" {
		t.Fatalf("snapshot fields not taken: %+v", item)
	}
	if item.PurchaseType != domain.PurchaseNew {
		t.Fatalf("expected default purchase type, got %q", item.PurchaseType)
	}
}

func TestAddUsesVariantPrice(t *testing.T) {
	svc, repo := newFixture()

	if err := svc.Add(context.Background(), "u1", AddInput{ProductID: "p1", VariantID: "v1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	item := repo.items[0]
	if item.UnitPriceCents != 1500 {
		t.Fatalf("expected variant price 1500, got %d", item.UnitPriceCents)
	}
	if item.Quantity != 1 {
		t.Fatalf("expected quantity defaulted to 1, got %d", item.Quantity)
	}
}

func TestAddRejectsMissingProductID(t *testing.T) {
	svc, _ := newFixture()

	err := svc.Add(context.Background(), "u1", AddInput{Quantity: 1})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddUnknownVariant(t *testing.T) {
	svc, _ := newFixture()

	err := svc.Add(context.Background(), "u1", AddInput{ProductID: "p1", VariantID: "nope"})
	if !errors.Is(err, domain.ErrVariantUnavailable) {
		t.Fatalf("expected ErrVariantUnavailable, got %v", err)
	}
}

func TestLedgerMirrorPushesAuthenticatedAdds(t *testing.T) {
	svc, repo := newFixture()
	logger := log.New(log.Writer(), "", 0)

	ledger := cartledger.New(NewLedgerMirror(svc), logger)
	actor := domain.Actor{ID: "u1", Role: domain.RoleUser}

	ledger.AddLine(context.Background(), actor, cartledger.Line{ProductID: "p1", Quantity: 3})

	if got := ledger.TotalQuantity(); got != 3 {
		t.Fatalf("ledger quantity = %d, want 3", got)
	}
	if len(repo.items) != 1 || repo.items[0].Quantity != 3 {
		t.Fatalf("mirror did not reach repo: %+v", repo.items)
	}
	if repo.items[0].UnitPriceCents != 1200 {
		t.Fatalf("mirror should re-resolve price, got %d", repo.items[0].UnitPriceCents)
	}
}
