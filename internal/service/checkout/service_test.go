package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"marketfront/internal/domain"
	orderrepo "marketfront/internal/repository/order"
)

type stubCatalog struct {
	products map[string]domain.Product
	variants map[string]domain.Variant
	vendors  map[string]domain.Vendor
}

func (s *stubCatalog) ListProductsByIDs(_ context.Context, ids []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product)
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
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

func (s *stubCatalog) GetVendor(_ context.Context, id string) (*domain.Vendor, error) {
	if v, ok := s.vendors[id]; ok {
		return &v, nil
	}
	return nil, domain.ErrNotFound
}

type stubUsers struct {
	byEmail          map[string]domain.User
	byID             map[string]domain.User
	created          []domain.User
	updateProfileErr error
	profileCalls     int
}

func (s *stubUsers) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, ok := s.byEmail[u.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	u.ID = "user-" + u.Email
	if s.byEmail == nil {
		s.byEmail = map[string]domain.User{}
	}
	s.byEmail[u.Email] = u
	s.created = append(s.created, u)
	return &u, nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.byEmail[strings.ToLower(email)]; ok {
		return &u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.byID[id]; ok {
		return &u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUsers) UpdateProfile(_ context.Context, _, _, _ string) error {
	s.profileCalls++
	return s.updateProfileErr
}

type stubOrders struct {
	lastInput *orderrepo.CreateInput
	createErr error
	calls     int
}

func (s *stubOrders) Create(_ context.Context, in orderrepo.CreateInput) (*domain.Order, error) {
	s.calls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.lastInput = &in
	order := &domain.Order{
		ID:            "order-1",
		OrderNumber:   in.OrderNumber,
		UserID:        in.UserID,
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: in.PaymentMethod,
		Currency:      in.Currency,
		SubtotalCents: in.SubtotalCents,
		TotalCents:    in.TotalCents,
	}
	return order, nil
}

func cents(v int64) *int64 {
	return &v
}

func fixtureCatalog() *stubCatalog {
	return &stubCatalog{
		products: map[string]domain.Product{
			"p1": {ID: "p1", VendorID: "vend1", VendorName: "Acme", Name: "Widget", Currency: "USD", BasePriceCents: 5000, Status: domain.ProductActive},
			"p2": {ID: "p2", VendorID: "vend2", VendorName: "Globex", Name: "Gadget", Currency: "USD", BasePriceCents: 10000, SalePriceCents: cents(8000), Status: domain.ProductActive},
			"p3": {ID: "p3", VendorID: "vend1", VendorName: "Acme", Name: "Retired", Currency: "USD", BasePriceCents: 100, Status: domain.ProductArchived},
		},
		variants: map[string]domain.Variant{
			"v1": {ID: "v1", ProductID: "p2", Name: "Large", PriceCents: cents(9000), IsActive: true},
		},
		vendors: map[string]domain.Vendor{
			"vend1": {ID: "vend1", Name: "Acme", CommissionBPS: 1500},
		},
	}
}

func validInput(items ...LineInput) PlaceOrderInput {
	return PlaceOrderInput{
		Email:      "a@b.com",
		FullName:   "Ada Buyer",
		Phone:      "555-0100",
		Street:     "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
		Items:      items,
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	orders := &stubOrders{}
	svc := New(fixtureCatalog(), &stubUsers{}, orders, 1000, nil)
	_, err := svc.PlaceOrder(context.Background(), domain.Actor{}, validInput())
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if orders.calls != 0 {
		t.Fatal("no order may be created for an empty cart")
	}
}

func TestPlaceOrderMissingAddressField(t *testing.T) {
	orders := &stubOrders{}
	svc := New(fixtureCatalog(), &stubUsers{}, orders, 1000, nil)
	in := validInput(LineInput{ProductID: "p1", Quantity: 1})
	in.City = ""
	if _, err := svc.PlaceOrder(context.Background(), domain.Actor{}, in); err == nil {
		t.Fatal("expected validation error for missing city")
	}
	if orders.calls != 0 {
		t.Fatal("no order may be created on validation failure")
	}
}

func TestPlaceOrderInactiveProductAbortsEverything(t *testing.T) {
	orders := &stubOrders{}
	users := &stubUsers{}
	svc := New(fixtureCatalog(), users, orders, 1000, nil)
	in := validInput(
		LineInput{ProductID: "p1", Quantity: 1},
		LineInput{ProductID: "p3", Quantity: 1},
	)
	_, err := svc.PlaceOrder(context.Background(), domain.Actor{}, in)
	if !errors.Is(err, domain.ErrInvalidCartContents) {
		t.Fatalf("expected ErrInvalidCartContents, got %v", err)
	}
	if !errors.Is(err, domain.ErrProductUnavailable) {
		t.Fatalf("expected wrapped ErrProductUnavailable, got %v", err)
	}
	if orders.calls != 0 {
		t.Fatal("no order may be created when any line is unavailable")
	}
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	orders := &stubOrders{}
	svc := New(fixtureCatalog(), &stubUsers{}, orders, 1000, nil)
	_, err := svc.PlaceOrder(context.Background(), domain.Actor{}, validInput(LineInput{ProductID: "missing", Quantity: 1}))
	if !errors.Is(err, domain.ErrInvalidCartContents) {
		t.Fatalf("expected ErrInvalidCartContents, got %v", err)
	}
}

func TestPlaceOrderUnknownVariant(t *testing.T) {
	orders := &stubOrders{}
	svc := New(fixtureCatalog(), &stubUsers{}, orders, 1000, nil)
	_, err := svc.PlaceOrder(context.Background(), domain.Actor{}, validInput(LineInput{ProductID: "p2", VariantID: "nope", Quantity: 1}))
	if !errors.Is(err, domain.ErrInvalidCartContents) {
		t.Fatalf("expected ErrInvalidCartContents, got %v", err)
	}
	if orders.calls != 0 {
		t.Fatal("no order may be created with an unknown variant")
	}
}

func TestPlaceOrderGuestScenario(t *testing.T) {
	orders := &stubOrders{}
	users := &stubUsers{}
	svc := New(fixtureCatalog(), users, orders, 1000, nil)

	order, err := svc.PlaceOrder(context.Background(), domain.Actor{}, validInput(LineInput{ProductID: "p1", Quantity: 2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.SubtotalCents != 10000 || order.TotalCents != 10000 {
		t.Fatalf("expected subtotal=total=10000, got subtotal=%d total=%d", order.SubtotalCents, order.TotalCents)
	}
	if len(users.created) != 1 {
		t.Fatalf("expected one materialized guest user, got %d", len(users.created))
	}
	guest := users.created[0]
	if guest.Email != "a@b.com" || guest.Role != domain.RoleUser || guest.Status != domain.UserActive {
		t.Fatalf("unexpected guest user %+v", guest)
	}
	if guest.PasswordHash == "" {
		t.Fatal("guest must carry an opaque placeholder credential")
	}

	in := orders.lastInput
	if len(in.Items) != 1 {
		t.Fatalf("expected one order item, got %d", len(in.Items))
	}
	item := in.Items[0]
	if item.Quantity != 2 || item.UnitPriceCents != 5000 || item.TotalCents != 10000 {
		t.Fatalf("unexpected item %+v", item)
	}
	if in.ClearCartUserID != "" {
		t.Fatal("guest checkout must not clear any server-side cart")
	}
	if in.PaymentMethod != domain.PaymentMethodCOD {
		t.Fatalf("expected cash-on-delivery placeholder, got %s", in.PaymentMethod)
	}
}

func TestPlaceOrderGuestReusesExistingUser(t *testing.T) {
	orders := &stubOrders{}
	users := &stubUsers{byEmail: map[string]domain.User{
		"a@b.com": {ID: "u9", Email: "a@b.com", Role: domain.RoleUser, Status: domain.UserActive},
	}}
	svc := New(fixtureCatalog(), users, orders, 1000, nil)

	order, err := svc.PlaceOrder(context.Background(), domain.Actor{}, validInput(LineInput{ProductID: "p1", Quantity: 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.UserID != "u9" {
		t.Fatalf("expected reuse of existing user, got %s", order.UserID)
	}
	if len(users.created) != 0 {
		t.Fatal("no new user may be created for a known email")
	}
}

func TestPlaceOrderAuthenticatedClearsCartAndSurvivesProfileFailure(t *testing.T) {
	orders := &stubOrders{}
	users := &stubUsers{
		byID:             map[string]domain.User{"u1": {ID: "u1", Email: "u1@example.com"}},
		updateProfileErr: errors.New("db hiccup"),
	}
	svc := New(fixtureCatalog(), users, orders, 1000, nil)
	actor := domain.Actor{ID: "u1", Role: domain.RoleUser, Email: "u1@example.com"}

	order, err := svc.PlaceOrder(context.Background(), actor, validInput(LineInput{ProductID: "p1", Quantity: 1}))
	if err != nil {
		t.Fatalf("profile touch-up failure must not abort checkout: %v", err)
	}
	if users.profileCalls != 1 {
		t.Fatal("expected a profile touch-up attempt")
	}
	if order.UserID != "u1" {
		t.Fatalf("expected order for u1, got %s", order.UserID)
	}
	if orders.lastInput.ClearCartUserID != "u1" {
		t.Fatal("authenticated checkout must clear the server-side cart")
	}
}

func TestPlaceOrderMergesDuplicateLines(t *testing.T) {
	orders := &stubOrders{}
	svc := New(fixtureCatalog(), &stubUsers{}, orders, 1000, nil)

	_, err := svc.PlaceOrder(context.Background(), domain.Actor{}, validInput(
		LineInput{ProductID: "p1", Quantity: 1},
		LineInput{ProductID: "p1", Quantity: 2},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders.lastInput.Items) != 1 {
		t.Fatalf("duplicate keys must merge, got %d items", len(orders.lastInput.Items))
	}
	if orders.lastInput.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", orders.lastInput.Items[0].Quantity)
	}
}

func TestPlaceOrderVariantPriceBeatsProductSale(t *testing.T) {
	orders := &stubOrders{}
	svc := New(fixtureCatalog(), &stubUsers{}, orders, 1000, nil)

	_, err := svc.PlaceOrder(context.Background(), domain.Actor{}, validInput(
		LineInput{ProductID: "p2", VariantID: "v1", Quantity: 1},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := orders.lastInput.Items[0].UnitPriceCents; got != 9000 {
		t.Fatalf("variant price must beat product sale price, got %d", got)
	}
}

func TestPlaceOrderVendorPartition(t *testing.T) {
	orders := &stubOrders{}
	svc := New(fixtureCatalog(), &stubUsers{}, orders, 1000, nil)

	_, err := svc.PlaceOrder(context.Background(), domain.Actor{}, validInput(
		LineInput{ProductID: "p1", Quantity: 2}, // vend1, 10000
		LineInput{ProductID: "p2", Quantity: 1}, // vend2, 8000 (sale)
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	totals := orders.lastInput.VendorTotals
	if len(totals) != 2 {
		t.Fatalf("expected 2 vendor partitions, got %d", len(totals))
	}
	byVendor := map[string]struct {
		subtotal, commission, earnings int64
	}{}
	for _, vt := range totals {
		byVendor[vt.VendorID] = struct {
			subtotal, commission, earnings int64
		}{vt.SubtotalCents, vt.CommissionCents, vt.EarningsCents}
	}
	// vend1 has its own 15% rate; vend2 falls back to the platform's 10%.
	if v := byVendor["vend1"]; v.subtotal != 10000 || v.commission != 1500 || v.earnings != 8500 {
		t.Fatalf("unexpected vend1 totals %+v", v)
	}
	if v := byVendor["vend2"]; v.subtotal != 8000 || v.commission != 800 || v.earnings != 7200 {
		t.Fatalf("unexpected vend2 totals %+v", v)
	}
}

func TestPlaceOrderRejectsNonPositiveQuantity(t *testing.T) {
	orders := &stubOrders{}
	svc := New(fixtureCatalog(), &stubUsers{}, orders, 1000, nil)
	if _, err := svc.PlaceOrder(context.Background(), domain.Actor{}, validInput(LineInput{ProductID: "p1", Quantity: 0})); err == nil {
		t.Fatal("expected quantity validation error")
	}
	if orders.calls != 0 {
		t.Fatal("no order may be created on validation failure")
	}
}
