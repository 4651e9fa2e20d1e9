package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"marketfront/internal/domain"
	authsvc "marketfront/internal/service/auth"
	cartsvc "marketfront/internal/service/cart"
	checkoutsvc "marketfront/internal/service/checkout"
	ordersvc "marketfront/internal/service/order"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubAuthSvc struct {
	actor    domain.Actor
	actorErr error
	user     *domain.User
	loginErr error
}

func (s *stubAuthSvc) Signup(_ context.Context, _ authsvc.SignupInput) (*domain.User, error) {
	return s.user, nil
}

func (s *stubAuthSvc) Login(_ context.Context, _, _ string) (*domain.User, string, string, error) {
	return s.user, "access", "refresh", s.loginErr
}

func (s *stubAuthSvc) ActorFromToken(_ context.Context, _ string) (domain.Actor, error) {
	return s.actor, s.actorErr
}

func (s *stubAuthSvc) AccessTTLSeconds() int { return 3600 }

type stubCatalogSvc struct {
	products []domain.Product
}

func (s *stubCatalogSvc) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalogSvc) ListProducts(_ context.Context) ([]domain.Product, error) {
	return s.products, nil
}

type stubCartSvc struct {
	items []domain.CartItem
}

func (s *stubCartSvc) Add(_ context.Context, _ string, _ cartsvc.AddInput) error { return nil }
func (s *stubCartSvc) List(_ context.Context, _ string) ([]domain.CartItem, error) {
	return s.items, nil
}
func (s *stubCartSvc) SetQuantity(_ context.Context, _, _ string, _ int) error { return nil }
func (s *stubCartSvc) Remove(_ context.Context, _, _ string) error             { return nil }
func (s *stubCartSvc) Clear(_ context.Context, _ string) error                 { return nil }

type stubCheckoutSvc struct {
	order     *domain.Order
	err       error
	lastActor domain.Actor
}

func (s *stubCheckoutSvc) PlaceOrder(_ context.Context, actor domain.Actor, _ checkoutsvc.PlaceOrderInput) (*domain.Order, error) {
	s.lastActor = actor
	return s.order, s.err
}

type stubOrderSvc struct {
	order        *domain.Order
	getErr       error
	updateErr    error
	payErr       error
	refundErr    error
	events       []domain.TrackingEvent
	vendorOrders []domain.VendorOrder
	lastUpdate   ordersvc.StatusUpdate
}

func (s *stubOrderSvc) Get(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.getErr
}

func (s *stubOrderSvc) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	if s.order == nil {
		return nil, nil
	}
	return []domain.Order{*s.order}, nil
}

func (s *stubOrderSvc) ListVendorOrders(_ context.Context, _ string) ([]domain.VendorOrder, error) {
	return s.vendorOrders, nil
}

func (s *stubOrderSvc) UpdateStatus(_ context.Context, _ string, update ordersvc.StatusUpdate) error {
	s.lastUpdate = update
	return s.updateErr
}

func (s *stubOrderSvc) UpdateVendorStatus(_ context.Context, _ string, update ordersvc.StatusUpdate) error {
	s.lastUpdate = update
	return s.updateErr
}

func (s *stubOrderSvc) MarkPaid(_ context.Context, _ string) error { return s.payErr }

func (s *stubOrderSvc) Refund(_ context.Context, _ string, _ bool, _ string) error {
	return s.refundErr
}

func (s *stubOrderSvc) Tracking(_ context.Context, _ string) ([]domain.TrackingEvent, error) {
	return s.events, nil
}

type stubAddressSvc struct {
	addresses []domain.Address
}

func (s *stubAddressSvc) ListAddresses(_ context.Context, _ string) ([]domain.Address, error) {
	return s.addresses, nil
}

func testDeps() Deps {
	return Deps{
		AuthSvc:     &stubAuthSvc{},
		CatalogSvc:  &stubCatalogSvc{},
		CartSvc:     &stubCartSvc{},
		CheckoutSvc: &stubCheckoutSvc{},
		OrderSvc:    &stubOrderSvc{},
		AddressSvc:  &stubAddressSvc{},
	}
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(logDiscard(), nil, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestActorMiddleware_NoTokenIsGuest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := testDeps()
	checkout := &stubCheckoutSvc{err: domain.ErrEmptyCart}
	deps.CheckoutSvc = checkout
	router := buildRouter(logDiscard(), nil, deps)

	req := httptest.NewRequest(http.MethodPost, "/checkout", jsonBody(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rec.Code, rec.Body.String())
	}
	if checkout.lastActor.Authenticated() {
		t.Fatalf("expected guest actor, got %+v", checkout.lastActor)
	}
}

func TestActorMiddleware_MalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(logDiscard(), nil, testDeps())

	req := httptest.NewRequest(http.MethodPost, "/checkout", jsonBody(`{}`))
	req.Header.Set("Authorization", "NotBearer abc")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestActorMiddleware_InvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := testDeps()
	deps.AuthSvc = &stubAuthSvc{actorErr: authsvc.ErrInvalidToken}
	router := buildRouter(logDiscard(), nil, deps)

	req := httptest.NewRequest(http.MethodPost, "/checkout", jsonBody(`{}`))
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequireActor_GuestRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(logDiscard(), nil, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/me/cart", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}
