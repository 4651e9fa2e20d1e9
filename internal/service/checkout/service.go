// Package checkout turns a guest or authenticated checkout request into a
// durable order: one platform order plus per-vendor sub-orders, created in
// a single transaction with prices re-resolved against the live catalog.
package checkout

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"marketfront/internal/domain"
	"marketfront/internal/pricing"
	orderrepo "marketfront/internal/repository/order"
)

type catalogRepo interface {
	ListProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	ListVariantsByIDs(ctx context.Context, ids []string) (map[string]domain.Variant, error)
	GetVendor(ctx context.Context, id string) (*domain.Vendor, error)
}

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id, fullName, phone string) error
}

type orderCreator interface {
	Create(ctx context.Context, in orderrepo.CreateInput) (*domain.Order, error)
}

type Service struct {
	catalog       catalogRepo
	users         userRepo
	orders        orderCreator
	commissionBPS int
	logger        *log.Logger
}

// New wires a checkout service. commissionBPS is the platform commission in
// basis points, used when a vendor has no rate of its own.
func New(catalog catalogRepo, users userRepo, orders orderCreator, commissionBPS int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		catalog:       catalog,
		users:         users,
		orders:        orders,
		commissionBPS: commissionBPS,
		logger:        logger,
	}
}

type LineInput struct {
	ProductID    string              `json:"productId"`
	VariantID    string              `json:"variantId,omitempty"`
	Quantity     int                 `json:"quantity"`
	PurchaseType domain.PurchaseType `json:"purchaseType,omitempty"`
}

type PlaceOrderInput struct {
	Email      string      `json:"email"`
	FullName   string      `json:"fullName"`
	Phone      string      `json:"phone"`
	Street     string      `json:"street"`
	City       string      `json:"city"`
	State      string      `json:"state"`
	PostalCode string      `json:"postalCode"`
	Country    string      `json:"country"`
	Items      []LineInput `json:"items"`
}

// PlaceOrder validates the request, resolves the buyer, re-prices every
// line against the current catalog, and persists the order atomically.
// Business failures come back as domain sentinel errors; nothing is
// written when any of them occur.
func (s *Service) PlaceOrder(ctx context.Context, actor domain.Actor, in PlaceOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if err := validateAddress(actor, in); err != nil {
		return nil, err
	}
	lines, err := mergeLines(in.Items)
	if err != nil {
		return nil, err
	}

	buyer, err := s.resolveBuyer(ctx, actor, in)
	if err != nil {
		return nil, err
	}

	priced, currency, err := s.priceLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	for _, p := range priced {
		subtotal += p.TotalCents
	}
	// Shipping, tax, and discount are zero-value placeholders for now.
	total := subtotal

	vendorTotals, err := s.vendorTotals(ctx, priced)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Create(ctx, orderrepo.CreateInput{
		UserID:        buyer.ID,
		OrderNumber:   newOrderNumber(),
		Currency:      currency,
		PaymentMethod: domain.PaymentMethodCOD,
		SubtotalCents: subtotal,
		TotalCents:    total,
		Address: orderrepo.AddressSnapshot{
			FullName:   in.FullName,
			Phone:      in.Phone,
			Street:     in.Street,
			City:       in.City,
			State:      in.State,
			PostalCode: in.PostalCode,
			Country:    in.Country,
		},
		Items:           priced,
		VendorTotals:    vendorTotals,
		ClearCartUserID: serverCartOwner(actor),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("checkout: placed order=%s number=%s user=%s total=%d", order.ID, order.OrderNumber, buyer.ID, order.TotalCents)
	return order, nil
}

// resolveBuyer maps the actor to a user row. Authenticated actors get a
// best-effort profile touch-up; guests are looked up by email and
// materialized if unknown.
func (s *Service) resolveBuyer(ctx context.Context, actor domain.Actor, in PlaceOrderInput) (*domain.User, error) {
	if actor.Authenticated() {
		if err := s.users.UpdateProfile(ctx, actor.ID, in.FullName, in.Phone); err != nil {
			s.logger.Printf("checkout: profile touch-up user=%s err=%v", actor.ID, err)
		}
		return s.users.GetByID(ctx, actor.ID)
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	credential, err := placeholderCredential()
	if err != nil {
		return nil, err
	}
	created, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: credential,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Role:         domain.RoleUser,
		Status:       domain.UserActive,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Lost a race with a concurrent guest checkout for the same email.
		return s.users.GetByEmail(ctx, email)
	}
	return created, err
}

// priceLines batch-fetches the referenced products and variants, then
// resolves every unit price fresh. Client-submitted prices are never read.
func (s *Service) priceLines(ctx context.Context, lines []LineInput) ([]orderrepo.ItemInput, string, error) {
	productIDs := make([]string, 0, len(lines))
	seenProducts := make(map[string]bool, len(lines))
	var variantIDs []string
	for _, l := range lines {
		if !seenProducts[l.ProductID] {
			seenProducts[l.ProductID] = true
			productIDs = append(productIDs, l.ProductID)
		}
		if l.VariantID != "" {
			variantIDs = append(variantIDs, l.VariantID)
		}
	}

	products, err := s.catalog.ListProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, "", err
	}
	variants, err := s.catalog.ListVariantsByIDs(ctx, variantIDs)
	if err != nil {
		return nil, "", err
	}

	currency := ""
	priced := make([]orderrepo.ItemInput, 0, len(lines))
	for _, l := range lines {
		product, ok := products[l.ProductID]
		if !ok {
			return nil, "", fmt.Errorf("%w: product %s not found", domain.ErrInvalidCartContents, l.ProductID)
		}
		var variant *domain.Variant
		if l.VariantID != "" {
			v, ok := variants[l.VariantID]
			if !ok {
				return nil, "", fmt.Errorf("%w: variant %s not found", domain.ErrInvalidCartContents, l.VariantID)
			}
			variant = &v
		}
		unitPrice, err := pricing.ResolveUnitPrice(product, variant)
		if err != nil {
			return nil, "", fmt.Errorf("%w: product %s: %w", domain.ErrInvalidCartContents, l.ProductID, err)
		}
		if currency == "" {
			currency = product.Currency
		}
		priced = append(priced, orderrepo.ItemInput{
			ProductID:      l.ProductID,
			VariantID:      l.VariantID,
			VendorID:       product.VendorID,
			ProductName:    product.Name,
			PurchaseType:   l.PurchaseType,
			Quantity:       l.Quantity,
			UnitPriceCents: unitPrice,
			TotalCents:     unitPrice * int64(l.Quantity),
		})
	}
	return priced, currency, nil
}

// vendorTotals partitions priced items per vendor and applies the vendor's
// commission rate, falling back to the platform rate.
func (s *Service) vendorTotals(ctx context.Context, items []orderrepo.ItemInput) ([]orderrepo.VendorTotal, error) {
	subtotals := make(map[string]int64)
	var vendorIDs []string
	for _, item := range items {
		if _, ok := subtotals[item.VendorID]; !ok {
			vendorIDs = append(vendorIDs, item.VendorID)
		}
		subtotals[item.VendorID] += item.TotalCents
	}

	totals := make([]orderrepo.VendorTotal, 0, len(vendorIDs))
	for _, vendorID := range vendorIDs {
		bps := s.commissionBPS
		vendor, err := s.catalog.GetVendor(ctx, vendorID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
		} else if vendor.CommissionBPS > 0 {
			bps = vendor.CommissionBPS
		}
		subtotal := subtotals[vendorID]
		commission := subtotal * int64(bps) / 10000
		totals = append(totals, orderrepo.VendorTotal{
			VendorID:        vendorID,
			SubtotalCents:   subtotal,
			CommissionCents: commission,
			EarningsCents:   subtotal - commission,
		})
	}
	return totals, nil
}

// mergeLines collapses duplicate line keys (quantities sum) and normalizes
// quantities and purchase types.
func mergeLines(items []LineInput) ([]LineInput, error) {
	index := make(map[domain.LineKey]int, len(items))
	out := make([]LineInput, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, fmt.Errorf("%w: productId required", domain.ErrValidation)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
		}
		key := domain.NewLineKey(item.ProductID, item.VariantID, item.PurchaseType)
		item.PurchaseType = key.PurchaseType
		if i, ok := index[key]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[key] = len(out)
		out = append(out, item)
	}
	return out, nil
}

func validateAddress(actor domain.Actor, in PlaceOrderInput) error {
	if !actor.Authenticated() && strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("%w: email required", domain.ErrValidation)
	}
	required := map[string]string{
		"fullName":   in.FullName,
		"street":     in.Street,
		"city":       in.City,
		"postalCode": in.PostalCode,
		"country":    in.Country,
	}
	for _, field := range []string{"fullName", "street", "city", "postalCode", "country"} {
		if strings.TrimSpace(required[field]) == "" {
			return fmt.Errorf("%w: %s required", domain.ErrValidation, field)
		}
	}
	return nil
}

func serverCartOwner(actor domain.Actor) string {
	if actor.Authenticated() {
		return actor.ID
	}
	return ""
}

// placeholderCredential hashes random bytes so a materialized guest row
// carries an opaque credential nobody can log in with.
func placeholderCredential() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(base64.RawURLEncoding.EncodeToString(raw)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
