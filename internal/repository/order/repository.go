package order

import (
	"context"

	"marketfront/internal/domain"
)

// AddressSnapshot carries the shipping address fields copied inline into
// the order and stored as the user's new default address.
type AddressSnapshot struct {
	FullName   string
	Phone      string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// ItemInput is one order line with its price as resolved at placement time.
type ItemInput struct {
	ProductID      string
	VariantID      string
	VendorID       string
	ProductName    string
	PurchaseType   domain.PurchaseType
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
}

// VendorTotal is one vendor's partition of the order.
type VendorTotal struct {
	VendorID        string
	SubtotalCents   int64
	CommissionCents int64
	EarningsCents   int64
}

// CreateInput is everything Create persists in one transaction.
type CreateInput struct {
	UserID        string
	OrderNumber   string
	Currency      string
	PaymentMethod string
	SubtotalCents int64
	ShippingCents int64
	TaxCents      int64
	DiscountCents int64
	TotalCents    int64
	Address       AddressSnapshot
	Items         []ItemInput
	VendorTotals  []VendorTotal
	// ClearCartUserID, when non-empty, deletes that user's server-side
	// cart items inside the same transaction. Idempotent.
	ClearCartUserID string
}

type Repository interface {
	// Create persists the address snapshot (made the user's sole
	// default), the order, its items, its vendor orders, and the initial
	// tracking event atomically. Nothing is visible unless it commits.
	Create(ctx context.Context, in CreateInput) (*domain.Order, error)

	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	GetVendorOrder(ctx context.Context, id string) (*domain.VendorOrder, error)
	ListVendorOrdersByVendor(ctx context.Context, vendorID string) ([]domain.VendorOrder, error)

	// UpdateStatus moves the order from -> to and appends the event in
	// one transaction. If the row is no longer in `from`, nothing is
	// written and domain.ErrIllegalTransition is returned.
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, event domain.TrackingEvent) error
	UpdateVendorStatus(ctx context.Context, vendorOrderID string, from, to domain.OrderStatus, event domain.TrackingEvent) error

	SetPaymentStatus(ctx context.Context, orderID string, from, to domain.PaymentStatus) error
	// Refund moves paymentStatus and order status together and appends
	// the refund event, in one transaction.
	Refund(ctx context.Context, orderID string, payment domain.PaymentStatus, event domain.TrackingEvent) error

	ListTracking(ctx context.Context, orderID string) ([]domain.TrackingEvent, error)
}
