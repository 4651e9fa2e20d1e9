package domain

import "time"

// OrderStatus is the fulfillment state shared by orders and vendor orders.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderRefunded   OrderStatus = "REFUNDED"
)

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "PENDING"
	PaymentPaid              PaymentStatus = "PAID"
	PaymentFailed            PaymentStatus = "FAILED"
	PaymentRefunded          PaymentStatus = "REFUNDED"
	PaymentPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

// PaymentMethodCOD is the cash-on-delivery placeholder; no gateway is wired.
const PaymentMethodCOD = "CASH_ON_DELIVERY"

// fulfillmentTransitions is the complete legal transition table. DELIVERED,
// CANCELLED, and REFUNDED are terminal. REFUNDED is never entered through
// this table; Refund moves the payment machine and the order together.
var fulfillmentTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
	OrderDelivered:  {},
	OrderCancelled:  {},
	OrderRefunded:   {},
}

// ValidStatus reports whether s is a known fulfillment status.
func ValidStatus(s OrderStatus) bool {
	_, ok := fulfillmentTransitions[s]
	return ok
}

// CanTransition reports whether from -> to is present in the transition
// table. It never mutates anything; callers reject with ErrIllegalTransition.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range fulfillmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionPayment covers the smaller payment machine: PENDING -> PAID
// or FAILED; refund states are reachable only from PAID.
func CanTransitionPayment(from, to PaymentStatus) bool {
	switch from {
	case PaymentPending:
		return to == PaymentPaid || to == PaymentFailed
	case PaymentPaid:
		return to == PaymentRefunded || to == PaymentPartiallyRefunded
	default:
		return false
	}
}

// Order is the buyer-facing aggregate for one checkout. Immutable after
// creation except for status, paymentStatus, and appended sub-entities.
type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	UserID        string        `json:"userId"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod string        `json:"paymentMethod"`
	Currency      string        `json:"currency"`

	SubtotalCents int64 `json:"subtotalCents"`
	ShippingCents int64 `json:"shippingCents"`
	TaxCents      int64 `json:"taxCents"`
	DiscountCents int64 `json:"discountCents"`
	TotalCents    int64 `json:"totalCents"`

	// Shipping address snapshot, copied inline at order time.
	ShipFullName   string `json:"shipFullName"`
	ShipPhone      string `json:"shipPhone,omitempty"`
	ShipStreet     string `json:"shipStreet"`
	ShipCity       string `json:"shipCity"`
	ShipState      string `json:"shipState,omitempty"`
	ShipPostalCode string `json:"shipPostalCode"`
	ShipCountry    string `json:"shipCountry"`

	Items        []OrderItem   `json:"items,omitempty"`
	VendorOrders []VendorOrder `json:"vendorOrders,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// OrderItem is an immutable snapshot of one line as resolved at placement
// time. It is never recomputed, even if catalog prices change.
type OrderItem struct {
	ID             string       `json:"id"`
	OrderID        string       `json:"orderId"`
	ProductID      string       `json:"productId"`
	VariantID      string       `json:"variantId,omitempty"`
	VendorID       string       `json:"vendorId"`
	ProductName    string       `json:"productName"`
	PurchaseType   PurchaseType `json:"purchaseType"`
	Quantity       int          `json:"quantity"`
	UnitPriceCents int64        `json:"unitPriceCents"`
	TotalCents     int64        `json:"totalCents"`
}

// VendorOrder is one vendor's partition of an order, with its own
// fulfillment lifecycle independent of the parent order's.
type VendorOrder struct {
	ID              string      `json:"id"`
	OrderID         string      `json:"orderId"`
	VendorID        string      `json:"vendorId"`
	Status          OrderStatus `json:"status"`
	SubtotalCents   int64       `json:"subtotalCents"`
	CommissionCents int64       `json:"commissionCents"`
	EarningsCents   int64       `json:"earningsCents"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// TrackingEvent is one append-only entry in an order's shipment narration.
type TrackingEvent struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"orderId"`
	VendorOrderID  string    `json:"vendorOrderId,omitempty"`
	Status         string    `json:"status"`
	Description    string    `json:"description,omitempty"`
	Location       string    `json:"location,omitempty"`
	Carrier        string    `json:"carrier,omitempty"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}
