package domain

import "time"

// PurchaseType is the commercial mode of acquisition for a cart line.
type PurchaseType string

const (
	PurchaseNew         PurchaseType = "NEW"
	PurchaseRefurbished PurchaseType = "REFURBISHED"
	PurchaseRental      PurchaseType = "RENTAL"
	PurchaseInstallment PurchaseType = "INSTALLMENT"
	PurchasePreorder    PurchaseType = "PREORDER"
)

// LineKey identifies a cart line. Two lines with the same key are the same
// line: adding merges them, it never creates a duplicate.
type LineKey struct {
	ProductID    string       `json:"productId"`
	VariantID    string       `json:"variantId,omitempty"`
	PurchaseType PurchaseType `json:"purchaseType"`
}

// NewLineKey normalizes the key parts; an empty purchase type means NEW.
func NewLineKey(productID, variantID string, purchaseType PurchaseType) LineKey {
	if purchaseType == "" {
		purchaseType = PurchaseNew
	}
	return LineKey{ProductID: productID, VariantID: variantID, PurchaseType: purchaseType}
}

// CartItem is one server-mirrored cart line for an authenticated user. The
// price and display fields are snapshots taken at add time and are hints
// only; checkout re-resolves prices against the live catalog.
type CartItem struct {
	ID             string       `json:"id"`
	UserID         string       `json:"-"`
	ProductID      string       `json:"productId"`
	VariantID      string       `json:"variantId,omitempty"`
	PurchaseType   PurchaseType `json:"purchaseType"`
	Quantity       int          `json:"quantity"`
	UnitPriceCents int64        `json:"unitPriceCents"`
	ProductName    string       `json:"productName"`
	ImageURL       string       `json:"imageUrl,omitempty"`
	VendorName     string       `json:"vendorName,omitempty"`
	Currency       string       `json:"currency"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// Key returns the merge key for this item.
func (i CartItem) Key() LineKey {
	return NewLineKey(i.ProductID, i.VariantID, i.PurchaseType)
}
