package domain

import "time"

// ProductStatus marks whether a product can be purchased.
type ProductStatus string

const (
	ProductActive   ProductStatus = "ACTIVE"
	ProductDraft    ProductStatus = "DRAFT"
	ProductArchived ProductStatus = "ARCHIVED"
)

type Product struct {
	ID             string        `json:"id"`
	VendorID       string        `json:"vendorId"`
	VendorName     string        `json:"vendorName"`
	Name           string        `json:"name"`
	ImageURL       string        `json:"imageUrl,omitempty"`
	Currency       string        `json:"currency"`
	BasePriceCents int64         `json:"basePriceCents"`
	SalePriceCents *int64        `json:"salePriceCents,omitempty"`
	Status         ProductStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// Variant is a purchasable variation of a product. Nil prices fall back to
// the product's prices during resolution.
type Variant struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	Name           string    `json:"name"`
	PriceCents     *int64    `json:"priceCents,omitempty"`
	SalePriceCents *int64    `json:"salePriceCents,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Vendor struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CommissionBPS int       `json:"commissionBps"`
	CreatedAt     time.Time `json:"createdAt"`
}
