package cartitem

import (
	"context"

	"marketfront/internal/domain"
)

// Repository stores the server-side mirror of an authenticated user's cart.
type Repository interface {
	// Upsert merges by line key: an existing row with the same
	// (user, product, variant, purchase type) absorbs the quantity and
	// keeps its stored snapshot fields.
	Upsert(ctx context.Context, item domain.CartItem) error
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID string, quantity int) error
	Delete(ctx context.Context, userID, itemID string) error
	// ClearUser deletes every cart row for the user. Clearing an empty
	// cart is a no-op, not an error.
	ClearUser(ctx context.Context, userID string) error
}
