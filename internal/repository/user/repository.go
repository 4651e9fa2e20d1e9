package user

import (
	"context"

	"marketfront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile is the best-effort name/phone touch-up during an
	// authenticated checkout; blank fields are left unchanged.
	UpdateProfile(ctx context.Context, id, fullName, phone string) error
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
}
