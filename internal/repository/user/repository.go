package user

import (
	"context"

	"shopassist-backend/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByExternalUID(ctx context.Context, uid string) (*domain.User, error)
	// Create inserts a new user. A duplicate external uid or email yields
	// domain.ErrAlreadyExists.
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	// Update rewrites the mutable profile fields guarded by the version the
	// caller read. A stale version yields domain.ErrVersionConflict.
	Update(ctx context.Context, u domain.User) (*domain.User, error)
	// CreditLoyaltyPoints atomically increments the balance and returns the
	// updated user.
	CreditLoyaltyPoints(ctx context.Context, id string, points int) (*domain.User, error)
}
