package order

import (
	"context"
	"time"

	"shopassist-backend/internal/domain"
)

// ListFilter narrows ListByUser results.
type ListFilter struct {
	Status domain.OrderStatus
	Page   int
	Limit  int
}

// StatusUpdate carries the fields written by a status transition. Nil pointers
// leave the stored value untouched.
type StatusUpdate struct {
	Status            domain.OrderStatus
	TrackingNumber    *string
	EstimatedDelivery *time.Time
}

type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// GetForUser returns the order only when it belongs to userID; otherwise
	// domain.ErrNotFound, so existence is not disclosed to non-owners.
	GetForUser(ctx context.Context, id, userID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, f ListFilter) ([]domain.Order, int, error)
	// UpdateStatus applies a transition. A duplicate tracking number yields
	// domain.ErrAlreadyExists.
	UpdateStatus(ctx context.Context, id string, upd StatusUpdate) (*domain.Order, error)
}
