package product

import (
	"context"

	"shopassist-backend/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	// Create inserts a new product. A duplicate code yields domain.ErrAlreadyExists.
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	// Upsert overwrites whatever is stored under the same code.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	// ListInStock returns a page of in-stock products ordered by rating then
	// review count, both descending, plus the total in-stock count.
	ListInStock(ctx context.Context, page, limit int) ([]domain.Product, int, error)
}
