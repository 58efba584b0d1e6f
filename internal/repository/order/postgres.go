package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopassist-backend/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const orderColumns = `id::text, user_id, items, total_amount, shipping_cost, status, shipping_address, COALESCE(tracking_number, ''), estimated_delivery, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Items, &o.TotalAmount, &o.ShippingCost, &o.Status, &o.ShippingAddress, &o.TrackingNumber, &o.EstimatedDelivery, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (user_id, items, total_amount, shipping_cost, status, shipping_address)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + orderColumns + `
`
	return scanOrder(r.pool.QueryRow(ctx, q, o.UserID, o.Items, o.TotalAmount, o.ShippingCost, o.Status, o.ShippingAddress))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) GetForUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1 AND user_id = $2
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string, f ListFilter) ([]domain.Order, int, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1 AND ($2 = '' OR status = $2)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4
`
	offset := (f.Page - 1) * f.Limit
	rows, err := r.pool.Query(ctx, q, userID, string(f.Status), f.Limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	const countQ = `SELECT COUNT(*) FROM orders WHERE user_id = $1 AND ($2 = '' OR status = $2)`
	if err := r.pool.QueryRow(ctx, countQ, userID, string(f.Status)).Scan(&total); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, upd StatusUpdate) (*domain.Order, error) {
	const q = `
UPDATE orders
SET status = $2,
    tracking_number = COALESCE($3, tracking_number),
    estimated_delivery = COALESCE($4, estimated_delivery),
    updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns + `
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, upd.Status, upd.TrackingNumber, upd.EstimatedDelivery))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return o, nil
}
