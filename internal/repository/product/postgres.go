package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopassist-backend/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, code, name, price, original_price, image, images, COALESCE(description, ''), COALESCE(category, ''), sizes, colors, rating, reviews, in_stock, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Price, &p.OriginalPrice, &p.Image, &p.Images, &p.Description, &p.Category, &p.Sizes, &p.Colors, &p.Rating, &p.Reviews, &p.InStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE code = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get code=%s error=%v", code, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (code, name, price, original_price, image, images, description, category, sizes, colors, rating, reviews, in_stock)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12, $13)
RETURNING id::text, created_at, updated_at
`
	res := p
	err := r.pool.QueryRow(ctx, q,
		p.Code, p.Name, p.Price, p.OriginalPrice, p.Image, p.Images,
		p.Description, p.Category, p.Sizes, p.Colors, p.Rating, p.Reviews, p.InStock,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("product repo: create code=%s error=%v", p.Code, err)
		return nil, err
	}
	r.logger.Printf("product repo: created code=%s id=%s", res.Code, res.ID)
	return &res, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (code, name, price, original_price, image, images, description, category, sizes, colors, rating, reviews, in_stock)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12, $13)
ON CONFLICT (code) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    original_price = EXCLUDED.original_price,
    image = EXCLUDED.image,
    images = EXCLUDED.images,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    sizes = EXCLUDED.sizes,
    colors = EXCLUDED.colors,
    rating = EXCLUDED.rating,
    reviews = EXCLUDED.reviews,
    in_stock = EXCLUDED.in_stock,
    updated_at = now()
RETURNING id::text, created_at, updated_at
`
	res := p
	err := r.pool.QueryRow(ctx, q,
		p.Code, p.Name, p.Price, p.OriginalPrice, p.Image, p.Images,
		p.Description, p.Category, p.Sizes, p.Colors, p.Rating, p.Reviews, p.InStock,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert code=%s error=%v", p.Code, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted code=%s id=%s", res.Code, res.ID)
	return &res, nil
}

func (r *postgresRepo) ListInStock(ctx context.Context, page, limit int) ([]domain.Product, int, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE in_stock
ORDER BY rating DESC NULLS LAST, reviews DESC, created_at DESC
LIMIT $1 OFFSET $2
`
	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE in_stock`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
