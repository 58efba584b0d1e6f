package user

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

const userColumns = `id::text, external_uid, email, display_name, COALESCE(photo_url, ''), addresses, preferences, loyalty_points, version, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.ExternalUID, &u.Email, &u.DisplayName, &u.PhotoURL, &u.Addresses, &u.Preferences, &u.LoyaltyPoints, &u.Version, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`
	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return u, nil
}

func (r *postgresRepo) GetByExternalUID(ctx context.Context, uid string) (*domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE external_uid = $1
`
	u, err := scanUser(r.pool.QueryRow(ctx, q, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: get external_uid=%s error=%v", uid, err)
		return nil, err
	}
	return u, nil
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (external_uid, email, display_name, photo_url, addresses, preferences, loyalty_points)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
RETURNING ` + userColumns + `
`
	created, err := scanUser(r.pool.QueryRow(ctx, q, u.ExternalUID, u.Email, u.DisplayName, u.PhotoURL, u.Addresses, u.Preferences, u.LoyaltyPoints))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: create external_uid=%s error=%v", u.ExternalUID, err)
		return nil, err
	}
	r.logger.Printf("user repo: created id=%s email=%s", created.ID, created.Email)
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
UPDATE users
SET display_name = $2,
    photo_url = NULLIF($3, ''),
    addresses = $4,
    preferences = $5,
    version = version + 1,
    updated_at = now()
WHERE id = $1 AND version = $6
RETURNING ` + userColumns + `
`
	updated, err := scanUser(r.pool.QueryRow(ctx, q, u.ID, u.DisplayName, u.PhotoURL, u.Addresses, u.Preferences, u.Version))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Row missing or version stale; distinguish for the caller.
			if _, getErr := r.GetByID(ctx, u.ID); getErr == nil {
				return nil, domain.ErrVersionConflict
			}
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: update id=%s error=%v", u.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) CreditLoyaltyPoints(ctx context.Context, id string, points int) (*domain.User, error) {
	const q = `
UPDATE users
SET loyalty_points = loyalty_points + $2,
    updated_at = now()
WHERE id = $1
RETURNING ` + userColumns + `
`
	u, err := scanUser(r.pool.QueryRow(ctx, q, id, points))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: credit id=%s points=%d error=%v", id, points, err)
		return nil, err
	}
	r.logger.Printf("user repo: credited id=%s points=%d balance=%d", id, points, u.LoyaltyPoints)
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
