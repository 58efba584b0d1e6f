package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"shopassist-backend/internal/domain"
	"shopassist-backend/internal/scraper"
	"shopassist-backend/internal/seed"
)

// Lookup is the external product-lookup capability. A nil Description with a
// nil error means the upstream had no match.
type Lookup interface {
	SearchByCode(ctx context.Context, code string) (*scraper.Description, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	ListInStock(ctx context.Context, page, limit int) ([]domain.Product, int, error)
}

// Service is the catalog: stored products plus the lookup-then-cache path.
type Service struct {
	repo   productRepo
	lookup Lookup
	logger *log.Logger
}

func New(repo productRepo, lookup Lookup, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, lookup: lookup, logger: logger}
}

// FindByCode returns the cached product for a code, consulting the external
// lookup on a miss and caching the first successful result. First writer wins:
// losing an insert race falls back to re-reading the stored row.
func (s *Service) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	code = domain.NormalizeCode(code)
	if len(code) < 3 || len(code) > 20 {
		return nil, fmt.Errorf("%w: product code must be between 3 and 20 characters", domain.ErrValidation)
	}

	p, err := s.repo.GetByCode(ctx, code)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	desc, err := s.lookup.SearchByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, fmt.Errorf("%w: no product found with code: %s", domain.ErrNotFound, code)
	}

	created, err := s.repo.Create(ctx, productFromDescription(code, *desc))
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// A concurrent lookup cached the same code first.
			s.logger.Printf("catalog: lost create race for code=%s, re-reading", code)
			return s.repo.GetByCode(ctx, code)
		}
		return nil, err
	}
	s.logger.Printf("catalog: cached code=%s id=%s", created.Code, created.ID)
	return created, nil
}

// Get returns a stored product by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Featured returns a page of in-stock products, best rated first.
func (s *Service) Featured(ctx context.Context, page, limit int) ([]domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListInStock(ctx, page, limit)
}

// Recommendation pairs a product with a canned reason. Ranking is a fixed
// rule: rating descending.
type Recommendation struct {
	ID      string         `json:"id"`
	Product domain.Product `json:"product"`
	Reason  string         `json:"reason"`
	Score   float64        `json:"score"`
}

var recommendationReasons = []string{
	"Top rated product",
	"Popular choice",
	"Trending now",
}

// Recommendations returns up to limit top-rated in-stock products.
func (s *Service) Recommendations(ctx context.Context, limit int) ([]Recommendation, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	products, _, err := s.repo.ListInStock(ctx, 1, limit)
	if err != nil {
		return nil, err
	}
	recs := make([]Recommendation, 0, len(products))
	for i, p := range products {
		reason := "You might like this"
		if i < len(recommendationReasons) {
			reason = recommendationReasons[i]
		}
		recs = append(recs, Recommendation{
			ID:      "rec_" + p.ID,
			Product: p,
			Reason:  reason,
			Score:   1 - float64(i)*0.1,
		})
	}
	return recs, nil
}

// Sync bulk-upserts products keyed by code, unconditionally overwriting. An
// empty input falls back to the built-in sample set.
func (s *Service) Sync(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	if len(products) == 0 {
		products = seed.Products()
	}
	synced := make([]domain.Product, 0, len(products))
	for _, p := range products {
		p.Code = domain.NormalizeCode(p.Code)
		if p.Code == "" {
			return nil, fmt.Errorf("%w: product code is required", domain.ErrValidation)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
		}
		res, err := s.repo.Upsert(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("sync product %s: %w", p.Code, err)
		}
		synced = append(synced, *res)
	}
	s.logger.Printf("catalog: synced %d products", len(synced))
	return synced, nil
}

func productFromDescription(code string, d scraper.Description) domain.Product {
	p := domain.Product{
		Code:        code,
		Name:        d.Title,
		Price:       d.Price,
		Description: d.Description,
		Images:      d.Images,
		Sizes:       d.Sizes,
		Colors:      d.Colors,
		Reviews:     d.RatingCount,
		InStock:     d.Available,
	}
	if len(d.Images) > 0 {
		p.Image = d.Images[0]
	}
	if d.OriginalPrice > 0 {
		orig := d.OriginalPrice
		p.OriginalPrice = &orig
	}
	if d.Rating > 0 {
		rating := d.Rating
		p.Rating = &rating
	}
	return p
}
