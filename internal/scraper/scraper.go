// Package scraper is the product-lookup collaborator. The upstream retailer
// has no public API, so this implementation fabricates plausible placeholder
// data instead of scraping; callers must not assume repeated lookups for the
// same code return identical content.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"strings"
	"time"
)

// Description is what a lookup returns for a product code.
type Description struct {
	Code          string
	Title         string
	Price         float64
	OriginalPrice float64
	Images        []string
	Description   string
	Sizes         []string
	Colors        []string
	Material      string
	Rating        float64
	RatingCount   int
	Available     bool
}

var placeholderImages = []string{
	"https://img.ltwebstatic.com/images3_pi/2023/01/17/16739234953c8f8b8e5f8c8d8e8f8c8d8e8f8c8d.jpg",
	"https://img.ltwebstatic.com/images3_pi/2023/02/15/16765234953c8f8b8e5f8c8d8e8f8c8d8e8f8c8d.jpg",
}

// Service simulates the remote lookup with randomized content and latency.
type Service struct {
	logger   *log.Logger
	minDelay time.Duration
	maxDelay time.Duration
}

func New(logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		logger:   logger,
		minDelay: time.Second,
		maxDelay: 2 * time.Second,
	}
}

// SearchByCode returns a fabricated listing for the given code, or nil when
// the (simulated) retailer has no match.
func (s *Service) SearchByCode(ctx context.Context, code string) (*Description, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	delay := s.minDelay + rand.N(s.maxDelay-s.minDelay)
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	d := &Description{
		Code:          code,
		Title:         fmt.Sprintf("SHEIN Product %s", code),
		Price:         roundCents(rand.Float64()*50 + 10),
		OriginalPrice: roundCents(rand.Float64()*30 + 60),
		Images:        placeholderImages,
		Description:   fmt.Sprintf("High-quality product with excellent craftsmanship. Product code: %s", code),
		Sizes:         []string{"XS", "S", "M", "L", "XL"},
		Colors:        []string{"Black", "White", "Navy", "Pink"},
		Material:      "Cotton blend",
		Rating:        roundTenth(rand.Float64()*2 + 3),
		RatingCount:   rand.IntN(1000) + 100,
		Available:     rand.Float64() > 0.1,
	}
	s.logger.Printf("scraper: lookup code=%s price=%.2f available=%v", code, d.Price, d.Available)
	return d, nil
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
