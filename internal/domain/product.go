package domain

import (
	"math"
	"strings"
	"time"
)

// Product is a catalog entry keyed by its supplier code. Records are created
// either by the admin sync/import path or by the first successful code lookup,
// after which they are cached permanently.
type Product struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Image         string    `json:"image"`
	Images        []string  `json:"images,omitempty"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	Sizes         []string  `json:"sizes,omitempty"`
	Colors        []string  `json:"colors,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	Reviews       int       `json:"reviews"`
	InStock       bool      `json:"inStock"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DiscountPercentage derives the discount from the original price. Computed at
// read time so it can never go stale.
func (p Product) DiscountPercentage() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price {
		return 0
	}
	return int(math.Round((*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100))
}

// NormalizeCode maps a raw product code to its canonical stored form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
