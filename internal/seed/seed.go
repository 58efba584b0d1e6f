package seed

import (
	"context"
	"fmt"

	"shopassist-backend/internal/domain"
)

// ProductWriter is the slice of the product repository the seeder needs.
type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

func ptr(v float64) *float64 { return &v }

// Products returns the built-in sample catalog. The same set backs the admin
// sync endpoint when it is called without a payload.
func Products() []domain.Product {
	return []domain.Product{
		{
			Code:          "SW2301001",
			Name:          "Casual Cotton T-Shirt",
			Price:         12.99,
			OriginalPrice: ptr(19.99),
			Image:         "https://img.ltwebstatic.com/images3_pi/2023/01/17/16739234953c8f8b8e5f8c8d8e8f8c8d8e8f8c8d.jpg",
			Description:   "Comfortable cotton t-shirt perfect for everyday wear",
			Category:      "Tops",
			Sizes:         []string{"XS", "S", "M", "L", "XL"},
			Colors:        []string{"White", "Black", "Navy", "Pink"},
			Rating:        ptr(4.5),
			Reviews:       1247,
			InStock:       true,
		},
		{
			Code:          "SW2301002",
			Name:          "High Waist Denim Jeans",
			Price:         24.99,
			OriginalPrice: ptr(39.99),
			Image:         "https://img.ltwebstatic.com/images3_pi/2023/02/15/16765234953c8f8b8e5f8c8d8e8f8c8d8e8f8c8d.jpg",
			Description:   "Trendy high-waist denim jeans with stretch fabric",
			Category:      "Bottoms",
			Sizes:         []string{"26", "27", "28", "29", "30", "31", "32"},
			Colors:        []string{"Light Blue", "Dark Blue", "Black"},
			Rating:        ptr(4.3),
			Reviews:       892,
			InStock:       true,
		},
		{
			Code:          "SW2301003",
			Name:          "Floral Summer Dress",
			Price:         18.99,
			OriginalPrice: ptr(29.99),
			Image:         "https://img.ltwebstatic.com/images3_pi/2023/03/10/16783234953c8f8b8e5f8c8d8e8f8c8d8e8f8c8d.jpg",
			Description:   "Beautiful floral print dress perfect for summer occasions",
			Category:      "Dresses",
			Sizes:         []string{"XS", "S", "M", "L", "XL"},
			Colors:        []string{"Pink Floral", "Blue Floral", "Yellow Floral"},
			Rating:        ptr(4.7),
			Reviews:       654,
			InStock:       true,
		},
	}
}

// Apply upserts the sample catalog. Idempotent: re-running overwrites the same
// codes.
func Apply(ctx context.Context, repo ProductWriter) error {
	for _, p := range Products() {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Code, err)
		}
	}
	return nil
}
