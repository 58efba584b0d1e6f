package httpserver

import (
	"time"

	"shopassist-backend/internal/domain"
	ordersvc "shopassist-backend/internal/service/order"
)

// productView adds the derived discount to the stored product fields.
type productView struct {
	domain.Product
	DiscountPercentage int `json:"discountPercentage"`
}

func toProductView(p domain.Product) productView {
	return productView{Product: p, DiscountPercentage: p.DiscountPercentage()}
}

func toProductViews(ps []domain.Product) []productView {
	views := make([]productView, 0, len(ps))
	for _, p := range ps {
		views = append(views, toProductView(p))
	}
	return views
}

// orderView carries the derived order number and the expanded line items.
type orderView struct {
	ID                string                `json:"id"`
	OrderNumber       string                `json:"orderNumber"`
	UserID            string                `json:"userId"`
	Items             []ordersvc.ItemDetail `json:"items"`
	TotalAmount       float64               `json:"totalAmount"`
	ShippingCost      float64               `json:"shippingCost"`
	Status            domain.OrderStatus    `json:"status"`
	ShippingAddress   domain.Address        `json:"shippingAddress"`
	TrackingNumber    string                `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time            `json:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

func toOrderView(o domain.Order, items []ordersvc.ItemDetail) orderView {
	if items == nil {
		items = make([]ordersvc.ItemDetail, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, ordersvc.ItemDetail{CartItem: it})
		}
	}
	return orderView{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber(),
		UserID:            o.UserID,
		Items:             items,
		TotalAmount:       o.TotalAmount,
		ShippingCost:      o.ShippingCost,
		Status:            o.Status,
		ShippingAddress:   o.ShippingAddress,
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// userView adds the derived loyalty fields to the profile.
type userView struct {
	ID               string             `json:"id"`
	Email            string             `json:"email"`
	DisplayName      string             `json:"displayName"`
	PhotoURL         string             `json:"photoURL,omitempty"`
	Addresses        []domain.Address   `json:"addresses"`
	Preferences      domain.Preferences `json:"preferences"`
	LoyaltyPoints    int                `json:"loyaltyPoints"`
	LoyaltyTier      int                `json:"loyaltyTier"`
	PointsToNextTier int                `json:"pointsToNextTier"`
	CreatedAt        time.Time          `json:"createdAt"`
}

func toUserView(u domain.User) userView {
	addresses := u.Addresses
	if addresses == nil {
		addresses = []domain.Address{}
	}
	return userView{
		ID:               u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		PhotoURL:         u.PhotoURL,
		Addresses:        addresses,
		Preferences:      u.Preferences,
		LoyaltyPoints:    u.LoyaltyPoints,
		LoyaltyTier:      u.LoyaltyTier(),
		PointsToNextTier: u.PointsToNextTier(),
		CreatedAt:        u.CreatedAt,
	}
}
