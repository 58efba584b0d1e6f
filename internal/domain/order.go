package domain

import (
	"strings"
	"time"
)

// OrderStatus enumerates the order lifecycle states.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// GuestUserID marks orders placed without authentication.
const GuestUserID = "guest"

// ValidOrderStatus reports whether s is a member of the status enum.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CartItem is a line of an order. It references a Product by id and is copied
// into the order at creation time, not kept live.
type CartItem struct {
	ProductID     string `json:"product"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selectedSize,omitempty"`
	SelectedColor string `json:"selectedColor,omitempty"`
}

// MinItemQuantity and MaxItemQuantity bound a single order line.
const (
	MinItemQuantity = 1
	MaxItemQuantity = 20
)

// Order is an intermediary purchase order placed through the assistant.
type Order struct {
	ID                string      `json:"id"`
	UserID            string      `json:"userId"`
	Items             []CartItem  `json:"items"`
	TotalAmount       float64     `json:"totalAmount"`
	ShippingCost      float64     `json:"shippingCost"`
	Status            OrderStatus `json:"status"`
	ShippingAddress   Address     `json:"shippingAddress"`
	TrackingNumber    string      `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time  `json:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// OrderNumber is the customer-facing short identifier: the last 8 characters
// of the internal id, uppercased. Derived at read time.
func (o Order) OrderNumber() string {
	id := o.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}

// Cancellable reports whether the order may still be cancelled. Once shipped
// or delivered it cannot be.
func (o Order) Cancellable() bool {
	return o.Status != OrderShipped && o.Status != OrderDelivered
}
