package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"time"

	"shopassist-backend/internal/domain"
	orderrepo "shopassist-backend/internal/repository/order"
)

// FlatShippingCost is charged per merged shipment. Splitting an order into
// multiple packages is a client-side policy and priced there.
const FlatShippingCost = 5.99

// deliveryWindow is added to the transition time when an order ships.
const deliveryWindow = 7 * 24 * time.Hour

// trackingAttempts bounds retries when a generated tracking number collides.
const trackingAttempts = 3

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetForUser(ctx context.Context, id, userID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, f orderrepo.ListFilter) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, id string, upd orderrepo.StatusUpdate) (*domain.Order, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type userRepo interface {
	CreditLoyaltyPoints(ctx context.Context, id string, points int) (*domain.User, error)
}

// Service is the order lifecycle engine: it validates availability, computes
// totals server-side, persists orders, derives tracking numbers and delivery
// estimates on transitions, and credits loyalty points.
type Service struct {
	orders   orderRepo
	products productRepo
	users    userRepo
	logger   *log.Logger
}

func New(orders orderRepo, products productRepo, users userRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{orders: orders, products: products, users: users, logger: logger}
}

// CreateInput is the client-supplied part of a new order. Prices are never
// taken from the client.
type CreateInput struct {
	Items           []domain.CartItem `json:"items"`
	ShippingAddress domain.Address    `json:"shippingAddress"`
}

// Create validates the cart against the catalog, computes the total from the
// current stored prices, and persists a pending order. An authenticated
// requester earns floor(total) loyalty points; the credit is a separate write
// and its failure does not void the order.
func (s *Service) Create(ctx context.Context, requesterID string, in CreateInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", domain.ErrValidation)
	}
	addr := in.ShippingAddress.Normalize()
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	var total float64
	for _, item := range in.Items {
		if item.ProductID == "" {
			return nil, fmt.Errorf("%w: item product id is required", domain.ErrValidation)
		}
		if item.Quantity < domain.MinItemQuantity || item.Quantity > domain.MaxItemQuantity {
			return nil, fmt.Errorf("%w: quantity must be between %d and %d", domain.ErrValidation, domain.MinItemQuantity, domain.MaxItemQuantity)
		}
		p, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: product not found: %s", domain.ErrNotFound, item.ProductID)
			}
			return nil, err
		}
		if !p.InStock {
			return nil, fmt.Errorf("%w: product out of stock: %s", domain.ErrInvalidState, p.Name)
		}
		total += p.Price * float64(item.Quantity)
	}

	if requesterID == "" {
		requesterID = domain.GuestUserID
	}

	created, err := s.orders.Create(ctx, domain.Order{
		UserID:          requesterID,
		Items:           in.Items,
		TotalAmount:     total,
		ShippingCost:    FlatShippingCost,
		Status:          domain.OrderPending,
		ShippingAddress: addr,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order: created id=%s user=%s total=%.2f", created.ID, created.UserID, created.TotalAmount)

	if requesterID != domain.GuestUserID {
		points := int(math.Floor(total))
		if _, err := s.users.CreditLoyaltyPoints(ctx, requesterID, points); err != nil {
			// The order stands; the credit is retryable by support tooling.
			s.logger.Printf("order: loyalty credit failed order=%s user=%s points=%d error=%v", created.ID, requesterID, points, err)
		}
	}
	return created, nil
}

// Transition moves an order to newStatus. Entering confirmed assigns a
// tracking number if none exists yet; entering shipped stamps the estimated
// delivery. Any enum value is accepted as a target: the status route is an
// administrative surface and does not guard against jumps.
func (s *Service) Transition(ctx context.Context, orderID string, newStatus domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("%w: invalid order status: %s", domain.ErrValidation, newStatus)
	}
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	upd := orderrepo.StatusUpdate{Status: newStatus}
	if newStatus == domain.OrderShipped {
		est := time.Now().Add(deliveryWindow)
		upd.EstimatedDelivery = &est
	}

	if newStatus == domain.OrderConfirmed && current.TrackingNumber == "" {
		// Time-derived numbers can collide; retry a couple of times before
		// giving up on the write.
		var lastErr error
		for i := 0; i < trackingAttempts; i++ {
			tn := trackingNumber(time.Now())
			upd.TrackingNumber = &tn
			updated, err := s.orders.UpdateStatus(ctx, orderID, upd)
			if err == nil {
				s.logger.Printf("order: confirmed id=%s tracking=%s", orderID, tn)
				return updated, nil
			}
			if !errors.Is(err, domain.ErrAlreadyExists) {
				return nil, err
			}
			lastErr = err
			// Let the millisecond clock move before deriving again.
			time.Sleep(time.Millisecond)
		}
		return nil, fmt.Errorf("assign tracking number: %w", lastErr)
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, upd)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order: id=%s status %s -> %s", orderID, current.Status, newStatus)
	return updated, nil
}

// Cancel sets the order to cancelled. Only the owner may cancel, and only
// before the order ships.
func (s *Service) Cancel(ctx context.Context, orderID, requesterID string) (*domain.Order, error) {
	o, err := s.orders.GetForUser(ctx, orderID, requesterID)
	if err != nil {
		return nil, err
	}
	if !o.Cancellable() {
		return nil, fmt.Errorf("%w: cannot cancel order that has been shipped", domain.ErrInvalidState)
	}
	return s.orders.UpdateStatus(ctx, orderID, orderrepo.StatusUpdate{Status: domain.OrderCancelled})
}

// PageInfo describes a page of results.
type PageInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// List returns a page of the requester's orders, newest first.
func (s *Service) List(ctx context.Context, requesterID string, page, limit int, status domain.OrderStatus) ([]domain.Order, PageInfo, error) {
	if status != "" && !domain.ValidOrderStatus(status) {
		return nil, PageInfo{}, fmt.Errorf("%w: invalid order status: %s", domain.ErrValidation, status)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	orders, total, err := s.orders.ListByUser(ctx, requesterID, orderrepo.ListFilter{Status: status, Page: page, Limit: limit})
	if err != nil {
		return nil, PageInfo{}, err
	}
	info := PageInfo{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: (total + limit - 1) / limit,
	}
	return orders, info, nil
}

// Get returns the order only to its owner; others see not found.
func (s *Service) Get(ctx context.Context, orderID, requesterID string) (*domain.Order, error) {
	return s.orders.GetForUser(ctx, orderID, requesterID)
}

// ItemDetail is an order line with its product reference resolved for
// responses. Product is nil when the catalog record has since vanished.
type ItemDetail struct {
	domain.CartItem
	Product *domain.Product `json:"productDetails,omitempty"`
}

// Expand resolves the product behind each order line.
func (s *Service) Expand(ctx context.Context, o domain.Order) ([]ItemDetail, error) {
	details := make([]ItemDetail, 0, len(o.Items))
	for _, item := range o.Items {
		p, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		details = append(details, ItemDetail{CartItem: item, Product: p})
	}
	return details, nil
}

// trackingNumber derives an opaque identifier from the millisecond clock:
// "SH" plus the last 8 digits.
func trackingNumber(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "SH" + ms
}
