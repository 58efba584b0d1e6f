package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"shopassist-backend/internal/domain"
	catalogsvc "shopassist-backend/internal/service/catalog"
	ordersvc "shopassist-backend/internal/service/order"
	profilesvc "shopassist-backend/internal/service/profile"
)

type stubCatalog struct {
	product *domain.Product
	findErr error
	synced  []domain.Product
	syncErr error
}

func (s *stubCatalog) FindByCode(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.findErr
}

func (s *stubCatalog) Get(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.findErr
}

func (s *stubCatalog) Featured(_ context.Context, _, _ int) ([]domain.Product, int, error) {
	if s.product == nil {
		return nil, 0, nil
	}
	return []domain.Product{*s.product}, 1, nil
}

func (s *stubCatalog) Recommendations(_ context.Context, _ int) ([]catalogsvc.Recommendation, error) {
	return nil, nil
}

func (s *stubCatalog) Sync(_ context.Context, products []domain.Product) ([]domain.Product, error) {
	if s.syncErr != nil {
		return nil, s.syncErr
	}
	s.synced = products
	return products, nil
}

type stubOrders struct {
	order         *domain.Order
	err           error
	lastRequester string
	lastStatus    domain.OrderStatus
}

func (s *stubOrders) Create(_ context.Context, requesterID string, _ ordersvc.CreateInput) (*domain.Order, error) {
	s.lastRequester = requesterID
	return s.order, s.err
}

func (s *stubOrders) Transition(_ context.Context, _ string, status domain.OrderStatus) (*domain.Order, error) {
	s.lastStatus = status
	return s.order, s.err
}

func (s *stubOrders) Cancel(_ context.Context, _, requesterID string) (*domain.Order, error) {
	s.lastRequester = requesterID
	return s.order, s.err
}

func (s *stubOrders) List(_ context.Context, requesterID string, page, limit int, _ domain.OrderStatus) ([]domain.Order, ordersvc.PageInfo, error) {
	s.lastRequester = requesterID
	if s.err != nil {
		return nil, ordersvc.PageInfo{}, s.err
	}
	var orders []domain.Order
	if s.order != nil {
		orders = []domain.Order{*s.order}
	}
	return orders, ordersvc.PageInfo{Page: page, Limit: limit, Total: len(orders), Pages: 1}, nil
}

func (s *stubOrders) Get(_ context.Context, _, requesterID string) (*domain.Order, error) {
	s.lastRequester = requesterID
	return s.order, s.err
}

func (s *stubOrders) Expand(_ context.Context, o domain.Order) ([]ordersvc.ItemDetail, error) {
	details := make([]ordersvc.ItemDetail, 0, len(o.Items))
	for _, it := range o.Items {
		details = append(details, ordersvc.ItemDetail{CartItem: it})
	}
	return details, nil
}

type stubProfile struct {
	user *domain.User
	err  error
}

func (s *stubProfile) Get(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubProfile) UpdateProfile(_ context.Context, _ string, _ profilesvc.ProfileUpdate) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubProfile) UpdatePreferences(_ context.Context, _ string, _ profilesvc.PreferencesUpdate) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubProfile) AddAddress(_ context.Context, _ string, _ domain.Address) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubProfile) UpdateAddress(_ context.Context, _ string, _ int, _ profilesvc.AddressUpdate) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubProfile) DeleteAddress(_ context.Context, _ string, _ int) (*domain.User, error) {
	return s.user, s.err
}

type stubAuth struct {
	user *domain.User
	err  error
}

func (s *stubAuth) Authenticate(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.err
}

func testRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if deps.AuthSvc == nil {
		deps.AuthSvc = &stubAuth{err: errors.New("no auth configured")}
	}
	logger := log.New(io.Discard, "", 0)
	return buildRouter(logger, nil, deps)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:          "ord-aa6a7b8c9d",
		UserID:      "u1",
		Items:       []domain.CartItem{{ProductID: "p1", Quantity: 2}},
		TotalAmount: 25.98,
		Status:      domain.OrderPending,
	}
}

func TestCreateOrderAsGuest(t *testing.T) {
	orders := &stubOrders{order: sampleOrder()}
	router := testRouter(Deps{OrderSvc: orders})

	body := `{"items":[{"product":"p1","quantity":2}],"shippingAddress":{"fullName":"Jane"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if orders.lastRequester != domain.GuestUserID {
		t.Fatalf("requester = %q, want guest", orders.lastRequester)
	}
	env := decodeEnvelope(t, rec)
	if env["success"] != true || env["message"] != "Order created successfully" {
		t.Fatalf("envelope = %v", env)
	}
	data := env["data"].(map[string]interface{})
	if data["orderNumber"] != "6A7B8C9D" {
		t.Fatalf("orderNumber = %v", data["orderNumber"])
	}
}

func TestCreateOrderAuthenticated(t *testing.T) {
	orders := &stubOrders{order: sampleOrder()}
	auth := &stubAuth{user: &domain.User{ID: "u1"}}
	router := testRouter(Deps{OrderSvc: orders, AuthSvc: auth})

	body := `{"items":[{"product":"p1","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if orders.lastRequester != "u1" {
		t.Fatalf("requester = %q, want u1", orders.lastRequester)
	}
}

func TestListOrdersRequiresToken(t *testing.T) {
	router := testRouter(Deps{OrderSvc: &stubOrders{}})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["error"] != "Access token required" {
		t.Fatalf("error = %v", env["error"])
	}
}

func TestListOrdersRejectsBadToken(t *testing.T) {
	router := testRouter(Deps{
		OrderSvc: &stubOrders{},
		AuthSvc:  &stubAuth{err: errors.New("bad")},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["error"] != "Invalid token" {
		t.Fatalf("error = %v", env["error"])
	}
}

func TestStatusRouteAdminGate(t *testing.T) {
	orders := &stubOrders{order: sampleOrder()}
	router := testRouter(Deps{OrderSvc: orders, AdminKey: "sekrit"})

	body := `{"status":"confirmed"}`
	req := httptest.NewRequest(http.MethodPut, "/api/orders/ord-1/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no key: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/orders/ord-1/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/orders/ord-1/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", "sekrit")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("right key: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if orders.lastStatus != domain.OrderConfirmed {
		t.Fatalf("status passed = %q", orders.lastStatus)
	}
}

func TestStatusRouteOpenWithoutKey(t *testing.T) {
	orders := &stubOrders{order: sampleOrder()}
	router := testRouter(Deps{OrderSvc: orders})

	req := httptest.NewRequest(http.MethodPut, "/api/orders/ord-1/status", strings.NewReader(`{"status":"shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSearchRequiresCode(t *testing.T) {
	router := testRouter(Deps{CatalogSvc: &stubCatalog{}})

	req := httptest.NewRequest(http.MethodGet, "/api/products/search", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["error"] != "Product code is required" {
		t.Fatalf("error = %v", env["error"])
	}
}

func TestSearchMapsNotFound(t *testing.T) {
	router := testRouter(Deps{CatalogSvc: &stubCatalog{findErr: domain.ErrNotFound}})

	req := httptest.NewRequest(http.MethodGet, "/api/products/search?code=SW0000000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSearchIncludesDiscount(t *testing.T) {
	orig := 19.99
	router := testRouter(Deps{CatalogSvc: &stubCatalog{product: &domain.Product{
		ID:            "p1",
		Code:          "SW2301001",
		Price:         12.99,
		OriginalPrice: &orig,
	}}})

	req := httptest.NewRequest(http.MethodGet, "/api/products/search?code=SW2301001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]interface{})
	if data["discountPercentage"] != float64(35) {
		t.Fatalf("discountPercentage = %v", data["discountPercentage"])
	}
}

func TestProfileDerivedLoyaltyFields(t *testing.T) {
	auth := &stubAuth{user: &domain.User{ID: "u1", Email: "a@b.com", LoyaltyPoints: 525}}
	router := testRouter(Deps{ProfileSvc: &stubProfile{}, AuthSvc: auth})

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]interface{})
	if data["loyaltyTier"] != float64(2) || data["pointsToNextTier"] != float64(475) {
		t.Fatalf("loyalty fields = %v / %v", data["loyaltyTier"], data["pointsToNextTier"])
	}
	if _, ok := data["addresses"].([]interface{}); !ok {
		t.Fatalf("addresses not an array: %v", data["addresses"])
	}
}

func TestAddressIndexValidation(t *testing.T) {
	auth := &stubAuth{user: &domain.User{ID: "u1"}}
	router := testRouter(Deps{ProfileSvc: &stubProfile{user: &domain.User{ID: "u1"}}, AuthSvc: auth})

	req := httptest.NewRequest(http.MethodDelete, "/api/users/addresses/abc", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["error"] != "Invalid address index" {
		t.Fatalf("error = %v", env["error"])
	}
}

func TestSyncReportsCount(t *testing.T) {
	catalog := &stubCatalog{}
	router := testRouter(Deps{CatalogSvc: catalog})

	body := `[{"code":"A1","name":"One","price":1.5},{"code":"A2","name":"Two","price":2.5}]`
	req := httptest.NewRequest(http.MethodPost, "/api/products/sync", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env["message"] != "Synced 2 products" {
		t.Fatalf("message = %v", env["message"])
	}
	if len(catalog.synced) != 2 {
		t.Fatalf("synced = %d", len(catalog.synced))
	}
}

func TestListOrdersEnvelopeHasPagination(t *testing.T) {
	auth := &stubAuth{user: &domain.User{ID: "u1"}}
	router := testRouter(Deps{OrderSvc: &stubOrders{order: sampleOrder()}, AuthSvc: auth})

	req := httptest.NewRequest(http.MethodGet, "/api/orders?page=2&limit=5", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	pag, ok := env["pagination"].(map[string]interface{})
	if !ok {
		t.Fatalf("no pagination in envelope: %v", env)
	}
	if pag["page"] != float64(2) || pag["limit"] != float64(5) {
		t.Fatalf("pagination = %v", pag)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(Deps{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
