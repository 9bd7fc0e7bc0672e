package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reshambazaar/internal/domain"
	usersvc "reshambazaar/internal/service/user"
	"github.com/gin-gonic/gin"
)

type stubUserService struct {
	user     *domain.User
	admin    *domain.User
	loginErr error
}

func (s *stubUserService) Signup(_ context.Context, _ usersvc.SignupInput) (*domain.User, error) {
	return s.user, nil
}

func (s *stubUserService) Login(_ context.Context, _, _ string) (*domain.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return s.user, "token-user", nil
}

func (s *stubUserService) LookupByToken(_ context.Context, token string) (*domain.User, error) {
	switch token {
	case "token-user":
		return s.user, nil
	case "token-admin":
		return s.admin, nil
	}
	return nil, domain.ErrUnauthenticated
}

func (s *stubUserService) AccessTTLSeconds() int { return 3600 }

type stubProductService struct {
	products []domain.Product
	getErr   error
}

func (s *stubProductService) List(_ context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubCartService struct {
	summary   *domain.CartSummary
	addErr    error
	setErr    error
	count     int
	lastAdded string
	lastQty   int
}

func (s *stubCartService) Add(_ context.Context, _, productID string, quantity int) error {
	s.lastAdded = productID
	s.lastQty = quantity
	return s.addErr
}

func (s *stubCartService) SetQuantity(_ context.Context, _, _ string, _ int) error {
	return s.setErr
}

func (s *stubCartService) Remove(_ context.Context, _, _ string) error { return nil }
func (s *stubCartService) Clear(_ context.Context, _ string) error     { return nil }
func (s *stubCartService) Count(_ context.Context, _ string) (int, error) {
	return s.count, nil
}

func (s *stubCartService) PricedSummary(_ context.Context, _, _ string) (*domain.CartSummary, error) {
	if s.summary != nil {
		return s.summary, nil
	}
	return &domain.CartSummary{Items: []domain.CartItem{}}, nil
}

type stubCouponService struct {
	result  domain.CouponResult
	lastSub int64
}

func (s *stubCouponService) Validate(_ context.Context, _ string, subtotal int64) (domain.CouponResult, error) {
	s.lastSub = subtotal
	return s.result, nil
}

type stubCheckoutService struct {
	order *domain.Order
	err   error
}

func (s *stubCheckoutService) Checkout(_ context.Context, _, _ string, _ *domain.Address) (*domain.Order, error) {
	return s.order, s.err
}

type stubOrderService struct {
	orders    []domain.Order
	statusErr error
	lastID    string
	lastNext  string
}

func (s *stubOrderService) ListMine(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, nil
}

func (s *stubOrderService) UpdateStatus(_ context.Context, orderID, status string) error {
	s.lastID = orderID
	s.lastNext = status
	return s.statusErr
}

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testDeps() (Deps, *stubCartService, *stubCheckoutService, *stubOrderService) {
	carts := &stubCartService{}
	checkouts := &stubCheckoutService{order: &domain.Order{ID: "o1", Status: domain.OrderPending}}
	orders := &stubOrderService{}
	deps := Deps{
		UserSvc: &stubUserService{
			user:  &domain.User{ID: "u1", Email: "u@example.com"},
			admin: &domain.User{ID: "a1", Email: "admin@example.com", Admin: true},
		},
		ProductSvc: &stubProductService{products: []domain.Product{
			{ID: "p1", Name: "Banarasi Silk", PriceCents: 129900, Stock: 4},
		}},
		CartSvc:     carts,
		CouponSvc:   &stubCouponService{},
		CheckoutSvc: checkouts,
		OrderSvc:    orders,
	}
	return deps, carts, checkouts, orders
}

func serve(t *testing.T, deps Deps, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCartRequiresAuth(t *testing.T) {
	deps, _, _, _ := testDeps()
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := serve(t, deps, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = serve(t, deps, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
}

func TestGetCart(t *testing.T) {
	deps, carts, _, _ := testDeps()
	carts.summary = &domain.CartSummary{
		Items:         []domain.CartItem{{ProductID: "p1", Name: "Saree", UnitPriceCents: 1000, Quantity: 2, LineTotalCents: 2000}},
		SubtotalCents: 2000,
		TotalCents:    2000,
	}
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer token-user")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"subtotalCents":2000`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAddToCart(t *testing.T) {
	deps, carts, _, _ := testDeps()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader(`{"productId":"p1","quantity":3}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token-user")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if carts.lastAdded != "p1" || carts.lastQty != 3 {
		t.Fatalf("add not forwarded: %q %d", carts.lastAdded, carts.lastQty)
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	deps, carts, _, _ := testDeps()
	carts.addErr = domain.ErrNotFound
	req := httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader(`{"productId":"missing","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token-user")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestValidateCouponAnonymous(t *testing.T) {
	deps, _, _, _ := testDeps()
	coupons := &stubCouponService{result: domain.CouponResult{
		Valid: true, Message: "Coupon applied", DiscountCents: 200, FinalTotalCents: 1800,
	}}
	deps.CouponSvc = coupons

	req := httptest.NewRequest(http.MethodGet, "/api/coupons/validate?code=WELCOME10&subtotal=2000", nil)
	rec := serve(t, deps, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if coupons.lastSub != 2000 {
		t.Fatalf("subtotal not forwarded, got %d", coupons.lastSub)
	}
	if !strings.Contains(rec.Body.String(), `"isValid":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestValidateCouponBadSubtotal(t *testing.T) {
	deps, _, _, _ := testDeps()
	for _, q := range []string{"subtotal=abc", "subtotal=-5", ""} {
		req := httptest.NewRequest(http.MethodGet, "/api/coupons/validate?code=X&"+q, nil)
		rec := serve(t, deps, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("query %q: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestCheckoutCreated(t *testing.T) {
	deps, _, _, _ := testDeps()
	body := `{"couponCode":"WELCOME10","address":{"fullName":"Asha Rao","line1":"12 MG Road","city":"Bengaluru","pincode":"560001","phone":"12345"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token-user")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":"o1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCheckoutEmptyBody(t *testing.T) {
	deps, _, _, _ := testDeps()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	req.Header.Set("Authorization", "Bearer token-user")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for bodyless checkout, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	deps, _, checkouts, _ := testDeps()
	checkouts.order = nil
	checkouts.err = domain.ErrEmptyCart
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token-user")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminStatusForbiddenForUsers(t *testing.T) {
	deps, _, _, _ := testDeps()
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/o1/status", strings.NewReader(`{"status":"Shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token-user")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminStatusUpdate(t *testing.T) {
	deps, _, _, orders := testDeps()
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/o1/status", strings.NewReader(`{"status":"Shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token-admin")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rec.Code, rec.Body.String())
	}
	if orders.lastID != "o1" || orders.lastNext != "Shipped" {
		t.Fatalf("update not forwarded: %q %q", orders.lastID, orders.lastNext)
	}
}

func TestMyOrdersEmptyList(t *testing.T) {
	deps, _, _, _ := testDeps()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/my", nil)
	req.Header.Set("Authorization", "Bearer token-user")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestListProducts(t *testing.T) {
	deps, _, _, _ := testDeps()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := serve(t, deps, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"priceCents":129900`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetProductNotFound(t *testing.T) {
	deps, _, _, _ := testDeps()
	req := httptest.NewRequest(http.MethodGet, "/api/products/missing", nil)
	rec := serve(t, deps, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMissingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := buildRouter(logDiscard(), nil, Deps{}); err == nil {
		t.Fatalf("expected error for missing deps")
	}
}
