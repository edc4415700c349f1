package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mercadia/mercadia-backend/internal/checkout"
	"github.com/mercadia/mercadia-backend/internal/coupons"
	"github.com/mercadia/mercadia-backend/pkg/auth"
	"github.com/mercadia/mercadia-backend/pkg/config"
	"github.com/mercadia/mercadia-backend/pkg/db/models"
	"github.com/mercadia/mercadia-backend/pkg/money"
	"github.com/mercadia/mercadia-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCheckout struct{}

func (stubCheckout) Quote(_ context.Context, _ uuid.UUID, _ checkout.QuoteInput) (*checkout.Quote, error) {
	return &checkout.Quote{Items: []checkout.QuotedItem{}, PaymentMethod: "card"}, nil
}

type stubOrders struct{}

func (stubOrders) Create(_ context.Context, _ uuid.UUID, _ checkout.QuoteInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), OrderNumber: "ORD-1"}, nil
}

func (stubOrders) Get(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: uuid.New()}, nil
}

func (stubOrders) List(_ context.Context, _ uuid.UUID, _ pagination.Params) ([]models.Order, error) {
	return nil, nil
}

type stubCoupons struct{}

func (stubCoupons) Quote(_ context.Context, _ string, _ uuid.UUID, _ money.Amount) (*coupons.Applied, error) {
	return nil, nil
}

func (stubCoupons) Redeem(_ context.Context, _ coupons.RedeemInput) (*models.CouponUsage, error) {
	return &models.CouponUsage{ID: uuid.New()}, nil
}

func (stubCoupons) ListValid(_ context.Context, _ uuid.UUID, _ coupons.ListScope) ([]coupons.Summary, error) {
	return nil, nil
}

func testRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "mercadia", ExpirationMinutes: 60}
	cfg := &config.Config{JWT: jwtCfg}
	handler := New(Deps{
		Config:   cfg,
		DB:       stubPinger{},
		Registry: prometheus.NewRegistry(),
		Checkout: stubCheckout{},
		Orders:   stubOrders{},
		Coupons:  stubCoupons{},
	})
	return handler, jwtCfg
}

func TestHealthEndpoints(t *testing.T) {
	handler, _ := testRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCustomerRoutesRequireAuth(t *testing.T) {
	handler, _ := testRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/customers/checkout"},
		{http.MethodPost, "/api/customers/checkout"},
		{http.MethodGet, "/api/customers/orders"},
		{http.MethodPost, "/api/customers/orders"},
		{http.MethodGet, "/api/customers/coupons"},
		{http.MethodPost, "/api/customers/coupons"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", p.method, p.path, resp.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("%s %s: decode body: %v", p.method, p.path, err)
		}
		if body["error"] != "Unauthorized" {
			t.Fatalf("%s %s: unexpected body %v", p.method, p.path, body)
		}
	}
}

func TestAuthedCheckoutRoute(t *testing.T) {
	handler, jwtCfg := testRouter(t)

	token, err := auth.MintToken(jwtCfg, time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/customers/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCouponPreflightAllowsLocalhost(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/customers/coupons", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK && resp.Code != http.StatusNoContent {
		t.Fatalf("expected preflight success, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected localhost origin allowed, got %q", got)
	}
}
