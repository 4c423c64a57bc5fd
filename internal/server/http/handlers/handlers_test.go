package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/server/http/dto"
	"github.com/lumenshop/storefront/internal/server/http/middleware"
	testhelpers "github.com/lumenshop/storefront/internal/test"
	"github.com/lumenshop/storefront/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asUser(id int64) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDContextKey, id)
	}
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.UserIDContextKey, int64(42))
	if got := CurrentUserID(c); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestAuthHandlerRegisterSetsCookieAndMergesGuestCart(t *testing.T) {
	facade := &testhelpers.AuthFacadeStub{ParseFn: func(string) (int64, error) { return 7, nil }}
	body, _ := json.Marshal(dto.AuthRequest{Login: "alice", Password: "long-password"})
	resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(facade).Register, nil, body, map[string]string{
		"Content-Type": "application/json",
		GuestTokenHeader: "guest-tok",
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "Bearer token" {
		t.Fatalf("unexpected authorization header %q", resp.Header().Get("Authorization"))
	}
	result := resp.Result()
	t.Cleanup(func() { _ = result.Body.Close() })
	found := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "storefront_token" && cookie.Value == "token" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected auth cookie named storefront_token")
	}
	if len(facade.Merges) != 1 || facade.Merges[0].UserID != 7 || facade.Merges[0].Token != "guest-tok" {
		t.Fatalf("expected guest cart merge for user 7, got %+v", facade.Merges)
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade *testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{
			name:   "malformed json",
			facade: &testhelpers.AuthFacadeStub{},
			body:   []byte("{"),
			status: http.StatusBadRequest,
		},
		{
			name: "invalid credentials",
			facade: &testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
				return "", domainErrors.ErrInvalidCredentials
			}},
			body:   []byte(`{"login":"a","password":"b"}`),
			status: http.StatusBadRequest,
		},
		{
			name: "duplicate login",
			facade: &testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
				return "", domainErrors.ErrAlreadyExists
			}},
			body:   []byte(`{"login":"a","password":"long-password"}`),
			status: http.StatusConflict,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(tc.facade).Register, nil, tc.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	facade := &testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (int64, string, error) {
		return 0, "", domainErrors.ErrInvalidCredentials
	}}
	body, _ := json.Marshal(dto.AuthRequest{Login: "alice", Password: "wrong"})
	resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(facade).Login, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestAuthHandlerLoginMergesGuestCart(t *testing.T) {
	facade := &testhelpers.AuthFacadeStub{}
	body, _ := json.Marshal(dto.AuthRequest{Login: "alice", Password: "long-password"})
	resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(facade).Login, nil, body, map[string]string{
		"Content-Type": "application/json",
		GuestTokenHeader: "guest-tok",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if len(facade.Merges) != 1 || facade.Merges[0].Token != "guest-tok" {
		t.Fatalf("expected guest cart merge, got %+v", facade.Merges)
	}
}

func TestCartHandlerViewReturnsPricedCart(t *testing.T) {
	facade := &testhelpers.CartFacadeStub{CartFn: func(context.Context, int64) (*usecase.CartView, error) {
		return &usecase.CartView{
			Lines: []usecase.CartLine{{
				Item:      model.CartItem{ProductID: "p1", Quantity: 2},
				Product:   model.Product{ID: "p1", SKU: "SKU-1", Name: "Widget", Price: 12.50},
				LineTotal: 25.00,
			}},
			Quote: usecase.Quote{Subtotal: 25.00, Shipping: 9.99, Tax: 1.75, Total: 36.74},
		}, nil
	}}

	resp := performRequest(t, http.MethodGet, "/cart", "/cart", NewCartHandler(facade).View, asUser(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var cart dto.CartResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &cart); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].LineTotal != 25.00 {
		t.Fatalf("unexpected cart items %+v", cart.Items)
	}
	if cart.Total != 36.74 {
		t.Fatalf("unexpected cart total %v", cart.Total)
	}
}

func TestCartHandlerAddItemStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"unknown product", domainErrors.ErrNotFound, http.StatusNotFound},
		{"bad quantity", domainErrors.ErrInvalidQuantity, http.StatusUnprocessableEntity},
		{"out of stock", domainErrors.ErrOutOfStock, http.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			facade := &testhelpers.CartFacadeStub{AddFn: func(context.Context, int64, string, int) error { return tc.err }}
			body, _ := json.Marshal(dto.CartItemRequest{ProductID: "p1", Quantity: 1})
			resp := performRequest(t, http.MethodPost, "/cart/items", "/cart/items", NewCartHandler(facade).AddItem, asUser(1), body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestCartHandlerGuestAddIssuesToken(t *testing.T) {
	var gotToken string
	facade := &testhelpers.CartFacadeStub{GuestAddFn: func(_ context.Context, token, _ string, _ int) error {
		gotToken = token
		return nil
	}}
	body, _ := json.Marshal(dto.CartItemRequest{ProductID: "p1", Quantity: 1})
	resp := performRequest(t, http.MethodPost, "/guest/cart/items", "/guest/cart/items", NewCartHandler(facade).GuestAddItem, nil, body, map[string]string{"Content-Type": "application/json"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotToken == "" {
		t.Fatal("expected a fresh guest token to be issued")
	}
	if resp.Header().Get(GuestTokenHeader) != gotToken {
		t.Fatalf("expected issued token in response header, got %q", resp.Header().Get(GuestTokenHeader))
	}
}

func TestCartHandlerGuestAddReusesToken(t *testing.T) {
	var gotToken string
	facade := &testhelpers.CartFacadeStub{GuestAddFn: func(_ context.Context, token, _ string, _ int) error {
		gotToken = token
		return nil
	}}
	body, _ := json.Marshal(dto.CartItemRequest{ProductID: "p1", Quantity: 1})
	performRequest(t, http.MethodPost, "/guest/cart/items", "/guest/cart/items", NewCartHandler(facade).GuestAddItem, nil, body, map[string]string{
		"Content-Type": "application/json",
		GuestTokenHeader: "existing",
	})
	if gotToken != "existing" {
		t.Fatalf("expected existing token to be reused, got %q", gotToken)
	}
}

func TestCartHandlerGuestViewWithoutTokenReturnsEmptyCart(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/guest/cart", "/guest/cart", NewCartHandler(&testhelpers.CartFacadeStub{}).GuestView, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var cart dto.CartResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &cart); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Items)
	}
}

func TestOrderHandlerCheckout(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{CheckoutFn: func(_ context.Context, userID int64, input usecase.CheckoutInput) (*model.Order, error) {
		if input.ShippingAddress.City != "Springfield" {
			t.Fatalf("unexpected shipping address %+v", input.ShippingAddress)
		}
		return &model.Order{Number: "ORD-1", UserID: userID, Status: model.OrderStatusPending, Total: 36.74}, nil
	}}
	body, _ := json.Marshal(dto.CheckoutRequest{
		ShippingAddress: dto.AddressPayload{Name: "Alice", Line1: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"},
		PaymentMethod:   "card",
	})
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(facade).Checkout, asUser(1), body, map[string]string{"Content-Type": "application/json"})

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if order.Number != "ORD-1" || order.Status != "pending" {
		t.Fatalf("unexpected order response %+v", order)
	}
}

func TestOrderHandlerCheckoutEmptyCart(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{CheckoutFn: func(context.Context, int64, usecase.CheckoutInput) (*model.Order, error) {
		return nil, domainErrors.ErrCartEmpty
	}}
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(facade).Checkout, asUser(1), []byte(`{}`), map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestOrderHandlerGetHidesForeignOrders(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{OrderFn: func(_ context.Context, number string) (*model.Order, error) {
		return &model.Order{Number: number, UserID: 2}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders/:number", "/orders/ORD-1", NewOrderHandler(facade).Get, asUser(1), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestOrderHandlerCancelOwnOrder(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{OrderFn: func(_ context.Context, number string) (*model.Order, error) {
		return &model.Order{Number: number, UserID: 1, Status: model.OrderStatusPending}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/orders/:number/cancel", "/orders/ORD-1/cancel", NewOrderHandler(facade).Cancel, asUser(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestAdminOrderHandlerAdvanceConflictOnTerminalOrder(t *testing.T) {
	facade := &testhelpers.OrderFacadeStub{AdvanceFn: func(context.Context, string) (*model.Order, error) {
		return nil, domainErrors.ErrIllegalTransition
	}}
	resp := performRequest(t, http.MethodPost, "/admin/orders/:number/advance", "/admin/orders/ORD-1/advance", NewAdminOrderHandler(facade).Advance, asUser(1), nil, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestAdminOrderHandlerListRejectsUnknownStatus(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/admin/orders", "/admin/orders?status=bogus", NewAdminOrderHandler(&testhelpers.OrderFacadeStub{}).List, asUser(1), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestAdminCatalogHandlerCreate(t *testing.T) {
	var created *model.Product
	facade := &testhelpers.CatalogFacadeStub{CreateFn: func(_ context.Context, p *model.Product) error {
		p.ID = "generated"
		created = p
		return nil
	}}
	body, _ := json.Marshal(dto.ProductRequest{SKU: "SKU-1", Name: "Widget", Price: 10, Stock: 3, Categories: []string{"gadgets"}})
	resp := performRequest(t, http.MethodPost, "/admin/products", "/admin/products", NewAdminCatalogHandler(facade).Create, asUser(1), body, map[string]string{"Content-Type": "application/json"})

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if created == nil || !created.InStock {
		t.Fatalf("expected in-stock product passed to facade, got %+v", created)
	}
	var product dto.ProductResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &product); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if product.ID != "generated" {
		t.Fatalf("expected generated id in response, got %q", product.ID)
	}
}

func TestAdminCatalogHandlerCreateInvalidProduct(t *testing.T) {
	facade := &testhelpers.CatalogFacadeStub{CreateFn: func(context.Context, *model.Product) error {
		return domainErrors.ErrInvalidProduct
	}}
	resp := performRequest(t, http.MethodPost, "/admin/products", "/admin/products", NewAdminCatalogHandler(facade).Create, asUser(1), []byte(`{}`), map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
}

func TestReportHandlerSales(t *testing.T) {
	facade := &testhelpers.ReportFacadeStub{SalesFn: func(_ context.Context, tf usecase.Timeframe) ([]usecase.SalesBucket, error) {
		if tf != usecase.TimeframeWeek {
			t.Fatalf("expected week timeframe, got %s", tf)
		}
		return []usecase.SalesBucket{{Key: "2024-03-01", Orders: 2, Revenue: 73.48}}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/admin/reports/sales", "/admin/reports/sales?timeframe=week", NewReportHandler(facade).Sales, asUser(1), nil, nil)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var buckets []dto.SalesBucketResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(buckets) != 1 || buckets[0].Period != "2024-03-01" || buckets[0].Revenue != 73.48 {
		t.Fatalf("unexpected buckets %+v", buckets)
	}
}

func TestReportHandlerSalesRejectsUnknownTimeframe(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/admin/reports/sales", "/admin/reports/sales?timeframe=decade", NewReportHandler(&testhelpers.ReportFacadeStub{}).Sales, asUser(1), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
