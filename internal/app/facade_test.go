package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
	testhelpers "github.com/lumenshop/storefront/internal/test"
	"github.com/lumenshop/storefront/internal/usecase"
)

func newFacade() (*StorefrontFacade, *testhelpers.UserRepositoryStub, *testhelpers.ProductRepositoryStub, *testhelpers.CartRepositoryStub, *testhelpers.OrderRepositoryStub) {
	userRepo := testhelpers.NewUserRepositoryStub()
	strategy := testhelpers.StrategyStub{ParseFn: func(string) (int64, error) { return 99, nil }}
	authUC := usecase.NewAuthUseCase(userRepo, testhelpers.HasherStub{}, strategy)

	products := testhelpers.NewProductRepositoryStub(&model.Product{
		ID: "p1", SKU: "SKU-1", Name: "Widget", Price: 12.5, Stock: 10, LowStockThreshold: 2, InStock: true,
	})
	carts := &testhelpers.CartRepositoryStub{Carts: map[int64]model.Cart{}}
	guests := &testhelpers.GuestCartRepositoryStub{Carts: map[string]model.Cart{}}
	pricing := usecase.Pricing{FreeShippingThreshold: 50, ShippingFee: 9.99, TaxRate: 0.07}

	cartUC := usecase.NewCartUseCase(carts, guests, products, pricing)
	orders := &testhelpers.OrderRepositoryStub{}
	orderUC := usecase.NewOrderUseCase(orders, carts, products, pricing, nil)
	catalogUC := usecase.NewCatalogUseCase(products)
	reportUC := usecase.NewReportUseCase(orders, userRepo, products, 1000)

	facade := NewStorefrontFacade(authUC, cartUC, orderUC, catalogUC, reportUC)
	return facade, userRepo, products, carts, orders
}

func TestStorefrontFacadeAuth(t *testing.T) {
	facade, users, _, _, _ := newFacade()
	token, err := facade.Register(context.Background(), "user", "long-password")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}

	stored, err := users.GetByLogin(context.Background(), "user")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.Login != "user" {
		t.Fatalf("unexpected stored login %q", stored.Login)
	}

	id, authToken, err := facade.Authenticate(context.Background(), "user", "long-password")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if id != stored.ID || authToken == "" {
		t.Fatalf("unexpected auth result id=%d token=%q", id, authToken)
	}

	parsed, err := facade.ParseToken("anything")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if parsed != 99 {
		t.Fatalf("expected id 99, got %d", parsed)
	}

	loaded, err := facade.User(context.Background(), stored.ID)
	if err != nil || loaded.Login != "user" {
		t.Fatalf("unexpected user lookup: %v err=%v", loaded, err)
	}
}

func TestStorefrontFacadeCartAndCheckout(t *testing.T) {
	facade, _, _, _, orders := newFacade()
	ctx := context.Background()

	if err := facade.AddToCart(ctx, 7, "p1", 2); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	view, err := facade.Cart(ctx, 7)
	if err != nil {
		t.Fatalf("cart view: %v", err)
	}
	if len(view.Lines) != 1 || view.Quote.Total != 36.74 {
		t.Fatalf("unexpected view: %+v", view)
	}

	order, err := facade.Checkout(ctx, 7, usecase.CheckoutInput{PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !strings.HasPrefix(order.Number, "ORD-") || order.Status != model.OrderStatusPending {
		t.Fatalf("unexpected order: %+v", order)
	}

	listed, err := facade.Orders(ctx, 7)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one order, got %v err=%v", listed, err)
	}

	all, err := facade.AllOrders(ctx, repository.OrderFilter{})
	if err != nil || len(all) != 1 {
		t.Fatalf("expected one order in admin list, got %v err=%v", all, err)
	}

	advanced, err := facade.AdvanceOrder(ctx, order.Number)
	if err != nil || advanced.Status != model.OrderStatusProcessing {
		t.Fatalf("unexpected advance result: %+v err=%v", advanced, err)
	}
	if len(orders.UpdateCalls) != 1 {
		t.Fatalf("expected one update call, got %d", len(orders.UpdateCalls))
	}

	cancelled, err := facade.CancelOrder(ctx, order.Number)
	if err != nil || cancelled.Status != model.OrderStatusCancelled {
		t.Fatalf("unexpected cancel result: %+v err=%v", cancelled, err)
	}
}

func TestStorefrontFacadeGuestCartMerge(t *testing.T) {
	facade, _, _, _, _ := newFacade()
	ctx := context.Background()
	token := testhelpers.RandomGuestToken()

	if err := facade.AddToGuestCart(ctx, token, "p1", 3); err != nil {
		t.Fatalf("guest add: %v", err)
	}
	view, err := facade.GuestCart(ctx, token)
	if err != nil || len(view.Lines) != 1 {
		t.Fatalf("unexpected guest view: %+v err=%v", view, err)
	}

	if err := facade.MergeCartOnLogin(ctx, 5, token); err != nil {
		t.Fatalf("merge: %v", err)
	}
	merged, err := facade.Cart(ctx, 5)
	if err != nil || len(merged.Lines) != 1 || merged.Lines[0].Item.Quantity != 3 {
		t.Fatalf("unexpected merged cart: %+v err=%v", merged, err)
	}
}

func TestStorefrontFacadeCatalog(t *testing.T) {
	facade, _, products, _, _ := newFacade()
	ctx := context.Background()

	created := &model.Product{SKU: "SKU-2", Name: "Gadget", Price: 5, Stock: 4}
	if err := facade.CreateProduct(ctx, created); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated product id")
	}

	if err := facade.SetProductStock(ctx, created.ID, 0); err != nil {
		t.Fatalf("set stock: %v", err)
	}
	loaded, err := facade.Product(ctx, created.ID)
	if err != nil {
		t.Fatalf("product lookup: %v", err)
	}
	if loaded.Stock != 0 || loaded.InStock {
		t.Fatalf("expected out of stock, got %+v", loaded)
	}

	listed, err := facade.Products(ctx, repository.ProductFilter{})
	if err != nil || len(listed) != 2 {
		t.Fatalf("expected two products, got %v err=%v", listed, err)
	}

	// Simulate an external writer leaving the availability flag stale.
	products.Products[created.ID].InStock = true

	batch, err := facade.ProductsForReconcile(ctx, 5)
	if err != nil {
		t.Fatalf("reconcile batch: %v", err)
	}
	if len(batch) == 0 {
		t.Fatal("expected products needing review")
	}

	if err := facade.RepairStockFlag(ctx, created.ID, false); err != nil {
		t.Fatalf("repair flag: %v", err)
	}
	if len(products.InStockCalls) == 0 {
		t.Fatal("expected repair to reach repository")
	}
}

func TestStorefrontFacadeReports(t *testing.T) {
	facade, _, _, _, orders := newFacade()
	ctx := context.Background()
	orders.Orders = []model.Order{{Number: "ORD-1", UserID: 1, Status: model.OrderStatusDelivered, Total: 20, CreatedAt: time.Now()}}

	buckets, err := facade.SalesReport(ctx, usecase.TimeframeMonth)
	if err != nil {
		t.Fatalf("sales report: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected one bucket, got %d", len(buckets))
	}

	customers, err := facade.CustomerReport(ctx, usecase.TimeframeMonth)
	if err != nil || customers == nil {
		t.Fatalf("customer report: %v err=%v", customers, err)
	}

	rows, err := facade.InventoryReport(ctx)
	if err != nil {
		t.Fatalf("inventory report: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("expected inventory rows")
	}
}
