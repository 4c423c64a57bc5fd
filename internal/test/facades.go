package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
	"github.com/lumenshop/storefront/internal/usecase"
)

// UserProviderStub serves user lookups for middleware tests.
type UserProviderStub struct {
	UserFn func(context.Context, int64) (*model.User, error)
	Users  map[int64]*model.User
}

// User returns the configured user or not found.
func (s *UserProviderStub) User(ctx context.Context, id int64) (*model.User, error) {
	if s.UserFn != nil {
		return s.UserFn(ctx, id)
	}
	if u, ok := s.Users[id]; ok {
		return u, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CartFacadeStub provides controllable behaviour for cart endpoints.
type CartFacadeStub struct {
	CartFn        func(context.Context, int64) (*usecase.CartView, error)
	AddFn         func(context.Context, int64, string, int) error
	RemoveFn      func(context.Context, int64, string) error
	ClearFn       func(context.Context, int64) error
	GuestCartFn   func(context.Context, string) (*usecase.CartView, error)
	GuestAddFn    func(context.Context, string, string, int) error
	GuestRemoveFn func(context.Context, string, string) error
	GuestClearFn  func(context.Context, string) error
}

// Cart returns the configured cart view.
func (s *CartFacadeStub) Cart(ctx context.Context, userID int64) (*usecase.CartView, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, userID)
	}
	return &usecase.CartView{}, nil
}

// AddToCart delegates to the override when provided.
func (s *CartFacadeStub) AddToCart(ctx context.Context, userID int64, productID string, quantity int) error {
	if s.AddFn != nil {
		return s.AddFn(ctx, userID, productID, quantity)
	}
	return nil
}

// RemoveFromCart delegates to the override when provided.
func (s *CartFacadeStub) RemoveFromCart(ctx context.Context, userID int64, productID string) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, userID, productID)
	}
	return nil
}

// ClearCart delegates to the override when provided.
func (s *CartFacadeStub) ClearCart(ctx context.Context, userID int64) error {
	if s.ClearFn != nil {
		return s.ClearFn(ctx, userID)
	}
	return nil
}

// GuestCart returns the configured guest cart view.
func (s *CartFacadeStub) GuestCart(ctx context.Context, token string) (*usecase.CartView, error) {
	if s.GuestCartFn != nil {
		return s.GuestCartFn(ctx, token)
	}
	return &usecase.CartView{}, nil
}

// AddToGuestCart delegates to the override when provided.
func (s *CartFacadeStub) AddToGuestCart(ctx context.Context, token, productID string, quantity int) error {
	if s.GuestAddFn != nil {
		return s.GuestAddFn(ctx, token, productID, quantity)
	}
	return nil
}

// RemoveFromGuestCart delegates to the override when provided.
func (s *CartFacadeStub) RemoveFromGuestCart(ctx context.Context, token, productID string) error {
	if s.GuestRemoveFn != nil {
		return s.GuestRemoveFn(ctx, token, productID)
	}
	return nil
}

// ClearGuestCart delegates to the override when provided.
func (s *CartFacadeStub) ClearGuestCart(ctx context.Context, token string) error {
	if s.GuestClearFn != nil {
		return s.GuestClearFn(ctx, token)
	}
	return nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CheckoutFn  func(context.Context, int64, usecase.CheckoutInput) (*model.Order, error)
	OrderFn     func(context.Context, string) (*model.Order, error)
	OrdersFn    func(context.Context, int64) ([]model.Order, error)
	AllOrdersFn func(context.Context, repository.OrderFilter) ([]model.Order, error)
	AdvanceFn   func(context.Context, string) (*model.Order, error)
	CancelFn    func(context.Context, string) (*model.Order, error)
}

// Checkout delegates to provided function or returns a pending order.
func (s *OrderFacadeStub) Checkout(ctx context.Context, userID int64, input usecase.CheckoutInput) (*model.Order, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, userID, input)
	}
	return &model.Order{Number: "ORD-20240101-TEST0001", UserID: userID, Status: model.OrderStatusPending}, nil
}

// Order returns the configured order.
func (s *OrderFacadeStub) Order(ctx context.Context, number string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, number)
	}
	return &model.Order{Number: number, UserID: 1, Status: model.OrderStatusPending}, nil
}

// Orders returns predefined orders for given user.
func (s *OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{Number: "ORD-20240101-TEST0001", UserID: userID}}, nil
}

// AllOrders returns predefined orders across users.
func (s *OrderFacadeStub) AllOrders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx, filter)
	}
	return []model.Order{{Number: "ORD-20240101-TEST0001"}}, nil
}

// AdvanceOrder delegates to the override when provided.
func (s *OrderFacadeStub) AdvanceOrder(ctx context.Context, number string) (*model.Order, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, number)
	}
	return &model.Order{Number: number, Status: model.OrderStatusProcessing}, nil
}

// CancelOrder delegates to the override when provided.
func (s *OrderFacadeStub) CancelOrder(ctx context.Context, number string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, number)
	}
	return &model.Order{Number: number, Status: model.OrderStatusCancelled}, nil
}

// CatalogFacadeStub provides controllable behaviour for catalog endpoints.
type CatalogFacadeStub struct {
	CreateFn   func(context.Context, *model.Product) error
	UpdateFn   func(context.Context, *model.Product) error
	ProductFn  func(context.Context, string) (*model.Product, error)
	ProductsFn func(context.Context, repository.ProductFilter) ([]model.Product, error)
	SetStockFn func(context.Context, string, int) error
}

// CreateProduct delegates to the override when provided.
func (s *CatalogFacadeStub) CreateProduct(ctx context.Context, product *model.Product) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, product)
	}
	return nil
}

// UpdateProduct delegates to the override when provided.
func (s *CatalogFacadeStub) UpdateProduct(ctx context.Context, product *model.Product) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, product)
	}
	return nil
}

// Product returns the configured product.
func (s *CatalogFacadeStub) Product(ctx context.Context, id string) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, SKU: "SKU-1", Name: "Widget", Price: 10, Stock: 3, InStock: true}, nil
}

// Products returns the configured listing.
func (s *CatalogFacadeStub) Products(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, filter)
	}
	return []model.Product{{ID: "p1", SKU: "SKU-1", Name: "Widget", Price: 10, Stock: 3, InStock: true}}, nil
}

// SetProductStock delegates to the override when provided.
func (s *CatalogFacadeStub) SetProductStock(ctx context.Context, id string, stock int) error {
	if s.SetStockFn != nil {
		return s.SetStockFn(ctx, id, stock)
	}
	return nil
}

// ReportFacadeStub provides canned report data.
type ReportFacadeStub struct {
	SalesFn     func(context.Context, usecase.Timeframe) ([]usecase.SalesBucket, error)
	CustomersFn func(context.Context, usecase.Timeframe) (*usecase.CustomerReport, error)
	InventoryFn func(context.Context) ([]usecase.CategoryStock, error)
}

// SalesReport returns configured sales buckets.
func (s *ReportFacadeStub) SalesReport(ctx context.Context, tf usecase.Timeframe) ([]usecase.SalesBucket, error) {
	if s.SalesFn != nil {
		return s.SalesFn(ctx, tf)
	}
	return []usecase.SalesBucket{{Key: "2024-01-01", Revenue: 100, Orders: 2}}, nil
}

// CustomerReport returns configured customer data.
func (s *ReportFacadeStub) CustomerReport(ctx context.Context, tf usecase.Timeframe) (*usecase.CustomerReport, error) {
	if s.CustomersFn != nil {
		return s.CustomersFn(ctx, tf)
	}
	return &usecase.CustomerReport{}, nil
}

// InventoryReport returns configured category stock rows.
func (s *ReportFacadeStub) InventoryReport(ctx context.Context) ([]usecase.CategoryStock, error) {
	if s.InventoryFn != nil {
		return s.InventoryFn(ctx)
	}
	return []usecase.CategoryStock{{Category: "gadgets", In: 1}}, nil
}

// StorefrontFacadeStub aggregates facade dependencies for HTTP layer tests.
type StorefrontFacadeStub struct {
	AuthFacadeStub
	UserProviderStub
	CartFacadeStub
	OrderFacadeStub
	CatalogFacadeStub
	ReportFacadeStub
}

// StockRepairCall stores information about RepairStockFlag invocations.
type StockRepairCall struct {
	ProductID string
	InStock   bool
}

// WorkerFacadeStub mimics worker interactions with the catalog facade.
type WorkerFacadeStub struct {
	Batches   [][]model.Product
	BatchFn   func(context.Context, int) ([]model.Product, error)
	RepairFn  func(context.Context, string, bool) error
	Repairs   []StockRepairCall
	mu        sync.Mutex
	batchCall int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// ProductsForReconcile returns batches from configured queue.
func (s *WorkerFacadeStub) ProductsForReconcile(ctx context.Context, limit int) ([]model.Product, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCall, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// RepairStockFlag records repair requests.
func (s *WorkerFacadeStub) RepairStockFlag(ctx context.Context, productID string, inStock bool) error {
	if s.RepairFn != nil {
		return s.RepairFn(ctx, productID, inStock)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Repairs = append(s.Repairs, StockRepairCall{ProductID: productID, InStock: inStock})
	return nil
}
