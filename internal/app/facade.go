package app

import (
	"context"

	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
	"github.com/lumenshop/storefront/internal/usecase"
)

// StorefrontFacade aggregates the application's use cases behind one surface
// consumed by the HTTP layer and the background worker.
type StorefrontFacade struct {
	auth    *usecase.AuthUseCase
	carts   *usecase.CartUseCase
	orders  *usecase.OrderUseCase
	catalog *usecase.CatalogUseCase
	reports *usecase.ReportUseCase
}

// NewStorefrontFacade constructs the facade.
func NewStorefrontFacade(auth *usecase.AuthUseCase, carts *usecase.CartUseCase, orders *usecase.OrderUseCase, catalog *usecase.CatalogUseCase, reports *usecase.ReportUseCase) *StorefrontFacade {
	return &StorefrontFacade{auth: auth, carts: carts, orders: orders, catalog: catalog, reports: reports}
}

// --- auth ---

func (f *StorefrontFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, login, password string) (int64, string, error) {
	user, token, err := f.auth.Authenticate(ctx, login, password)
	if err != nil {
		return 0, "", err
	}
	return user.ID, token, nil
}

func (f *StorefrontFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) User(ctx context.Context, id int64) (*model.User, error) {
	return f.auth.GetByID(ctx, id)
}

// --- cart ---

func (f *StorefrontFacade) Cart(ctx context.Context, userID int64) (*usecase.CartView, error) {
	return f.carts.View(ctx, userID)
}

func (f *StorefrontFacade) AddToCart(ctx context.Context, userID int64, productID string, quantity int) error {
	return f.carts.AddItem(ctx, userID, productID, quantity)
}

func (f *StorefrontFacade) RemoveFromCart(ctx context.Context, userID int64, productID string) error {
	return f.carts.RemoveItem(ctx, userID, productID)
}

func (f *StorefrontFacade) ClearCart(ctx context.Context, userID int64) error {
	return f.carts.Clear(ctx, userID)
}

func (f *StorefrontFacade) GuestCart(ctx context.Context, token string) (*usecase.CartView, error) {
	return f.carts.GuestView(ctx, token)
}

func (f *StorefrontFacade) AddToGuestCart(ctx context.Context, token, productID string, quantity int) error {
	return f.carts.AddGuestItem(ctx, token, productID, quantity)
}

func (f *StorefrontFacade) RemoveFromGuestCart(ctx context.Context, token, productID string) error {
	return f.carts.RemoveGuestItem(ctx, token, productID)
}

func (f *StorefrontFacade) ClearGuestCart(ctx context.Context, token string) error {
	return f.carts.ClearGuest(ctx, token)
}

func (f *StorefrontFacade) MergeCartOnLogin(ctx context.Context, userID int64, guestToken string) error {
	return f.carts.MergeOnLogin(ctx, userID, guestToken)
}

// --- orders ---

func (f *StorefrontFacade) Checkout(ctx context.Context, userID int64, input usecase.CheckoutInput) (*model.Order, error) {
	return f.orders.Checkout(ctx, userID, input)
}

func (f *StorefrontFacade) Order(ctx context.Context, number string) (*model.Order, error) {
	return f.orders.GetByNumber(ctx, number)
}

func (f *StorefrontFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *StorefrontFacade) AllOrders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	return f.orders.List(ctx, filter)
}

func (f *StorefrontFacade) AdvanceOrder(ctx context.Context, number string) (*model.Order, error) {
	return f.orders.Advance(ctx, number)
}

func (f *StorefrontFacade) CancelOrder(ctx context.Context, number string) (*model.Order, error) {
	return f.orders.Cancel(ctx, number)
}

// --- catalog ---

func (f *StorefrontFacade) CreateProduct(ctx context.Context, product *model.Product) error {
	return f.catalog.Create(ctx, product)
}

func (f *StorefrontFacade) UpdateProduct(ctx context.Context, product *model.Product) error {
	return f.catalog.Update(ctx, product)
}

func (f *StorefrontFacade) Product(ctx context.Context, id string) (*model.Product, error) {
	return f.catalog.GetByID(ctx, id)
}

func (f *StorefrontFacade) Products(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	return f.catalog.List(ctx, filter)
}

func (f *StorefrontFacade) SetProductStock(ctx context.Context, id string, stock int) error {
	return f.catalog.SetStock(ctx, id, stock)
}

// --- reports ---

func (f *StorefrontFacade) SalesReport(ctx context.Context, tf usecase.Timeframe) ([]usecase.SalesBucket, error) {
	return f.reports.Sales(ctx, tf)
}

func (f *StorefrontFacade) CustomerReport(ctx context.Context, tf usecase.Timeframe) (*usecase.CustomerReport, error) {
	return f.reports.Customers(ctx, tf)
}

func (f *StorefrontFacade) InventoryReport(ctx context.Context) ([]usecase.CategoryStock, error) {
	return f.reports.Inventory(ctx)
}

// --- stock reconcile worker ---

func (f *StorefrontFacade) ProductsForReconcile(ctx context.Context, limit int) ([]model.Product, error) {
	return f.catalog.SelectBatchForReconcile(ctx, limit)
}

func (f *StorefrontFacade) RepairStockFlag(ctx context.Context, productID string, inStock bool) error {
	return f.catalog.RepairStockFlag(ctx, productID, inStock)
}
