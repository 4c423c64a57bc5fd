package handlers

import (
	"context"

	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
	"github.com/lumenshop/storefront/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (int64, string, error)
	ParseToken(token string) (int64, error)
	MergeCartOnLogin(ctx context.Context, userID int64, guestToken string) error
}

// CartFacade encapsulates cart operations exposed via HTTP.
type CartFacade interface {
	Cart(ctx context.Context, userID int64) (*usecase.CartView, error)
	AddToCart(ctx context.Context, userID int64, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, userID int64, productID string) error
	ClearCart(ctx context.Context, userID int64) error

	GuestCart(ctx context.Context, token string) (*usecase.CartView, error)
	AddToGuestCart(ctx context.Context, token, productID string, quantity int) error
	RemoveFromGuestCart(ctx context.Context, token, productID string) error
	ClearGuestCart(ctx context.Context, token string) error
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Checkout(ctx context.Context, userID int64, input usecase.CheckoutInput) (*model.Order, error)
	Order(ctx context.Context, number string) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	AllOrders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error)
	AdvanceOrder(ctx context.Context, number string) (*model.Order, error)
	CancelOrder(ctx context.Context, number string) (*model.Order, error)
}

// CatalogFacade encapsulates catalog operations exposed via HTTP.
type CatalogFacade interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, product *model.Product) error
	Product(ctx context.Context, id string) (*model.Product, error)
	Products(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	SetProductStock(ctx context.Context, id string, stock int) error
}

// ReportFacade serves admin dashboard aggregations.
type ReportFacade interface {
	SalesReport(ctx context.Context, tf usecase.Timeframe) ([]usecase.SalesBucket, error)
	CustomerReport(ctx context.Context, tf usecase.Timeframe) (*usecase.CustomerReport, error)
	InventoryReport(ctx context.Context) ([]usecase.CategoryStock, error)
}

// UserProvider loads user records, for ownership and admin checks.
type UserProvider interface {
	User(ctx context.Context, id int64) (*model.User, error)
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	UserProvider
	CartFacade
	OrderFacade
	CatalogFacade
	ReportFacade
}
