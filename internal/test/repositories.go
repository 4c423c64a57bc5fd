package test

import (
	"context"
	"time"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns all stored users.
func (s *UserRepositoryStub) List(ctx context.Context) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	users := make([]model.User, 0, len(s.ByID))
	for _, u := range s.ByID {
		users = append(users, *u)
	}
	return users, nil
}

// ProductRepositoryStub stores catalog entries in-memory for tests.
type ProductRepositoryStub struct {
	Products map[string]*model.Product
	ListFn   func(context.Context, repository.ProductFilter) ([]model.Product, error)
	Err      error

	StockCalls   []StockCall
	InStockCalls []InStockCall
}

// StockCall records SetStock invocations.
type StockCall struct {
	ProductID string
	Stock     int
}

// InStockCall records SetInStock invocations.
type InStockCall struct {
	ProductID string
	InStock   bool
}

// NewProductRepositoryStub constructs stub repository with initialized map.
func NewProductRepositoryStub(products ...*model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{Products: make(map[string]*model.Product)}
	for _, p := range products {
		s.Products[p.ID] = p
	}
	return s
}

// Create stores product unless the id is taken.
func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) error {
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.Products[product.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	s.Products[product.ID] = product
	return nil
}

// Update replaces an existing product.
func (s *ProductRepositoryStub) Update(ctx context.Context, product *model.Product) error {
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.Products[product.ID]; !exists {
		return domainErrors.ErrNotFound
	}
	s.Products[product.ID] = product
	return nil
}

// GetByID fetches a product or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns stored products, optionally via override.
func (s *ProductRepositoryStub) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Product, 0, len(s.Products))
	for _, p := range s.Products {
		if filter.Category != "" && !hasCategory(p.Categories, filter.Category) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// SetStock records the call and applies it to the stored product.
func (s *ProductRepositoryStub) SetStock(ctx context.Context, id string, stock int) error {
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.Products[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	p.Stock = stock
	p.InStock = model.StockAvailable(stock)
	s.StockCalls = append(s.StockCalls, StockCall{ProductID: id, Stock: stock})
	return nil
}

// SetInStock records the call and applies it to the stored product.
func (s *ProductRepositoryStub) SetInStock(ctx context.Context, id string, inStock bool) error {
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.Products[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	p.InStock = inStock
	s.InStockCalls = append(s.InStockCalls, InStockCall{ProductID: id, InStock: inStock})
	return nil
}

// SelectBatchForReconcile returns products whose flag or threshold needs attention.
func (s *ProductRepositoryStub) SelectBatchForReconcile(ctx context.Context, limit int) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Product
	for _, p := range s.Products {
		if len(out) >= limit {
			break
		}
		if p.InStock != model.StockAvailable(p.Stock) || (p.Stock > 0 && p.Stock <= p.LowStockThreshold) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func hasCategory(categories []string, want string) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}

// CartRepositoryStub stores per-user carts in-memory for tests.
type CartRepositoryStub struct {
	Carts map[int64]model.Cart
	Err   error
}

// NewCartRepositoryStub constructs stub repository with initialized map.
func NewCartRepositoryStub() *CartRepositoryStub {
	return &CartRepositoryStub{Carts: make(map[int64]model.Cart)}
}

// Get returns the stored cart, empty when absent.
func (s *CartRepositoryStub) Get(ctx context.Context, userID int64) (model.Cart, error) {
	if s.Err != nil {
		return model.Cart{}, s.Err
	}
	return s.Carts[userID], nil
}

// AddItem merges the quantity into the stored cart.
func (s *CartRepositoryStub) AddItem(ctx context.Context, userID int64, productID string, quantity int, addedAt time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	cart := s.Carts[userID]
	cart.Add(productID, quantity, addedAt)
	s.Carts[userID] = cart
	return nil
}

// RemoveItem drops the line or reports not found.
func (s *CartRepositoryStub) RemoveItem(ctx context.Context, userID int64, productID string) error {
	if s.Err != nil {
		return s.Err
	}
	cart := s.Carts[userID]
	if !cart.Remove(productID) {
		return domainErrors.ErrNotFound
	}
	s.Carts[userID] = cart
	return nil
}

// Clear empties the stored cart.
func (s *CartRepositoryStub) Clear(ctx context.Context, userID int64) error {
	if s.Err != nil {
		return s.Err
	}
	delete(s.Carts, userID)
	return nil
}

// Replace swaps the stored cart wholesale.
func (s *CartRepositoryStub) Replace(ctx context.Context, userID int64, cart model.Cart) error {
	if s.Err != nil {
		return s.Err
	}
	s.Carts[userID] = cart
	return nil
}

// GuestCartRepositoryStub stores token-keyed carts in-memory for tests.
type GuestCartRepositoryStub struct {
	Carts map[string]model.Cart
	Err   error
}

// NewGuestCartRepositoryStub constructs stub repository with initialized map.
func NewGuestCartRepositoryStub() *GuestCartRepositoryStub {
	return &GuestCartRepositoryStub{Carts: make(map[string]model.Cart)}
}

// Get returns the stored cart, empty when the token is unknown.
func (s *GuestCartRepositoryStub) Get(ctx context.Context, token string) (model.Cart, error) {
	if s.Err != nil {
		return model.Cart{}, s.Err
	}
	return s.Carts[token], nil
}

// Save stores the cart under the token.
func (s *GuestCartRepositoryStub) Save(ctx context.Context, token string, cart model.Cart) error {
	if s.Err != nil {
		return s.Err
	}
	s.Carts[token] = cart
	return nil
}

// Delete drops the cart document.
func (s *GuestCartRepositoryStub) Delete(ctx context.Context, token string) error {
	if s.Err != nil {
		return s.Err
	}
	delete(s.Carts, token)
	return nil
}

// OrderUpdateCall captures one status transition observed by the stub.
type OrderUpdateCall struct {
	Number   string
	From     model.OrderStatus
	To       model.OrderStatus
	Tracking string
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	PlaceFn        func(context.Context, *model.Order) error
	GetByNumberFn  func(context.Context, string) (*model.Order, error)
	ListByUserFn   func(context.Context, int64) ([]model.Order, error)
	ListFn         func(context.Context, repository.OrderFilter) ([]model.Order, error)
	ListBetweenFn  func(context.Context, time.Time, time.Time) ([]model.Order, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus, model.OrderStatus, string, []model.TimelineEvent) (*model.Order, error)

	Placed      []model.Order
	Orders      []model.Order
	UpdateCalls []OrderUpdateCall
}

// Place tracks invocations and stores the order.
func (s *OrderRepositoryStub) Place(ctx context.Context, order *model.Order) error {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, order)
	}
	order.ID = int64(len(s.Placed) + 1)
	s.Placed = append(s.Placed, *order)
	s.Orders = append(s.Orders, *order)
	return nil
}

// GetByNumber returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	if s.GetByNumberFn != nil {
		return s.GetByNumberFn(ctx, number)
	}
	for _, o := range s.Orders {
		if o.Number == number {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns orders from configured slice.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	var out []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// List returns orders matching the filter.
func (s *OrderRepositoryStub) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	var out []model.Order
	for _, o := range s.Orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// ListBetween returns orders created inside the window.
func (s *OrderRepositoryStub) ListBetween(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	if s.ListBetweenFn != nil {
		return s.ListBetweenFn(ctx, from, to)
	}
	var out []model.Order
	for _, o := range s.Orders {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

// UpdateStatus records update invocations and applies them to stored orders.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, number string, from, to model.OrderStatus, trackingNumber string, timeline []model.TimelineEvent) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, number, from, to, trackingNumber, timeline)
	}
	s.UpdateCalls = append(s.UpdateCalls, OrderUpdateCall{Number: number, From: from, To: to, Tracking: trackingNumber})
	for i := range s.Orders {
		if s.Orders[i].Number != number {
			continue
		}
		if s.Orders[i].Status != from {
			return nil, domainErrors.ErrIllegalTransition
		}
		s.Orders[i].Status = to
		if trackingNumber != "" {
			s.Orders[i].TrackingNumber = trackingNumber
		}
		s.Orders[i].Timeline = timeline
		order := s.Orders[i]
		return &order, nil
	}
	return nil, domainErrors.ErrNotFound
}
