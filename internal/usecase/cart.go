package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
)

// CartLine is a cart item joined with its current catalog entry.
type CartLine struct {
	Item      model.CartItem
	Product   model.Product
	LineTotal float64
}

// CartView is a priced cart ready for presentation.
type CartView struct {
	Lines []CartLine
	Quote Quote
}

// CartUseCase manages authenticated and guest carts.
type CartUseCase struct {
	carts    repository.CartRepository
	guests   repository.GuestCartRepository
	products repository.ProductRepository
	pricing  Pricing
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, guests repository.GuestCartRepository, products repository.ProductRepository, pricing Pricing) *CartUseCase {
	return &CartUseCase{carts: carts, guests: guests, products: products, pricing: pricing}
}

// AddItem adds quantity of productID to the user's cart. The product must
// exist and be purchasable.
func (u *CartUseCase) AddItem(ctx context.Context, userID int64, productID string, quantity int) error {
	if !ValidateQuantity(quantity) {
		return domainErrors.ErrInvalidQuantity
	}
	product, err := u.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.InStock {
		return domainErrors.ErrOutOfStock
	}
	return u.carts.AddItem(ctx, userID, productID, quantity, time.Now())
}

// RemoveItem drops a line from the user's cart.
func (u *CartUseCase) RemoveItem(ctx context.Context, userID int64, productID string) error {
	return u.carts.RemoveItem(ctx, userID, productID)
}

// Clear empties the user's cart.
func (u *CartUseCase) Clear(ctx context.Context, userID int64) error {
	return u.carts.Clear(ctx, userID)
}

// View returns the user's cart joined with catalog data and priced.
func (u *CartUseCase) View(ctx context.Context, userID int64) (*CartView, error) {
	cart, err := u.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.buildView(ctx, cart)
}

// AddGuestItem adds a line to the guest cart held under token.
func (u *CartUseCase) AddGuestItem(ctx context.Context, token, productID string, quantity int) error {
	if !ValidateQuantity(quantity) {
		return domainErrors.ErrInvalidQuantity
	}
	product, err := u.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.InStock {
		return domainErrors.ErrOutOfStock
	}

	cart, err := u.guests.Get(ctx, token)
	if err != nil {
		return err
	}
	cart.Add(productID, quantity, time.Now())
	return u.guests.Save(ctx, token, cart)
}

// RemoveGuestItem drops a line from the guest cart.
func (u *CartUseCase) RemoveGuestItem(ctx context.Context, token, productID string) error {
	cart, err := u.guests.Get(ctx, token)
	if err != nil {
		return err
	}
	if !cart.Remove(productID) {
		return domainErrors.ErrNotFound
	}
	return u.guests.Save(ctx, token, cart)
}

// ClearGuest deletes the guest cart document.
func (u *CartUseCase) ClearGuest(ctx context.Context, token string) error {
	return u.guests.Delete(ctx, token)
}

// GuestView returns the guest cart joined with catalog data and priced.
func (u *CartUseCase) GuestView(ctx context.Context, token string) (*CartView, error) {
	cart, err := u.guests.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return u.buildView(ctx, cart)
}

// MergeOnLogin folds the guest cart into the user's cart, summing quantities
// for matching products, then deletes the guest document. Merging an empty or
// absent guest cart is a no-op.
func (u *CartUseCase) MergeOnLogin(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return nil
	}
	guest, err := u.guests.Get(ctx, token)
	if err != nil {
		return err
	}
	if len(guest.Items) == 0 {
		return u.guests.Delete(ctx, token)
	}

	user, err := u.carts.Get(ctx, userID)
	if err != nil {
		return err
	}
	merged := model.MergeCarts(user, guest)
	if err := u.carts.Replace(ctx, userID, merged); err != nil {
		return err
	}
	return u.guests.Delete(ctx, token)
}

func (u *CartUseCase) buildView(ctx context.Context, cart model.Cart) (*CartView, error) {
	view := &CartView{}
	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		product, err := u.products.GetByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				// Product withdrawn from the catalog; skip the stale line.
				continue
			}
			return nil, err
		}
		view.Lines = append(view.Lines, CartLine{
			Item:      it,
			Product:   *product,
			LineTotal: roundCents(product.Price * float64(it.Quantity)),
		})
		items = append(items, model.OrderItem{
			ProductID: product.ID,
			UnitPrice: product.Price,
			Quantity:  it.Quantity,
		})
	}
	view.Quote = u.pricing.QuoteItems(items)
	return view, nil
}
