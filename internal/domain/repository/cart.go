package repository

import (
	"context"
	"time"

	"github.com/lumenshop/storefront/internal/domain/model"
)

// CartRepository manages the authoritative per-user cart.
type CartRepository interface {
	Get(ctx context.Context, userID int64) (model.Cart, error)
	AddItem(ctx context.Context, userID int64, productID string, quantity int, addedAt time.Time) error
	RemoveItem(ctx context.Context, userID int64, productID string) error
	Clear(ctx context.Context, userID int64) error
	Replace(ctx context.Context, userID int64, cart model.Cart) error
}

// GuestCartRepository holds ephemeral carts for unauthenticated sessions,
// keyed by a client-held guest token.
type GuestCartRepository interface {
	Get(ctx context.Context, token string) (model.Cart, error)
	Save(ctx context.Context, token string, cart model.Cart) error
	Delete(ctx context.Context, token string) error
}
