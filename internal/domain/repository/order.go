package repository

import (
	"context"
	"time"

	"github.com/lumenshop/storefront/internal/domain/model"
)

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status model.OrderStatus
	Limit  int
	Offset int
}

// OrderRepository describes persistence operations for orders.
type OrderRepository interface {
	// Place commits a checkout atomically: product stock is locked and
	// decremented, the order is inserted and the user's cart cleared in a
	// single transaction.
	Place(ctx context.Context, order *model.Order) error
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Order, error)
	// UpdateStatus writes the new status, tracking number and timeline,
	// guarded by the expected current status. It returns ErrIllegalTransition
	// when the order moved concurrently.
	UpdateStatus(ctx context.Context, number string, from, to model.OrderStatus, trackingNumber string, timeline []model.TimelineEvent) (*model.Order, error)
}
