package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
)

// OrderPublisher receives every committed order state change for fan-out to
// live subscribers.
type OrderPublisher interface {
	PublishOrder(order model.Order)
}

// NopPublisher drops events.
type NopPublisher struct{}

func (NopPublisher) PublishOrder(model.Order) {}

// CheckoutInput carries the buyer-supplied checkout fields.
type CheckoutInput struct {
	ShippingAddress model.Address
	BillingAddress  model.Address
	PaymentMethod   string
	ShippingMethod  string
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	products  repository.ProductRepository
	pricing   Pricing
	publisher OrderPublisher
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, carts repository.CartRepository, products repository.ProductRepository, pricing Pricing, publisher OrderPublisher) *OrderUseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &OrderUseCase{orders: orders, carts: carts, products: products, pricing: pricing, publisher: publisher}
}

// Checkout turns the user's cart into a pending order. Stock is re-checked
// and decremented inside the placement transaction; on success the cart is
// cleared atomically with the order insert.
func (u *OrderUseCase) Checkout(ctx context.Context, userID int64, input CheckoutInput) (*model.Order, error) {
	cart, err := u.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domainErrors.ErrCartEmpty
	}

	now := time.Now()
	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := u.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < line.Quantity {
			return nil, domainErrors.ErrOutOfStock
		}
		items = append(items, model.OrderItem{
			ProductID: product.ID,
			SKU:       product.SKU,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
		})
	}

	quote := u.pricing.QuoteItems(items)
	order := &model.Order{
		Number:          newOrderNumber(now),
		UserID:          userID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		PaymentMethod:   input.PaymentMethod,
		ShippingMethod:  input.ShippingMethod,
		Subtotal:        quote.Subtotal,
		Shipping:        quote.Shipping,
		Tax:             quote.Tax,
		Total:           quote.Total,
	}
	order.AppendEvent(model.OrderStatusPending, now, "Order placed")

	if err := u.orders.Place(ctx, order); err != nil {
		return nil, err
	}

	u.publisher.PublishOrder(*order)
	return order, nil
}

// GetByNumber fetches a single order.
func (u *OrderUseCase) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	return u.orders.GetByNumber(ctx, number)
}

// ListByUser returns the user's orders, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// List returns orders across all users for the admin dashboard.
func (u *OrderUseCase) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	return u.orders.List(ctx, filter)
}

// Advance moves the order one step along the forward path. The transition
// into shipped assigns a generated tracking number, exactly once.
func (u *OrderUseCase) Advance(ctx context.Context, number string) (*model.Order, error) {
	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	next, ok := order.Status.Next()
	if !ok {
		return nil, domainErrors.ErrIllegalTransition
	}

	tracking := ""
	if next == model.OrderStatusShipped {
		tracking = newTrackingNumber()
	}

	now := time.Now()
	timeline := append(append([]model.TimelineEvent(nil), order.Timeline...), model.TimelineEvent{
		Status:      next,
		Date:        now,
		Description: transitionDescription(next, tracking),
	})

	updated, err := u.orders.UpdateStatus(ctx, number, order.Status, next, tracking, timeline)
	if err != nil {
		return nil, err
	}

	u.publisher.PublishOrder(*updated)
	return updated, nil
}

// Cancel marks the order cancelled. Orders that shipped or reached a terminal
// state are rejected.
func (u *OrderUseCase) Cancel(ctx context.Context, number string) (*model.Order, error) {
	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if !order.Status.Cancellable() {
		return nil, domainErrors.ErrIllegalTransition
	}

	now := time.Now()
	timeline := append(append([]model.TimelineEvent(nil), order.Timeline...), model.TimelineEvent{
		Status:      model.OrderStatusCancelled,
		Date:        now,
		Description: "Order cancelled",
	})

	updated, err := u.orders.UpdateStatus(ctx, number, order.Status, model.OrderStatusCancelled, "", timeline)
	if err != nil {
		return nil, err
	}

	u.publisher.PublishOrder(*updated)
	return updated, nil
}

func transitionDescription(status model.OrderStatus, tracking string) string {
	switch status {
	case model.OrderStatusProcessing:
		return "Order confirmed, preparing shipment"
	case model.OrderStatusShipped:
		return fmt.Sprintf("Package handed to carrier, tracking %s", tracking)
	case model.OrderStatusDelivered:
		return "Package delivered"
	default:
		return string(status)
	}
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

func newTrackingNumber() string {
	return "TRK-" + strings.ToUpper(uuid.NewString()[:12])
}
