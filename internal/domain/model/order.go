package model

import "time"

// OrderStatus describes the fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// statusSequence is the only forward path through the lifecycle.
var statusSequence = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// Next returns the status following s on the forward path. It reports false
// when s is not on the path or is already the last step.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, st := range statusSequence {
		if st == s {
			if i == len(statusSequence)-1 {
				return s, false
			}
			return statusSequence[i+1], true
		}
	}
	return s, false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Cancellable reports whether an order in status s may still be cancelled.
// Shipped orders are past the point of no return.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a priced snapshot of a product at checkout time.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Address holds a shipping or billing destination.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// TimelineEvent records one status change. The timeline is append-only and its
// latest entry always matches the order's status field.
type TimelineEvent struct {
	Status      OrderStatus `json:"status"`
	Date        time.Time   `json:"date"`
	Description string      `json:"description"`
}

// Order is a placed order. Orders are never hard-deleted.
type Order struct {
	ID              int64
	Number          string
	UserID          int64
	Status          OrderStatus
	Items           []OrderItem
	ShippingAddress Address
	BillingAddress  Address
	PaymentMethod   string
	ShippingMethod  string
	TrackingNumber  string
	Timeline        []TimelineEvent
	Subtotal        float64
	Shipping        float64
	Tax             float64
	Total           float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AppendEvent sets the order status and records the matching timeline entry.
func (o *Order) AppendEvent(status OrderStatus, at time.Time, description string) {
	o.Status = status
	o.Timeline = append(o.Timeline, TimelineEvent{Status: status, Date: at, Description: description})
}
