package dto

import "time"

// AddressPayload describes a shipping or billing destination.
type AddressPayload struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CheckoutRequest describes the checkout payload.
type CheckoutRequest struct {
	ShippingAddress AddressPayload `json:"shipping_address"`
	BillingAddress  AddressPayload `json:"billing_address"`
	PaymentMethod   string         `json:"payment_method"`
	ShippingMethod  string         `json:"shipping_method"`
}

// OrderItemResponse is a line of a placed order.
type OrderItemResponse struct {
	ProductID string  `json:"product_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// TimelineEventResponse is one entry of the order status history.
type TimelineEventResponse struct {
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// OrderResponse describes a placed order.
type OrderResponse struct {
	Number          string                  `json:"number"`
	Status          string                  `json:"status"`
	Items           []OrderItemResponse     `json:"items"`
	ShippingAddress AddressPayload          `json:"shipping_address"`
	BillingAddress  AddressPayload          `json:"billing_address"`
	PaymentMethod   string                  `json:"payment_method"`
	ShippingMethod  string                  `json:"shipping_method"`
	TrackingNumber  string                  `json:"tracking_number,omitempty"`
	Timeline        []TimelineEventResponse `json:"timeline"`
	Subtotal        float64                 `json:"subtotal"`
	Shipping        float64                 `json:"shipping"`
	Tax             float64                 `json:"tax"`
	Total           float64                 `json:"total"`
	CreatedAt       time.Time               `json:"created_at"`
}
