package dto

// CartItemRequest describes an add-to-cart payload.
type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartLineResponse is one priced cart line.
type CartLineResponse struct {
	ProductID string  `json:"product_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// CartResponse is the priced cart returned to the client. GuestToken is set
// only on guest cart responses.
type CartResponse struct {
	Items      []CartLineResponse `json:"items"`
	Subtotal   float64            `json:"subtotal"`
	Shipping   float64            `json:"shipping"`
	Tax        float64            `json:"tax"`
	Total      float64            `json:"total"`
	GuestToken string             `json:"guest_token,omitempty"`
}
