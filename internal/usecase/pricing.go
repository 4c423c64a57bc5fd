package usecase

import (
	"math"

	"github.com/lumenshop/storefront/internal/domain/model"
)

// Pricing holds the storefront's money rules.
type Pricing struct {
	FreeShippingThreshold float64
	ShippingFee           float64
	TaxRate               float64
}

// Quote is the priced breakdown of a cart or order.
type Quote struct {
	Subtotal float64
	Shipping float64
	Tax      float64
	Total    float64
}

// QuoteItems prices a set of order lines. Shipping is a flat fee waived once
// the subtotal reaches the free-shipping threshold; tax applies to the
// subtotal only. All figures are rounded to cents.
func (p Pricing) QuoteItems(items []model.OrderItem) Quote {
	var subtotal float64
	for _, it := range items {
		subtotal += it.UnitPrice * float64(it.Quantity)
	}
	subtotal = roundCents(subtotal)

	shipping := 0.0
	if subtotal > 0 && subtotal < p.FreeShippingThreshold {
		shipping = p.ShippingFee
	}
	tax := roundCents(subtotal * p.TaxRate)

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    roundCents(subtotal + shipping + tax),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
