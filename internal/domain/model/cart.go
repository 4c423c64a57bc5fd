package model

import "time"

// CartItem is a single cart line. A cart never holds two lines for the same
// product; adding an existing product increments its quantity.
type CartItem struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart is an ordered list of lines owned by a single user or guest token.
type Cart struct {
	Items []CartItem
}

// Add increments the line for productID or appends a new one.
func (c *Cart) Add(productID string, quantity int, now time.Time) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity, AddedAt: now})
}

// Remove drops the line for productID and reports whether it was present.
func (c *Cart) Remove(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Quantity returns the quantity for productID, zero when absent.
func (c *Cart) Quantity(productID string) int {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// MergeCarts folds the guest cart into the user cart, summing quantities for
// matching product ids. User lines keep their position and AddedAt; guest-only
// lines are appended in guest order.
func MergeCarts(user, guest Cart) Cart {
	merged := Cart{Items: make([]CartItem, len(user.Items))}
	copy(merged.Items, user.Items)
	for _, it := range guest.Items {
		merged.Add(it.ProductID, it.Quantity, it.AddedAt)
	}
	return merged
}
