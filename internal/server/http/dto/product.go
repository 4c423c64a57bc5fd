package dto

import "time"

// ProductRequest describes a catalog create/update payload.
type ProductRequest struct {
	SKU               string   `json:"sku"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Price             float64  `json:"price"`
	Stock             int      `json:"stock"`
	Categories        []string `json:"categories"`
	LowStockThreshold int      `json:"low_stock_threshold"`
}

// ProductResponse describes a catalog entry.
type ProductResponse struct {
	ID                string    `json:"id"`
	SKU               string    `json:"sku"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	Stock             int       `json:"stock"`
	Categories        []string  `json:"categories"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	InStock           bool      `json:"in_stock"`
	StockLevel        string    `json:"stock_level"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StockRequest describes a stock replacement payload.
type StockRequest struct {
	Stock int `json:"stock"`
}
