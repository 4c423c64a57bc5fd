package model

import "time"

// StockLevel classifies product availability for inventory reporting.
type StockLevel string

const (
	StockLevelIn  StockLevel = "in_stock"
	StockLevelLow StockLevel = "low_stock"
	StockLevelOut StockLevel = "out_of_stock"
)

// Product describes a catalog entry.
//
// InStock is strictly derived from Stock > 0. Every write path recomputes it;
// the stock reconciler repairs drift introduced by external writers.
type Product struct {
	ID                string
	SKU               string
	Name              string
	Description       string
	Price             float64
	Stock             int
	Categories        []string
	LowStockThreshold int
	InStock           bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// StockAvailable reports whether a stock count means the product is purchasable.
func StockAvailable(stock int) bool {
	return stock > 0
}

// Level returns the stock classification used by inventory reports.
func (p Product) Level() StockLevel {
	switch {
	case p.Stock <= 0:
		return StockLevelOut
	case p.Stock <= p.LowStockThreshold:
		return StockLevelLow
	default:
		return StockLevelIn
	}
}
