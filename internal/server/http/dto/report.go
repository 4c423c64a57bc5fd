package dto

// SalesBucketResponse is one period of the sales report.
type SalesBucketResponse struct {
	Period  string  `json:"period"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// CustomerBucketResponse is one period of the customer acquisition report.
type CustomerBucketResponse struct {
	Period    string `json:"period"`
	New       int    `json:"new"`
	Returning int    `json:"returning"`
}

// CustomerSummaryResponse is one customer row of the customer report.
type CustomerSummaryResponse struct {
	UserID     int64   `json:"user_id"`
	Login      string  `json:"login"`
	Orders     int     `json:"orders"`
	TotalSpend float64 `json:"total_spend"`
	Segment    string  `json:"segment"`
}

// CustomerReportResponse aggregates the customer report.
type CustomerReportResponse struct {
	Buckets   []CustomerBucketResponse  `json:"buckets"`
	Customers []CustomerSummaryResponse `json:"customers"`
	Segments  map[string]int            `json:"segments"`
}

// InventoryRowResponse is one category of the inventory report.
type InventoryRowResponse struct {
	Category string `json:"category"`
	InStock  int    `json:"in_stock"`
	LowStock int    `json:"low_stock"`
	OutStock int    `json:"out_of_stock"`
}
