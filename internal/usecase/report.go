package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
)

// ErrInvalidTimeframe is returned for unknown report timeframes.
var ErrInvalidTimeframe = errors.New("invalid timeframe")

// Timeframe selects the reporting window and bucket granularity.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// ParseTimeframe validates a timeframe query value, defaulting to month.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeWeek, TimeframeMonth, TimeframeYear:
		return Timeframe(s), nil
	case "":
		return TimeframeMonth, nil
	}
	return "", ErrInvalidTimeframe
}

// Window returns the half-open [from, to) interval covered by the timeframe.
func (t Timeframe) Window(now time.Time) (time.Time, time.Time) {
	switch t {
	case TimeframeWeek:
		return now.AddDate(0, 0, -7), now
	case TimeframeYear:
		return now.AddDate(-1, 0, 0), now
	default:
		return now.AddDate(0, -1, 0), now
	}
}

// BucketKey formats a timestamp into the timeframe's bucket: days for week
// and month windows, months for year windows.
func (t Timeframe) BucketKey(ts time.Time) string {
	if t == TimeframeYear {
		return ts.Format("2006-01")
	}
	return ts.Format("2006-01-02")
}

// SalesBucket aggregates revenue and order count for one time bucket.
type SalesBucket struct {
	Key     string
	Orders  int
	Revenue float64
}

// BucketSales partitions orders into time buckets: every input order lands in
// exactly one bucket and bucket revenue sums to the input total. Buckets are
// sorted chronologically, falling back to lexicographic key order when a key
// does not parse as a date.
func BucketSales(orders []model.Order, tf Timeframe) []SalesBucket {
	byKey := make(map[string]*SalesBucket)
	for _, o := range orders {
		key := tf.BucketKey(o.CreatedAt)
		bucket, ok := byKey[key]
		if !ok {
			bucket = &SalesBucket{Key: key}
			byKey[key] = bucket
		}
		bucket.Orders++
		bucket.Revenue = roundCents(bucket.Revenue + o.Total)
	}

	result := make([]SalesBucket, 0, len(byKey))
	for _, b := range byKey {
		result = append(result, *b)
	}
	sortBucketKeys(result, func(b SalesBucket) string { return b.Key })
	return result
}

// CustomerBucket counts first-seen versus returning customers per bucket.
type CustomerBucket struct {
	Key       string
	New       int
	Returning int
}

// BucketCustomers walks orders chronologically and classifies each
// customer-bucket pair as new (first order in the input) or returning.
func BucketCustomers(orders []model.Order, tf Timeframe) []CustomerBucket {
	sorted := make([]model.Order, len(orders))
	copy(sorted, orders)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	seen := make(map[int64]bool)
	byKey := make(map[string]*CustomerBucket)
	counted := make(map[string]map[int64]bool)
	for _, o := range sorted {
		key := tf.BucketKey(o.CreatedAt)
		bucket, ok := byKey[key]
		if !ok {
			bucket = &CustomerBucket{Key: key}
			byKey[key] = bucket
			counted[key] = make(map[int64]bool)
		}
		if counted[key][o.UserID] {
			continue
		}
		counted[key][o.UserID] = true
		if seen[o.UserID] {
			bucket.Returning++
		} else {
			seen[o.UserID] = true
			bucket.New++
		}
	}

	result := make([]CustomerBucket, 0, len(byKey))
	for _, b := range byKey {
		result = append(result, *b)
	}
	sortBucketKeys(result, func(b CustomerBucket) string { return b.Key })
	return result
}

// CategoryStock counts stock levels within one category.
type CategoryStock struct {
	Category string
	In       int
	Low      int
	Out      int
}

const uncategorized = "uncategorized"

// BucketInventory counts in/low/out-of-stock products per category. A product
// belonging to several categories is counted in each of them.
func BucketInventory(products []model.Product) []CategoryStock {
	byCategory := make(map[string]*CategoryStock)
	count := func(category string, level model.StockLevel) {
		bucket, ok := byCategory[category]
		if !ok {
			bucket = &CategoryStock{Category: category}
			byCategory[category] = bucket
		}
		switch level {
		case model.StockLevelIn:
			bucket.In++
		case model.StockLevelLow:
			bucket.Low++
		case model.StockLevelOut:
			bucket.Out++
		}
	}

	for _, p := range products {
		level := p.Level()
		if len(p.Categories) == 0 {
			count(uncategorized, level)
			continue
		}
		for _, c := range p.Categories {
			count(c, level)
		}
	}

	result := make([]CategoryStock, 0, len(byCategory))
	for _, b := range byCategory {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result
}

// SummarizeCustomers derives the admin customer view from users and their
// order history. Cancelled orders count toward neither spend nor order count.
func SummarizeCustomers(users []model.User, orders []model.Order, highValueSpend float64) []model.CustomerSummary {
	byUser := make(map[int64]*model.CustomerSummary, len(users))
	result := make([]model.CustomerSummary, 0, len(users))
	for _, u := range users {
		result = append(result, model.CustomerSummary{UserID: u.ID, Login: u.Login})
	}
	for i := range result {
		byUser[result[i].UserID] = &result[i]
	}

	for _, o := range orders {
		summary, ok := byUser[o.UserID]
		if !ok || o.Status == model.OrderStatusCancelled {
			continue
		}
		summary.Orders++
		summary.TotalSpend = roundCents(summary.TotalSpend + o.Total)
		if summary.FirstOrder.IsZero() || o.CreatedAt.Before(summary.FirstOrder) {
			summary.FirstOrder = o.CreatedAt
		}
		if o.CreatedAt.After(summary.LastOrder) {
			summary.LastOrder = o.CreatedAt
		}
	}

	for i := range result {
		result[i].Segment = model.ClassifySegment(result[i].Orders, result[i].TotalSpend, highValueSpend)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TotalSpend > result[j].TotalSpend })
	return result
}

func sortBucketKeys[T any](buckets []T, key func(T) string) {
	sort.Slice(buckets, func(i, j int) bool {
		ki, kj := key(buckets[i]), key(buckets[j])
		ti, errI := time.Parse("2006-01-02", ki)
		tj, errJ := time.Parse("2006-01-02", kj)
		if errI != nil || errJ != nil {
			ti, errI = time.Parse("2006-01", ki)
			tj, errJ = time.Parse("2006-01", kj)
		}
		if errI != nil || errJ != nil {
			return ki < kj
		}
		return ti.Before(tj)
	})
}

// CustomerReport combines per-bucket activity with per-customer summaries.
type CustomerReport struct {
	Buckets   []CustomerBucket
	Summaries []model.CustomerSummary
	Segments  map[model.Segment]int
}

// ReportUseCase serves the admin dashboard aggregations.
type ReportUseCase struct {
	orders         repository.OrderRepository
	users          repository.UserRepository
	products       repository.ProductRepository
	highValueSpend float64
}

// NewReportUseCase constructs ReportUseCase.
func NewReportUseCase(orders repository.OrderRepository, users repository.UserRepository, products repository.ProductRepository, highValueSpend float64) *ReportUseCase {
	return &ReportUseCase{orders: orders, users: users, products: products, highValueSpend: highValueSpend}
}

// Sales buckets the timeframe's orders by day or month. Cancelled orders are
// excluded before bucketing so revenue reflects realized sales.
func (u *ReportUseCase) Sales(ctx context.Context, tf Timeframe) ([]SalesBucket, error) {
	from, to := tf.Window(time.Now())
	orders, err := u.orders.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	active := orders[:0]
	for _, o := range orders {
		if o.Status != model.OrderStatusCancelled {
			active = append(active, o)
		}
	}
	return BucketSales(active, tf), nil
}

// Customers reports new-versus-returning activity within the timeframe plus
// all-time customer summaries and segment counts.
func (u *ReportUseCase) Customers(ctx context.Context, tf Timeframe) (*CustomerReport, error) {
	from, to := tf.Window(time.Now())
	windowOrders, err := u.orders.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	allOrders, err := u.orders.List(ctx, repository.OrderFilter{})
	if err != nil {
		return nil, err
	}

	report := &CustomerReport{
		Buckets:   BucketCustomers(windowOrders, tf),
		Summaries: SummarizeCustomers(users, allOrders, u.highValueSpend),
		Segments:  make(map[model.Segment]int),
	}
	for _, s := range report.Summaries {
		report.Segments[s.Segment]++
	}
	return report, nil
}

// Inventory reports stock levels per category across the whole catalog.
func (u *ReportUseCase) Inventory(ctx context.Context) ([]CategoryStock, error) {
	products, err := u.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	return BucketInventory(products), nil
}
