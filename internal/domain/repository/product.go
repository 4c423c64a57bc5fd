package repository

import (
	"context"

	"github.com/lumenshop/storefront/internal/domain/model"
)

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category string
	Limit    int
	Offset   int
}

// ProductRepository describes persistence operations for catalog entries.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	SetStock(ctx context.Context, id string, stock int) error
	SetInStock(ctx context.Context, id string, inStock bool) error
	SelectBatchForReconcile(ctx context.Context, limit int) ([]model.Product, error)
}
