package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
)

const defaultPageSize = 50

// CatalogUseCase manages the product catalog.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// Create validates and stores a new product, assigning an id when absent.
func (u *CatalogUseCase) Create(ctx context.Context, product *model.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	return u.products.Create(ctx, product)
}

// Update validates and persists changes to an existing product.
func (u *CatalogUseCase) Update(ctx context.Context, product *model.Product) error {
	if product.ID == "" {
		return domainErrors.ErrNotFound
	}
	if err := validateProduct(product); err != nil {
		return err
	}
	return u.products.Update(ctx, product)
}

// GetByID fetches a single product.
func (u *CatalogUseCase) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// List returns products matching the filter, capped at a default page size
// when the caller does not paginate.
func (u *CatalogUseCase) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
		filter.Offset = 0
	}
	return u.products.List(ctx, filter)
}

// SetStock replaces a product's stock count. The in-stock flag is recomputed
// in the same write.
func (u *CatalogUseCase) SetStock(ctx context.Context, id string, stock int) error {
	if stock < 0 {
		return domainErrors.ErrInvalidQuantity
	}
	return u.products.SetStock(ctx, id, stock)
}

// SelectBatchForReconcile returns products whose in-stock flag disagrees with
// the stock count, or whose stock sits at or below the low-stock threshold.
func (u *CatalogUseCase) SelectBatchForReconcile(ctx context.Context, limit int) ([]model.Product, error) {
	return u.products.SelectBatchForReconcile(ctx, limit)
}

// RepairStockFlag rewrites a product's in-stock flag.
func (u *CatalogUseCase) RepairStockFlag(ctx context.Context, id string, inStock bool) error {
	return u.products.SetInStock(ctx, id, inStock)
}

func validateProduct(product *model.Product) error {
	if strings.TrimSpace(product.SKU) == "" || strings.TrimSpace(product.Name) == "" {
		return domainErrors.ErrInvalidProduct
	}
	if product.Price < 0 || product.Stock < 0 || product.LowStockThreshold < 0 {
		return domainErrors.ErrInvalidProduct
	}
	return nil
}
