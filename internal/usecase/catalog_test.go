package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
	"github.com/lumenshop/storefront/internal/test"
	"github.com/lumenshop/storefront/internal/usecase"
)

func TestCatalogCreateAssignsID(t *testing.T) {
	repo := test.NewProductRepositoryStub()
	uc := usecase.NewCatalogUseCase(repo)

	product := &model.Product{SKU: "SKU-1", Name: "Widget", Price: 10, Stock: 3}
	if err := uc.Create(context.Background(), product); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.ID == "" {
		t.Fatal("expected generated product id")
	}
	if _, ok := repo.Products[product.ID]; !ok {
		t.Fatal("expected product to be stored")
	}
}

func TestCatalogCreateRejectsInvalidProduct(t *testing.T) {
	uc := usecase.NewCatalogUseCase(test.NewProductRepositoryStub())

	cases := []model.Product{
		{Name: "Widget", Price: 10},
		{SKU: "SKU-1", Price: 10},
		{SKU: "SKU-1", Name: "Widget", Price: -1},
		{SKU: "SKU-1", Name: "Widget", Stock: -1},
	}
	for _, p := range cases {
		product := p
		if err := uc.Create(context.Background(), &product); !errors.Is(err, domainErrors.ErrInvalidProduct) {
			t.Fatalf("expected invalid product error for %+v, got %v", p, err)
		}
	}
}

func TestCatalogUpdateWithoutIDReportsNotFound(t *testing.T) {
	uc := usecase.NewCatalogUseCase(test.NewProductRepositoryStub())

	err := uc.Update(context.Background(), &model.Product{SKU: "SKU-1", Name: "Widget"})
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCatalogListAppliesDefaultPageSize(t *testing.T) {
	repo := test.NewProductRepositoryStub()
	var captured repository.ProductFilter
	repo.ListFn = func(_ context.Context, filter repository.ProductFilter) ([]model.Product, error) {
		captured = filter
		return nil, nil
	}
	uc := usecase.NewCatalogUseCase(repo)

	if _, err := uc.List(context.Background(), repository.ProductFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Limit != 50 || captured.Offset != 0 {
		t.Fatalf("expected default pagination, got %+v", captured)
	}
}

func TestCatalogSetStockRejectsNegative(t *testing.T) {
	uc := usecase.NewCatalogUseCase(test.NewProductRepositoryStub())

	if err := uc.SetStock(context.Background(), "p1", -1); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity error, got %v", err)
	}
}

func TestCatalogSetStockRecomputesFlag(t *testing.T) {
	repo := test.NewProductRepositoryStub(&model.Product{ID: "p1", SKU: "SKU-1", Name: "Widget", Stock: 0})
	uc := usecase.NewCatalogUseCase(repo)

	if err := uc.SetStock(context.Background(), "p1", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := repo.Products["p1"]; p.Stock != 4 || !p.InStock {
		t.Fatalf("expected stock repaired to 4/in-stock, got %+v", p)
	}
}

func TestCatalogRepairStockFlagDelegates(t *testing.T) {
	repo := test.NewProductRepositoryStub(&model.Product{ID: "p1", SKU: "SKU-1", Name: "Widget", Stock: 3})
	uc := usecase.NewCatalogUseCase(repo)

	if err := uc.RepairStockFlag(context.Background(), "p1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.InStockCalls) != 1 || !repo.InStockCalls[0].InStock {
		t.Fatalf("expected one in-stock repair call, got %+v", repo.InStockCalls)
	}
}
