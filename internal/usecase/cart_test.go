package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/test"
	"github.com/lumenshop/storefront/internal/usecase"
)

func newCartUseCaseForTest(products ...*model.Product) (*usecase.CartUseCase, *test.CartRepositoryStub, *test.GuestCartRepositoryStub) {
	carts := test.NewCartRepositoryStub()
	guests := test.NewGuestCartRepositoryStub()
	catalog := test.NewProductRepositoryStub(products...)
	uc := usecase.NewCartUseCase(carts, guests, catalog, testPricing())
	return uc, carts, guests
}

func TestCartAddItemRejectsInvalidQuantity(t *testing.T) {
	uc, _, _ := newCartUseCaseForTest()

	if err := uc.AddItem(context.Background(), 1, "p1", 0); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity error, got %v", err)
	}
}

func TestCartAddItemRejectsUnknownProduct(t *testing.T) {
	uc, _, _ := newCartUseCaseForTest()

	if err := uc.AddItem(context.Background(), 1, "missing", 1); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCartAddItemRejectsOutOfStockProduct(t *testing.T) {
	uc, _, _ := newCartUseCaseForTest(&model.Product{ID: "p1", SKU: "SKU-1", Name: "Widget", Price: 10})

	if err := uc.AddItem(context.Background(), 1, "p1", 1); !errors.Is(err, domainErrors.ErrOutOfStock) {
		t.Fatalf("expected out of stock error, got %v", err)
	}
}

func TestCartAddItemMergesQuantities(t *testing.T) {
	uc, carts, _ := newCartUseCaseForTest(&model.Product{ID: "p1", SKU: "SKU-1", Name: "Widget", Price: 10, Stock: 5, InStock: true})

	if err := uc.AddItem(context.Background(), 1, "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.AddItem(context.Background(), 1, "p1", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart := carts.Carts[1]
	if len(cart.Items) != 1 {
		t.Fatalf("expected one cart line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", cart.Items[0].Quantity)
	}
}

func TestCartViewPricesLinesAndSkipsStaleOnes(t *testing.T) {
	uc, carts, _ := newCartUseCaseForTest(&model.Product{ID: "p1", SKU: "SKU-1", Name: "Widget", Price: 12.50, Stock: 5, InStock: true})
	carts.Carts[1] = model.Cart{Items: []model.CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "withdrawn", Quantity: 1},
	}}

	view, err := uc.View(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected stale line to be dropped, got %d lines", len(view.Lines))
	}
	if view.Lines[0].LineTotal != 25.00 {
		t.Fatalf("unexpected line total %v", view.Lines[0].LineTotal)
	}
	if view.Quote.Total != 36.74 {
		t.Fatalf("unexpected cart total %v", view.Quote.Total)
	}
}

func TestGuestCartRoundTrip(t *testing.T) {
	uc, _, guests := newCartUseCaseForTest(&model.Product{ID: "p1", SKU: "SKU-1", Name: "Widget", Price: 10, Stock: 5, InStock: true})
	token := test.RandomGuestToken()

	if err := uc.AddGuestItem(context.Background(), token, "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := uc.GuestView(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].Item.Quantity != 2 {
		t.Fatalf("unexpected guest cart view %+v", view.Lines)
	}

	if err := uc.RemoveGuestItem(context.Background(), token, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(guests.Carts[token].Items) != 0 {
		t.Fatal("expected guest cart to be empty after removal")
	}
}

func TestGuestCartRemoveMissingLineReportsNotFound(t *testing.T) {
	uc, _, _ := newCartUseCaseForTest()

	err := uc.RemoveGuestItem(context.Background(), test.RandomGuestToken(), "p1")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestMergeOnLoginSumsQuantitiesAndDeletesGuestCart(t *testing.T) {
	uc, carts, guests := newCartUseCaseForTest()
	now := time.Now()
	carts.Carts[1] = model.Cart{Items: []model.CartItem{
		{ProductID: "p1", Quantity: 1, AddedAt: now},
		{ProductID: "p2", Quantity: 2, AddedAt: now},
	}}
	guests.Carts["tok"] = model.Cart{Items: []model.CartItem{
		{ProductID: "p2", Quantity: 3, AddedAt: now},
		{ProductID: "p3", Quantity: 1, AddedAt: now},
	}}

	if err := uc.MergeOnLogin(context.Background(), 1, "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged := carts.Carts[1]
	if len(merged.Items) != 3 {
		t.Fatalf("expected 3 merged lines, got %d", len(merged.Items))
	}
	if got := merged.Quantity("p2"); got != 5 {
		t.Fatalf("expected merged quantity 5 for p2, got %d", got)
	}
	if _, ok := guests.Carts["tok"]; ok {
		t.Fatal("expected guest cart to be deleted after merge")
	}
}

func TestMergeOnLoginWithoutTokenIsNoop(t *testing.T) {
	uc, carts, _ := newCartUseCaseForTest()
	carts.Err = errors.New("must not be called")

	if err := uc.MergeOnLogin(context.Background(), 1, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMergeOnLoginEmptyGuestCartOnlyDeletesDocument(t *testing.T) {
	uc, carts, guests := newCartUseCaseForTest()
	carts.Carts[1] = model.Cart{Items: []model.CartItem{{ProductID: "p1", Quantity: 1}}}
	guests.Carts["tok"] = model.Cart{}

	if err := uc.MergeOnLogin(context.Background(), 1, "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	userCart := carts.Carts[1]
	if got := userCart.Quantity("p1"); got != 1 {
		t.Fatalf("expected user cart untouched, got quantity %d", got)
	}
}
