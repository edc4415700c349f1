package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercadia/mercadia-backend/pkg/db/models"
	pkgerrors "github.com/mercadia/mercadia-backend/pkg/errors"
	"github.com/mercadia/mercadia-backend/pkg/money"
)

type stubRepo struct {
	products []models.Product
	variants []models.ProductVariant
	err      error
}

func (s *stubRepo) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	return s.products, s.err
}

func (s *stubRepo) FindVariantsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error) {
	return s.variants, s.err
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func newResolverOrPanic(repo Repository) Resolver {
	r, err := NewResolver(repo)
	if err != nil {
		panic(err)
	}
	return r
}

func TestPricePrecedenceVariantSaleWins(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	variantID := uuid.New()
	repo := &stubRepo{
		products: []models.Product{{ID: productID, Name: "Lamp", SKU: "LAMP-1", Price: dec("40"), SalePrice: dec("35")}},
		variants: []models.ProductVariant{{ID: variantID, ProductID: productID, SKU: "LAMP-1-BLK", Price: dec("45"), SalePrice: dec("30")}},
	}
	r := newResolverOrPanic(repo)

	priced, err := r.Price(context.Background(), []Item{{ProductID: productID, VariantID: &variantID, Quantity: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !priced[0].UnitPrice.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("expected variant sale price 30, got %v", priced[0].UnitPrice)
	}
	if !priced[0].LineTotal.Equal(decimal.RequireFromString("60")) {
		t.Fatalf("expected line total 60, got %v", priced[0].LineTotal)
	}
	if priced[0].SKU != "LAMP-1-BLK" {
		t.Fatalf("expected variant sku, got %s", priced[0].SKU)
	}
}

func TestPricePrecedenceFallsThroughToProduct(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	variantID := uuid.New()
	repo := &stubRepo{
		products: []models.Product{{ID: productID, Name: "Lamp", SKU: "LAMP-1", Price: dec("40")}},
		variants: []models.ProductVariant{{ID: variantID, ProductID: productID, SKU: "LAMP-1-BLK"}},
	}
	r := newResolverOrPanic(repo)

	priced, err := r.Price(context.Background(), []Item{{ProductID: productID, VariantID: &variantID, Quantity: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !priced[0].UnitPrice.Equal(decimal.RequireFromString("40")) {
		t.Fatalf("expected product price 40, got %v", priced[0].UnitPrice)
	}
}

func TestPriceClientFallbackUsedLast(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	repo := &stubRepo{
		products: []models.Product{{ID: productID, Name: "Mystery", SKU: "MYS-1"}},
	}
	r := newResolverOrPanic(repo)

	fallback := money.Amount(decimal.RequireFromString("9.99"))
	priced, err := r.Price(context.Background(), []Item{{ProductID: productID, Quantity: 3, FallbackPrice: &fallback}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !priced[0].LineTotal.Equal(decimal.RequireFromString("29.97")) {
		t.Fatalf("expected 29.97, got %v", priced[0].LineTotal)
	}
}

func TestPriceMissingPriceFails(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	repo := &stubRepo{
		products: []models.Product{{ID: productID, Name: "Mystery", SKU: "MYS-1"}},
	}
	r := newResolverOrPanic(repo)

	_, err := r.Price(context.Background(), []Item{{ProductID: productID, Quantity: 1}})
	if err == nil {
		t.Fatal("expected error for unpriceable product")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	if typed.Message() != "product price missing" {
		t.Fatalf("unexpected message: %s", typed.Message())
	}
}

func TestPriceRejectsBadQuantity(t *testing.T) {
	t.Parallel()

	r := newResolverOrPanic(&stubRepo{})

	_, err := r.Price(context.Background(), []Item{{ProductID: uuid.New(), Quantity: 0}})
	if err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPriceEmptyItems(t *testing.T) {
	t.Parallel()

	r := newResolverOrPanic(&stubRepo{})

	_, err := r.Price(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty items")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "No items to checkout" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPriceUnknownProduct(t *testing.T) {
	t.Parallel()

	r := newResolverOrPanic(&stubRepo{})

	_, err := r.Price(context.Background(), []Item{{ProductID: uuid.New(), Quantity: 1}})
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}
