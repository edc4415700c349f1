package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercadia/mercadia-backend/pkg/db/models"
	pkgerrors "github.com/mercadia/mercadia-backend/pkg/errors"
	"github.com/mercadia/mercadia-backend/pkg/money"
)

// Item is one requested line before pricing.
type Item struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	// FallbackPrice is the client-supplied unit price, used only when the
	// catalog has no price at any level.
	FallbackPrice *money.Amount
}

// PricedItem is a line with its authoritative unit price resolved.
type PricedItem struct {
	ProductID   uuid.UUID
	VariantID   *uuid.UUID
	ProductName string
	SKU         string
	Quantity    int
	UnitPrice   money.Amount
	LineTotal   money.Amount
}

// Resolver prices checkout lines against the catalog.
type Resolver interface {
	Price(ctx context.Context, items []Item) ([]PricedItem, error)
}

type resolver struct {
	repo Repository
}

// NewResolver builds a pricing resolver over the catalog repository.
func NewResolver(repo Repository) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	return &resolver{repo: repo}, nil
}

// Price validates quantities, batches the two catalog lookups, and resolves
// each line's unit price with the sale-price precedence:
// variant sale > variant > product sale > product > client fallback.
func (r *resolver) Price(ctx context.Context, items []Item) ([]PricedItem, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No items to checkout")
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	variantIDs := make([]uuid.UUID, 0, len(items))
	seenProducts := map[uuid.UUID]struct{}{}
	seenVariants := map[uuid.UUID]struct{}{}

	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive number")
		}
		if _, ok := seenProducts[item.ProductID]; !ok {
			seenProducts[item.ProductID] = struct{}{}
			productIDs = append(productIDs, item.ProductID)
		}
		if item.VariantID != nil && *item.VariantID != uuid.Nil {
			if _, ok := seenVariants[*item.VariantID]; !ok {
				seenVariants[*item.VariantID] = struct{}{}
				variantIDs = append(variantIDs, *item.VariantID)
			}
		}
	}

	products, variants, err := r.fetch(ctx, productIDs, variantIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}

	productsByID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}
	variantsByID := make(map[uuid.UUID]models.ProductVariant, len(variants))
	for _, v := range variants {
		variantsByID[v.ID] = v
	}

	priced := make([]PricedItem, 0, len(items))
	for _, item := range items {
		product, ok := productsByID[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}

		var variant *models.ProductVariant
		if item.VariantID != nil && *item.VariantID != uuid.Nil {
			v, ok := variantsByID[*item.VariantID]
			if !ok || v.ProductID != product.ID {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product variant not found")
			}
			variant = &v
		}

		unitPrice := resolveUnitPrice(product, variant, item.FallbackPrice)
		if unitPrice == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price missing")
		}

		sku := product.SKU
		if variant != nil {
			sku = variant.SKU
		}

		lineTotal := money.RoundCents(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		priced = append(priced, PricedItem{
			ProductID:   product.ID,
			VariantID:   item.VariantID,
			ProductName: product.Name,
			SKU:         sku,
			Quantity:    item.Quantity,
			UnitPrice:   *unitPrice,
			LineTotal:   lineTotal,
		})
	}

	return priced, nil
}

// fetch issues the product and variant lookups concurrently; both are single
// IN queries.
func (r *resolver) fetch(ctx context.Context, productIDs, variantIDs []uuid.UUID) ([]models.Product, []models.ProductVariant, error) {
	var (
		wg         sync.WaitGroup
		products   []models.Product
		variants   []models.ProductVariant
		productErr error
		variantErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		products, productErr = r.repo.FindProductsByIDs(ctx, productIDs)
	}()
	go func() {
		defer wg.Done()
		variants, variantErr = r.repo.FindVariantsByIDs(ctx, variantIDs)
	}()
	wg.Wait()

	if productErr != nil {
		return nil, nil, productErr
	}
	if variantErr != nil {
		return nil, nil, variantErr
	}
	return products, variants, nil
}

func resolveUnitPrice(product models.Product, variant *models.ProductVariant, fallback *money.Amount) *money.Amount {
	if variant != nil {
		if variant.SalePrice != nil {
			return variant.SalePrice
		}
		if variant.Price != nil {
			return variant.Price
		}
	}
	if product.SalePrice != nil {
		return product.SalePrice
	}
	if product.Price != nil {
		return product.Price
	}
	return fallback
}
