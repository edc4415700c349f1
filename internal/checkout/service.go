package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mercadia/mercadia-backend/internal/cart"
	"github.com/mercadia/mercadia-backend/internal/coupons"
	"github.com/mercadia/mercadia-backend/internal/pricing"
	pkgerrors "github.com/mercadia/mercadia-backend/pkg/errors"
	"github.com/mercadia/mercadia-backend/pkg/logger"
	"github.com/mercadia/mercadia-backend/pkg/metrics"
	"github.com/mercadia/mercadia-backend/pkg/money"
	"github.com/mercadia/mercadia-backend/pkg/platform"
)

// DefaultPaymentMethod applies when the payload carries none.
const DefaultPaymentMethod = "card"

// Service computes checkout quotes.
type Service interface {
	Quote(ctx context.Context, userID uuid.UUID, input QuoteInput) (*Quote, error)
}

type service struct {
	pricer  pricing.Resolver
	cartRep cart.Repository
	coupons coupons.Service
	rpc     platform.Functions
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
}

// NewService builds the checkout service.
func NewService(
	pricer pricing.Resolver,
	cartRep cart.Repository,
	couponSvc coupons.Service,
	rpc platform.Functions,
	logg *logger.Logger,
	m *metrics.CheckoutMetrics,
) (Service, error) {
	if pricer == nil {
		return nil, fmt.Errorf("pricing resolver required")
	}
	if cartRep == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{
		pricer:  pricer,
		cartRep: cartRep,
		coupons: couponSvc,
		rpc:     rpc,
		logg:    logg,
		metrics: m,
	}, nil
}

// Quote prices the requested lines, merges client-supplied amounts with the
// computed ones, applies the coupon when one validates, and derives the
// final total floored at zero.
func (s *service) Quote(ctx context.Context, userID uuid.UUID, input QuoteInput) (*Quote, error) {
	items, fromCart, err := s.resolveItems(ctx, userID, input.Items)
	if err != nil {
		return nil, err
	}

	priced, err := s.pricer.Price(ctx, items)
	if err != nil {
		return nil, err
	}

	computedSubtotal := money.Zero
	for _, line := range priced {
		computedSubtotal = computedSubtotal.Add(line.LineTotal)
	}

	subtotal, err := money.ResolveOr(input.Subtotal, input.SubtotalCents, computedSubtotal)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	discount, err := money.ResolveOr(input.DiscountAmount, input.DiscountAmountCents, money.Zero)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	tax, err := money.ResolveOr(input.TaxAmount, input.TaxAmountCents, money.Zero)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	shipping, err := s.resolveShipping(ctx, input)
	if err != nil {
		return nil, err
	}

	var applied *AppliedCoupon
	if input.CouponCode != nil && *input.CouponCode != "" && s.coupons != nil {
		quoted, err := s.coupons.Quote(ctx, *input.CouponCode, userID, subtotal)
		if err != nil {
			return nil, err
		}
		if quoted != nil {
			discount = quoted.DiscountAmount
			if quoted.FreeShipping {
				shipping = money.Zero
			}
			applied = &AppliedCoupon{
				ID:             quoted.Coupon.ID,
				Code:           quoted.Coupon.Code,
				Type:           quoted.Coupon.Type.String(),
				DiscountAmount: quoted.DiscountAmount,
				FreeShipping:   quoted.FreeShipping,
			}
		}
	}

	total := money.FloorZero(subtotal.Sub(discount).Add(shipping).Add(tax))

	paymentMethod := DefaultPaymentMethod
	if input.PaymentMethod != nil && *input.PaymentMethod != "" {
		paymentMethod = *input.PaymentMethod
	}

	s.metrics.IncQuote()

	return &Quote{
		Items: quotedItems(priced),
		Summary: Summary{
			Subtotal:       money.RoundCents(subtotal),
			DiscountAmount: money.RoundCents(discount),
			ShippingAmount: money.RoundCents(shipping),
			TaxAmount:      money.RoundCents(tax),
			TotalAmount:    money.RoundCents(total),
		},
		ShippingAddressID: input.ShippingAddressID,
		BillingAddressID:  input.BillingAddressID,
		PaymentMethod:     paymentMethod,
		Coupon:            applied,
		FromCart:          fromCart,
	}, nil
}

// resolveItems maps the payload lines to pricing inputs, falling back to the
// persistent cart when the payload carries none.
func (s *service) resolveItems(ctx context.Context, userID uuid.UUID, inputs []ItemInput) ([]pricing.Item, bool, error) {
	if len(inputs) > 0 {
		items := make([]pricing.Item, 0, len(inputs))
		for _, in := range inputs {
			fallback, err := money.Resolve(in.Price, in.PriceCents)
			if err != nil {
				return nil, false, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			items = append(items, pricing.Item{
				ProductID:     in.ProductID,
				VariantID:     in.VariantID,
				Quantity:      in.Quantity,
				FallbackPrice: fallback,
			})
		}
		return items, false, nil
	}

	cartItems, err := s.cartRep.FindItemsByUser(ctx, userID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(cartItems) == 0 {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "No items to checkout")
	}

	items := make([]pricing.Item, 0, len(cartItems))
	for _, ci := range cartItems {
		items = append(items, pricing.Item{
			ProductID: ci.ProductID,
			VariantID: ci.VariantID,
			Quantity:  ci.Quantity,
		})
	}
	return items, true, nil
}

// resolveShipping prefers the client override, then the platform's cheapest
// rate for the shipping address, then zero. A rate lookup failure is logged
// and treated as zero rather than failing the quote.
func (s *service) resolveShipping(ctx context.Context, input QuoteInput) (money.Amount, error) {
	override, err := money.Resolve(input.ShippingAmount, input.ShippingAmountCents)
	if err != nil {
		var notFinite money.ErrNotFinite
		if errors.As(err, &notFinite) {
			return money.Zero, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		return money.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve shipping amount")
	}
	if override != nil {
		return *override, nil
	}

	if input.ShippingAddressID != nil && s.rpc != nil {
		rate, err := s.rpc.CheapestDeliveryOption(ctx, *input.ShippingAddressID)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "shipping_address_id", input.ShippingAddressID.String()), "delivery rate lookup failed, defaulting shipping to zero")
			}
			return money.Zero, nil
		}
		return rate, nil
	}

	return money.Zero, nil
}
