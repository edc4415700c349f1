package checkout

import (
	"github.com/google/uuid"

	"github.com/mercadia/mercadia-backend/internal/pricing"
	"github.com/mercadia/mercadia-backend/pkg/money"
)

// ItemInput is one requested line as sent by the client. Price is an
// optional fallback used only when the catalog is silent, in either units
// or cents.
type ItemInput struct {
	ProductID  uuid.UUID  `json:"product_id"`
	VariantID  *uuid.UUID `json:"variant_id,omitempty"`
	Quantity   int        `json:"quantity"`
	Price      *float64   `json:"price,omitempty"`
	PriceCents *int64     `json:"price_cents,omitempty"`
}

// QuoteInput is the checkout payload. Every monetary override accepts both
// encodings; cents win when both are present. Omitted items fall back to the
// customer's persistent cart.
type QuoteInput struct {
	Items             []ItemInput `json:"items,omitempty"`
	ShippingAddressID *uuid.UUID  `json:"shipping_address_id,omitempty"`
	BillingAddressID  *uuid.UUID  `json:"billing_address_id,omitempty"`
	CouponCode        *string     `json:"coupon_code,omitempty"`
	PaymentMethod     *string     `json:"payment_method,omitempty"`

	Subtotal            *float64 `json:"subtotal,omitempty"`
	SubtotalCents       *int64   `json:"subtotal_cents,omitempty"`
	DiscountAmount      *float64 `json:"discount_amount,omitempty"`
	DiscountAmountCents *int64   `json:"discount_amount_cents,omitempty"`
	ShippingAmount      *float64 `json:"shipping_amount,omitempty"`
	ShippingAmountCents *int64   `json:"shipping_amount_cents,omitempty"`
	TaxAmount           *float64 `json:"tax_amount,omitempty"`
	TaxAmountCents      *int64   `json:"tax_amount_cents,omitempty"`
	TotalAmount         *float64 `json:"total_amount,omitempty"`
	TotalAmountCents    *int64   `json:"total_amount_cents,omitempty"`
}

// QuotedItem is one priced line of the quote response.
type QuotedItem struct {
	ProductID   uuid.UUID    `json:"product_id"`
	VariantID   *uuid.UUID   `json:"variant_id,omitempty"`
	ProductName string       `json:"product_name"`
	SKU         string       `json:"sku"`
	Quantity    int          `json:"quantity"`
	UnitPrice   money.Amount `json:"unit_price"`
	LineTotal   money.Amount `json:"line_total"`
}

// Summary is the monetary breakdown of a quote.
type Summary struct {
	Subtotal       money.Amount `json:"subtotal"`
	DiscountAmount money.Amount `json:"discount_amount"`
	ShippingAmount money.Amount `json:"shipping_amount"`
	TaxAmount      money.Amount `json:"tax_amount"`
	TotalAmount    money.Amount `json:"total_amount"`
}

// AppliedCoupon describes the coupon accepted against the quote, if any.
type AppliedCoupon struct {
	ID             uuid.UUID    `json:"id"`
	Code           string       `json:"code"`
	Type           string       `json:"type"`
	DiscountAmount money.Amount `json:"discount_amount"`
	FreeShipping   bool         `json:"free_shipping"`
}

// Quote is the full checkout quote.
type Quote struct {
	Items             []QuotedItem   `json:"items"`
	Summary           Summary        `json:"summary"`
	ShippingAddressID *uuid.UUID     `json:"shipping_address_id,omitempty"`
	BillingAddressID  *uuid.UUID     `json:"billing_address_id,omitempty"`
	PaymentMethod     string         `json:"payment_method"`
	Coupon            *AppliedCoupon `json:"coupon,omitempty"`

	// FromCart reports that the lines came from the persistent cart rather
	// than the request body.
	FromCart bool `json:"-"`
}

func quotedItems(priced []pricing.PricedItem) []QuotedItem {
	items := make([]QuotedItem, 0, len(priced))
	for _, p := range priced {
		items = append(items, QuotedItem{
			ProductID:   p.ProductID,
			VariantID:   p.VariantID,
			ProductName: p.ProductName,
			SKU:         p.SKU,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			LineTotal:   p.LineTotal,
		})
	}
	return items
}
