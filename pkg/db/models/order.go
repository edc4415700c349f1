package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercadia/mercadia-backend/pkg/enums"
)

// Order is the customer order header. Monetary columns hold decimal units;
// total_amount = subtotal - discount_amount + shipping_amount + tax_amount,
// floored at zero.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	OrderNumber       string            `gorm:"column:order_number;uniqueIndex;not null"`
	Status            enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Subtotal          decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountAmount    decimal.Decimal   `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	ShippingAmount    decimal.Decimal   `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	TaxAmount         decimal.Decimal   `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	TotalAmount       decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CouponCode        *string           `gorm:"column:coupon_code"`
	ShippingAddressID *uuid.UUID        `gorm:"column:shipping_address_id;type:uuid"`
	BillingAddressID  *uuid.UUID        `gorm:"column:billing_address_id;type:uuid"`
	Notes             *string           `gorm:"column:notes"`
	Items             []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments          []Payment         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Deliveries        []Delivery        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a priced line of an order.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantID   *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	ProductName string          `gorm:"column:product_name;not null"`
	SKU         string          `gorm:"column:sku;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
