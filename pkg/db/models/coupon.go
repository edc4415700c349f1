package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mercadia/mercadia-backend/pkg/enums"
)

// Coupon is a promotional rule, global or scoped to a vendor, brand, products
// or categories.
type Coupon struct {
	ID                    uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code                  string             `gorm:"column:code;uniqueIndex;not null"`
	Type                  enums.CouponType   `gorm:"column:type;not null"`
	Value                 decimal.Decimal    `gorm:"column:value;type:numeric(12,2);not null"`
	MaximumDiscountAmount *decimal.Decimal   `gorm:"column:maximum_discount_amount;type:numeric(12,2)"`
	MinimumOrderAmount    decimal.Decimal    `gorm:"column:minimum_order_amount;type:numeric(12,2);not null;default:0"`
	UsageLimit            *int               `gorm:"column:usage_limit"`
	UsageLimitPerUser     *int               `gorm:"column:usage_limit_per_user"`
	UsedCount             int                `gorm:"column:used_count;not null;default:0"`
	StartDate             *time.Time         `gorm:"column:start_date"`
	EndDate               *time.Time         `gorm:"column:end_date"`
	IsActive              bool               `gorm:"column:is_active;not null;default:true"`
	Status                enums.CouponStatus `gorm:"column:status;not null;default:'active'"`
	VendorID              *uuid.UUID         `gorm:"column:vendor_id;type:uuid"`
	BrandID               *uuid.UUID         `gorm:"column:brand_id;type:uuid"`
	ProductIDs            pq.StringArray     `gorm:"column:product_ids;type:text[]"`
	CategoryIDs           pq.StringArray     `gorm:"column:category_ids;type:text[]"`
	CreatedAt             time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// CouponUsage is one redemption of a coupon by a user, optionally tied to the
// order it discounted. Per-user limits count these rows.
type CouponUsage struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CouponID       uuid.UUID       `gorm:"column:coupon_id;type:uuid;not null;index"`
	UserID         uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID        *uuid.UUID      `gorm:"column:order_id;type:uuid"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(12,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the historical table name used by the platform triggers.
func (CouponUsage) TableName() string {
	return "discount_usages"
}
