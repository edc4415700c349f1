package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the canonical vendor listing row.
type Product struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID   uuid.UUID        `gorm:"column:vendor_id;type:uuid;not null"`
	BrandID    *uuid.UUID       `gorm:"column:brand_id;type:uuid"`
	CategoryID *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	SKU        string           `gorm:"column:sku;not null"`
	Name       string           `gorm:"column:name;not null"`
	Price      *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	SalePrice  *decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2)"`
	IsActive   bool             `gorm:"column:is_active;not null;default:true"`
	Variants   []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
