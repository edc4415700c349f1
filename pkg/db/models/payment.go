package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercadia/mercadia-backend/pkg/enums"
)

// Payment is the stub written at order creation. Settlement and the
// commission calculation react to status changes via platform triggers.
type Payment struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Method    enums.PaymentMethod `gorm:"column:method;not null"`
	Status    enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	PaidAt    *time.Time          `gorm:"column:paid_at"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
