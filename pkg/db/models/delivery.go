package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercadia/mercadia-backend/pkg/enums"
)

// Delivery is the shipment stub written at order creation.
type Delivery struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	Status         enums.DeliveryStatus `gorm:"column:status;not null;default:'pending'"`
	TrackingNumber string               `gorm:"column:tracking_number;not null"`
	EstimatedAt    time.Time            `gorm:"column:estimated_at;not null"`
	DeliveredAt    *time.Time           `gorm:"column:delivered_at"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
