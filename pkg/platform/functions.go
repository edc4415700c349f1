// Package platform invokes named server-side database functions. The
// functions themselves are owned by the hosted platform; this service only
// calls them and shapes their results.
package platform

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Functions is the RPC surface exposed by the datastore.
type Functions interface {
	// IncrementCouponUsage bumps a coupon's global used_count.
	IncrementCouponUsage(ctx context.Context, couponID uuid.UUID) error
	// CheapestDeliveryOption returns the lowest delivery rate for an address.
	CheapestDeliveryOption(ctx context.Context, addressID uuid.UUID) (decimal.Decimal, error)
	// CalculateOrderCommissions computes the platform's cut for an order.
	CalculateOrderCommissions(ctx context.Context, orderID uuid.UUID) error
}

type functions struct {
	db *gorm.DB
}

// New binds the RPC surface to a database connection.
func New(db *gorm.DB) Functions {
	return &functions{db: db}
}

func (f *functions) IncrementCouponUsage(ctx context.Context, couponID uuid.UUID) error {
	err := f.db.WithContext(ctx).Exec("SELECT increment_coupon_usage(?)", couponID).Error
	if err != nil {
		return fmt.Errorf("increment_coupon_usage: %w", err)
	}
	return nil
}

func (f *functions) CheapestDeliveryOption(ctx context.Context, addressID uuid.UUID) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := f.db.WithContext(ctx).
		Raw("SELECT get_cheapest_delivery_option(?)", addressID).
		Scan(&rate).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("get_cheapest_delivery_option: %w", err)
	}
	return rate, nil
}

func (f *functions) CalculateOrderCommissions(ctx context.Context, orderID uuid.UUID) error {
	err := f.db.WithContext(ctx).Exec("SELECT calculate_order_commissions(?)", orderID).Error
	if err != nil {
		return fmt.Errorf("calculate_order_commissions: %w", err)
	}
	return nil
}
