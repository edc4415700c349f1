package coupons

import (
	"time"

	"github.com/mercadia/mercadia-backend/pkg/db/models"
	"github.com/mercadia/mercadia-backend/pkg/enums"
	"github.com/mercadia/mercadia-backend/pkg/money"
)

// Reason classifies why a coupon failed validation. The quote path treats
// every non-OK reason as "no discount"; the redemption path surfaces it.
type Reason string

const (
	ReasonOK               Reason = ""
	ReasonInactive         Reason = "Coupon is not active"
	ReasonNotStarted       Reason = "Coupon is not yet valid"
	ReasonExpired          Reason = "Coupon has expired"
	ReasonMinimumNotMet    Reason = "Minimum order amount not met"
	ReasonUserLimitReached Reason = "Coupon usage limit reached for this user"
	ReasonLimitReached     Reason = "Coupon usage limit reached"
)

// checkRules evaluates every stateless rule plus the usage counters already
// loaded by the caller. The global used_count gate applies only on the
// redemption path.
func checkRules(coupon *models.Coupon, orderAmount money.Amount, userUsages int64, now time.Time, enforceGlobalLimit bool) Reason {
	if !coupon.IsActive || coupon.Status != enums.CouponStatusActive {
		return ReasonInactive
	}
	if coupon.StartDate != nil && now.Before(*coupon.StartDate) {
		return ReasonNotStarted
	}
	if coupon.EndDate != nil && now.After(*coupon.EndDate) {
		return ReasonExpired
	}
	if orderAmount.LessThan(coupon.MinimumOrderAmount) {
		return ReasonMinimumNotMet
	}
	if coupon.UsageLimitPerUser != nil && userUsages >= int64(*coupon.UsageLimitPerUser) {
		return ReasonUserLimitReached
	}
	if enforceGlobalLimit && coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return ReasonLimitReached
	}
	return ReasonOK
}

// computeDiscount derives the discount for a validated coupon. Percentage
// discounts honor the optional cap and never exceed the order amount;
// fixed discounts are capped at the order amount; free shipping carries no
// direct discount, the caller waives the shipping line instead.
func computeDiscount(coupon *models.Coupon, orderAmount money.Amount) (discount money.Amount, freeShipping bool) {
	switch coupon.Type {
	case enums.CouponTypePercentage:
		discount = orderAmount.Mul(coupon.Value).Div(money.Hundred)
		if coupon.MaximumDiscountAmount != nil && discount.GreaterThan(*coupon.MaximumDiscountAmount) {
			discount = *coupon.MaximumDiscountAmount
		}
		if discount.GreaterThan(orderAmount) {
			discount = orderAmount
		}
	case enums.CouponTypeFixedAmount:
		discount = coupon.Value
		if discount.GreaterThan(orderAmount) {
			discount = orderAmount
		}
	case enums.CouponTypeFreeShipping:
		discount = money.Zero
		freeShipping = true
	default:
		discount = money.Zero
	}
	return money.RoundCents(discount), freeShipping
}
