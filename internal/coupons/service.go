package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercadia/mercadia-backend/pkg/db/models"
	pkgerrors "github.com/mercadia/mercadia-backend/pkg/errors"
	"github.com/mercadia/mercadia-backend/pkg/logger"
	"github.com/mercadia/mercadia-backend/pkg/metrics"
	"github.com/mercadia/mercadia-backend/pkg/money"
	"github.com/mercadia/mercadia-backend/pkg/platform"
)

// Applied is a coupon accepted against an order amount.
type Applied struct {
	Coupon         *models.Coupon
	DiscountAmount money.Amount
	FreeShipping   bool
}

// Summary is one row of the public coupon listing.
type Summary struct {
	Coupon        models.Coupon
	RemainingUses *int
}

// RedeemInput records one redemption against an order.
type RedeemInput struct {
	CouponID       uuid.UUID
	UserID         uuid.UUID
	OrderID        *uuid.UUID
	DiscountAmount money.Amount
}

// Service exposes coupon validation, listing and redemption tracking.
type Service interface {
	// Quote validates a code for the checkout quote; every failure is
	// silent and yields no discount.
	Quote(ctx context.Context, code string, userID uuid.UUID, orderAmount money.Amount) (*Applied, error)
	// Redeem validates explicitly and records the redemption.
	Redeem(ctx context.Context, input RedeemInput) (*models.CouponUsage, error)
	// ListValid returns coupons the user can still redeem, with remaining
	// per-user uses.
	ListValid(ctx context.Context, userID uuid.UUID, scope ListScope) ([]Summary, error)
}

type service struct {
	repo    Repository
	rpc     platform.Functions
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
	now     func() time.Time
}

// NewService builds the coupon service.
func NewService(repo Repository, rpc platform.Functions, logg *logger.Logger, m *metrics.CheckoutMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{
		repo:    repo,
		rpc:     rpc,
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}, nil
}

func (s *service) Quote(ctx context.Context, code string, userID uuid.UUID, orderAmount money.Amount) (*Applied, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	userUsages, err := s.userUsages(ctx, coupon, userID)
	if err != nil {
		return nil, err
	}

	// The quote path does not gate on the global used_count; only the
	// redemption path enforces it.
	if reason := checkRules(coupon, orderAmount, userUsages, s.now(), false); reason != ReasonOK {
		return nil, nil
	}

	discount, freeShipping := computeDiscount(coupon, orderAmount)
	return &Applied{
		Coupon:         coupon,
		DiscountAmount: discount,
		FreeShipping:   freeShipping,
	}, nil
}

func (s *service) Redeem(ctx context.Context, input RedeemInput) (*models.CouponUsage, error) {
	if input.CouponID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon_id is required")
	}

	coupon, err := s.repo.FindByID(ctx, input.CouponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	userUsages, err := s.userUsages(ctx, coupon, input.UserID)
	if err != nil {
		return nil, err
	}

	// No order amount accompanies a redemption record, so the minimum-order
	// rule is treated as already satisfied by the order itself.
	if reason := checkRules(coupon, coupon.MinimumOrderAmount, userUsages, s.now(), true); reason != ReasonOK {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, string(reason))
	}

	usage := &models.CouponUsage{
		CouponID:       coupon.ID,
		UserID:         input.UserID,
		OrderID:        input.OrderID,
		DiscountAmount: money.RoundCents(input.DiscountAmount),
	}
	created, err := s.repo.CreateUsage(ctx, usage)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record coupon usage")
	}

	s.incrementUsedCount(ctx, coupon.ID)
	s.metrics.IncRedemption(coupon.Type.String())

	return created, nil
}

// incrementUsedCount bumps the global counter through the platform function,
// falling back to a direct update when the function call fails. Both paths
// are best-effort; the redemption row is already written.
func (s *service) incrementUsedCount(ctx context.Context, couponID uuid.UUID) {
	if s.rpc != nil {
		if err := s.rpc.IncrementCouponUsage(ctx, couponID); err == nil {
			return
		} else if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "coupon_id", couponID.String()), "increment_coupon_usage failed, falling back to direct update")
		}
	}
	if err := s.repo.IncrementUsedCount(ctx, couponID); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithField(ctx, "coupon_id", couponID.String()), "coupon used_count fallback update failed", err)
	}
}

func (s *service) ListValid(ctx context.Context, userID uuid.UUID, scope ListScope) ([]Summary, error) {
	coupons, err := s.repo.ListActive(ctx, scope, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}

	summaries := make([]Summary, 0, len(coupons))
	for _, coupon := range coupons {
		var remaining *int
		if coupon.UsageLimitPerUser != nil {
			used, err := s.repo.CountUsagesByUser(ctx, coupon.ID, userID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count coupon usage")
			}
			left := *coupon.UsageLimitPerUser - int(used)
			if left <= 0 {
				continue
			}
			remaining = &left
		}
		summaries = append(summaries, Summary{Coupon: coupon, RemainingUses: remaining})
	}
	return summaries, nil
}

func (s *service) userUsages(ctx context.Context, coupon *models.Coupon, userID uuid.UUID) (int64, error) {
	if coupon.UsageLimitPerUser == nil {
		return 0, nil
	}
	count, err := s.repo.CountUsagesByUser(ctx, coupon.ID, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count coupon usage")
	}
	return count, nil
}
