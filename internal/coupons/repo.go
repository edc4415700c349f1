package coupons

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercadia/mercadia-backend/pkg/db/models"
)

// ListScope narrows the coupon listing to a storefront context.
type ListScope struct {
	VendorID   *uuid.UUID
	ProductID  *uuid.UUID
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
}

// Repository owns coupon and redemption-log persistence.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	ListActive(ctx context.Context, scope ListScope, now time.Time) ([]models.Coupon, error)
	CountUsagesByUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error)
	CreateUsage(ctx context.Context, usage *models.CouponUsage) (*models.CouponUsage, error)
	IncrementUsedCount(ctx context.Context, couponID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a coupon repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *repository) ListActive(ctx context.Context, scope ListScope, now time.Time) ([]models.Coupon, error) {
	q := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("status = ?", "active").
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Where("usage_limit IS NULL OR used_count < usage_limit")

	if scope.VendorID != nil {
		q = q.Where("vendor_id IS NULL OR vendor_id = ?", *scope.VendorID)
	}
	if scope.BrandID != nil {
		q = q.Where("brand_id IS NULL OR brand_id = ?", *scope.BrandID)
	}
	if scope.ProductID != nil {
		q = q.Where("product_ids IS NULL OR cardinality(product_ids) = 0 OR ? = ANY(product_ids)", scope.ProductID.String())
	}
	if scope.CategoryID != nil {
		q = q.Where("category_ids IS NULL OR cardinality(category_ids) = 0 OR ? = ANY(category_ids)", scope.CategoryID.String())
	}

	var coupons []models.Coupon
	if err := q.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *repository) CountUsagesByUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CreateUsage(ctx context.Context, usage *models.CouponUsage) (*models.CouponUsage, error) {
	if err := r.db.WithContext(ctx).Create(usage).Error; err != nil {
		return nil, err
	}
	return usage, nil
}

// IncrementUsedCount is the manual fallback used when the platform's
// increment function is unavailable.
func (r *repository) IncrementUsedCount(ctx context.Context, couponID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ?", couponID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}
