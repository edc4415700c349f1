package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mercadia/mercadia-backend/api/responses"
	"github.com/mercadia/mercadia-backend/api/validators"
	"github.com/mercadia/mercadia-backend/internal/coupons"
	"github.com/mercadia/mercadia-backend/pkg/db/models"
	pkgerrors "github.com/mercadia/mercadia-backend/pkg/errors"
	"github.com/mercadia/mercadia-backend/pkg/logger"
	"github.com/mercadia/mercadia-backend/pkg/money"
)

type redeemCouponBody struct {
	CouponID            uuid.UUID  `json:"coupon_id" validate:"required"`
	OrderID             *uuid.UUID `json:"order_id,omitempty"`
	DiscountAmount      *float64   `json:"discount_amount,omitempty"`
	DiscountAmountCents *int64     `json:"discount_amount_cents,omitempty"`
}

type redeemCouponResponse struct {
	Usage *models.CouponUsage `json:"usage"`
}

type couponSummaryResponse struct {
	Coupon        models.Coupon `json:"coupon"`
	RemainingUses *int          `json:"remaining_uses,omitempty"`
}

type couponListResponse struct {
	Coupons []couponSummaryResponse `json:"coupons"`
}

// RedeemCoupon records a redemption against an order. Unlike the checkout
// quote, every validation failure here is surfaced explicitly.
func RedeemCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body redeemCouponBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := money.ResolveOr(body.DiscountAmount, body.DiscountAmountCents, money.Zero)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}

		usage, err := svc.Redeem(r.Context(), coupons.RedeemInput{
			CouponID:       body.CouponID,
			UserID:         userID,
			OrderID:        body.OrderID,
			DiscountAmount: discount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, redeemCouponResponse{Usage: usage})
	}
}

// ListCoupons returns the coupons the caller can currently redeem, scoped by
// optional vendor, product, category and brand filters.
func ListCoupons(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var scope coupons.ListScope
		if scope.VendorID, err = validators.QueryUUID(r, "vendor_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if scope.ProductID, err = validators.QueryUUID(r, "product_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if scope.CategoryID, err = validators.QueryUUID(r, "category_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if scope.BrandID, err = validators.QueryUUID(r, "brand_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summaries, err := svc.ListValid(r.Context(), userID, scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]couponSummaryResponse, 0, len(summaries))
		for _, s := range summaries {
			out = append(out, couponSummaryResponse{
				Coupon:        s.Coupon,
				RemainingUses: s.RemainingUses,
			})
		}
		responses.WriteSuccess(w, couponListResponse{Coupons: out})
	}
}
