package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/forgefitlabs/forgefit-backend/api/responses"
	couponssvc "github.com/forgefitlabs/forgefit-backend/internal/coupons"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/logger"
)

type couponResponse struct {
	ID              uuid.UUID  `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discount_percent"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

// CouponValidate checks whether a code is currently redeemable.
func CouponValidate(svc couponssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		coupon, err := svc.Validate(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, couponResponse{
			ID:              coupon.ID,
			Code:            coupon.Code,
			DiscountPercent: coupon.DiscountPercent,
			ExpiresAt:       coupon.ExpiresAt,
		})
	}
}
