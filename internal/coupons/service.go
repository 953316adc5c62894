package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
)

// Service validates and redeems discount codes.
type Service interface {
	Validate(ctx context.Context, code string) (*models.Coupon, error)
	Redeem(ctx context.Context, id uuid.UUID) error
}

type couponRepository interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	Redeem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo couponRepository
	now  func() time.Time
}

// NewService builds a coupon service backed by the provided repository.
func NewService(repo couponRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Validate resolves a code and checks it is still usable. Exhaustion wins
// over expiry: a used-up coupon is rejected as a conflict even when it has
// no expiry set.
func (s *service) Validate(ctx context.Context, code string) (*models.Coupon, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find coupon")
	}

	if coupon.Uses >= coupon.MaxUses {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon is no longer available")
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon has expired")
	}
	return coupon, nil
}

// Redeem consumes one use. A concurrent exhaustion surfaces as a conflict.
func (s *service) Redeem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Redeem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeConflict, "coupon is no longer available")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem coupon")
	}
	return nil
}
