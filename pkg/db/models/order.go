package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
	"github.com/forgefitlabs/forgefit-backend/pkg/types"
)

// Order is the immutable snapshot written at checkout. Total is the sum of
// line price times quantity captured at order time. UserID is nil for guest
// orders; Email is the settlement contact either way.
type Order struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          *uuid.UUID        `gorm:"column:user_id;type:uuid;index"`
	Email           string            `gorm:"column:email;type:text;not null"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	CouponID        *uuid.UUID        `gorm:"column:coupon_id;type:uuid"`
	ShippingAddress types.JSONMap     `gorm:"column:shipping_address;type:jsonb"`
	BillingAddress  types.JSONMap     `gorm:"column:billing_address;type:jsonb"`
	Metadata        types.JSONMap     `gorm:"column:metadata;type:jsonb"`
	StripeSessionID *string           `gorm:"column:stripe_session_id"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
