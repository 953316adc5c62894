package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a shared discount code. Valid while not expired and uses is
// below max_uses; uses is bumped atomically on redemption.
type Coupon struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code            string     `gorm:"column:code;not null;uniqueIndex"`
	DiscountPercent int        `gorm:"column:discount_percent;not null;default:0"`
	ExpiresAt       *time.Time `gorm:"column:expires_at"`
	MaxUses         int        `gorm:"column:max_uses;not null"`
	Uses            int        `gorm:"column:uses;not null;default:0"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
