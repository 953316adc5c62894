package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserMeasurement is one dated body-measurement entry on a profile.
type UserMeasurement struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Height    *decimal.Decimal `gorm:"column:height;type:numeric(6,2)"`
	Weight    *decimal.Decimal `gorm:"column:weight;type:numeric(6,2)"`
	BodyFat   *decimal.Decimal `gorm:"column:body_fat;type:numeric(5,2)"`
	Chest     *decimal.Decimal `gorm:"column:chest;type:numeric(6,2)"`
	Waist     *decimal.Decimal `gorm:"column:waist;type:numeric(6,2)"`
	Hips      *decimal.Decimal `gorm:"column:hips;type:numeric(6,2)"`
	Arms      *decimal.Decimal `gorm:"column:arms;type:numeric(6,2)"`
	Thighs    *decimal.Decimal `gorm:"column:thighs;type:numeric(6,2)"`
	TakenAt   time.Time        `gorm:"column:taken_at;not null"`
	Notes     *string          `gorm:"column:notes"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}
