package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
	"github.com/forgefitlabs/forgefit-backend/pkg/types"
)

// Membership is a recurring subscription tier in the catalog.
type Membership struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string              `gorm:"column:name;not null"`
	Slug         string              `gorm:"column:slug;not null;uniqueIndex"`
	Description  *string             `gorm:"column:description"`
	PriceMonthly decimal.Decimal     `gorm:"column:price_monthly;type:numeric(10,2);not null"`
	PriceYearly  decimal.Decimal     `gorm:"column:price_yearly;type:numeric(10,2);not null"`
	Features     types.JSONSlice     `gorm:"column:features;type:jsonb"`
	Status       enums.CatalogStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
