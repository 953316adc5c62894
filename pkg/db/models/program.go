package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
)

// Program is a one-time-purchase training program in the catalog.
type Program struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Slug          string              `gorm:"column:slug;not null;uniqueIndex"`
	Description   *string             `gorm:"column:description"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	DurationWeeks int                 `gorm:"column:duration_weeks;not null;default:0"`
	Level         *enums.FitnessLevel `gorm:"column:level;type:text"`
	Status        enums.CatalogStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
