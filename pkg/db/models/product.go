package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
)

// Product is a physical catalog item (apparel, equipment, supplements).
type Product struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Slug        string              `gorm:"column:slug;not null;uniqueIndex"`
	Description *string             `gorm:"column:description"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL    *string             `gorm:"column:image_url"`
	Category    *string             `gorm:"column:category"`
	Status      enums.CatalogStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
