package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerInfo is a best-effort contact snapshot saved when a guest opts in
// during checkout. Used only to prefill later checkouts by email.
type CustomerInfo struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"column:email;not null;index"`
	FirstName    string    `gorm:"column:first_name;not null"`
	LastName     string    `gorm:"column:last_name;not null"`
	Phone        *string   `gorm:"column:phone"`
	AddressLine1 *string   `gorm:"column:address_line1"`
	AddressLine2 *string   `gorm:"column:address_line2"`
	City         *string   `gorm:"column:city"`
	State        *string   `gorm:"column:state"`
	PostalCode   *string   `gorm:"column:postal_code"`
	Country      *string   `gorm:"column:country"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
