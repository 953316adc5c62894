package customers

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
)

// Repository persists guest contact snapshots.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customer-info repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a clone bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create appends a new snapshot row. Snapshots are never updated in place;
// prefill reads the most recent one.
func (r *Repository) Create(ctx context.Context, info *models.CustomerInfo) error {
	info.Email = strings.ToLower(strings.TrimSpace(info.Email))
	return r.db.WithContext(ctx).Create(info).Error
}

// FindLatestByEmail returns the most recent snapshot for an email address.
func (r *Repository) FindLatestByEmail(ctx context.Context, email string) (*models.CustomerInfo, error) {
	var info models.CustomerInfo
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at DESC").
		First(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}
