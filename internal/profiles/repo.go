package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
)

// Repository persists fitness profiles and measurement history.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a clone bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByUserID loads the user's profile.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert writes the profile keyed on user_id; there is at most one per user.
func (r *Repository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"display_name", "bio", "avatar_url", "fitness_level",
				"goals", "availability", "preferences", "onboarding_completed",
			}),
		}).
		Create(profile).Error
}

// SetOnboardingCompleted flips the onboarding flag.
func (r *Repository) SetOnboardingCompleted(ctx context.Context, userID uuid.UUID, completed bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("onboarding_completed", completed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateMeasurement appends one measurement entry.
func (r *Repository) CreateMeasurement(ctx context.Context, entry *models.UserMeasurement) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListMeasurements returns the user's measurements, most recent first.
func (r *Repository) ListMeasurements(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.UserMeasurement, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&models.UserMeasurement{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.UserMeasurement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("taken_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
