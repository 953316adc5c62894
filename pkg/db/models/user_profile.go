package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
	"github.com/forgefitlabs/forgefit-backend/pkg/types"
)

// UserProfile holds the fitness profile attached to an account. Goals,
// availability and preferences are open-shaped documents owned by the client.
type UserProfile struct {
	ID                  uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID          `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	DisplayName         string             `gorm:"column:display_name;not null"`
	Bio                 *string            `gorm:"column:bio"`
	AvatarURL           *string            `gorm:"column:avatar_url"`
	FitnessLevel        enums.FitnessLevel `gorm:"column:fitness_level;type:text;not null;default:'beginner'"`
	Goals               types.JSONSlice    `gorm:"column:goals;type:jsonb"`
	Availability        types.JSONMap      `gorm:"column:availability;type:jsonb"`
	Preferences         types.JSONMap      `gorm:"column:preferences;type:jsonb"`
	OnboardingCompleted bool               `gorm:"column:onboarding_completed;not null;default:false"`
	CreatedAt           time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
