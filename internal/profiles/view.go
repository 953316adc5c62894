package profiles

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
	"github.com/forgefitlabs/forgefit-backend/pkg/types"
)

// ProfileView is the API shape of a fitness profile.
type ProfileView struct {
	ID                  uuid.UUID          `json:"id"`
	UserID              uuid.UUID          `json:"user_id"`
	DisplayName         string             `json:"display_name"`
	Bio                 *string            `json:"bio,omitempty"`
	AvatarURL           *string            `json:"avatar_url,omitempty"`
	FitnessLevel        enums.FitnessLevel `json:"fitness_level"`
	Goals               types.JSONSlice    `json:"goals,omitempty"`
	Availability        types.JSONMap      `json:"availability,omitempty"`
	Preferences         types.JSONMap      `json:"preferences,omitempty"`
	OnboardingCompleted bool               `json:"onboarding_completed"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// MeasurementView is the API shape of one measurement entry.
type MeasurementView struct {
	ID      uuid.UUID        `json:"id"`
	Height  *decimal.Decimal `json:"height,omitempty"`
	Weight  *decimal.Decimal `json:"weight,omitempty"`
	BodyFat *decimal.Decimal `json:"body_fat,omitempty"`
	Chest   *decimal.Decimal `json:"chest,omitempty"`
	Waist   *decimal.Decimal `json:"waist,omitempty"`
	Hips    *decimal.Decimal `json:"hips,omitempty"`
	Arms    *decimal.Decimal `json:"arms,omitempty"`
	Thighs  *decimal.Decimal `json:"thighs,omitempty"`
	TakenAt time.Time        `json:"taken_at"`
	Notes   *string          `json:"notes,omitempty"`
}

func profileView(p *models.UserProfile) *ProfileView {
	return &ProfileView{
		ID:                  p.ID,
		UserID:              p.UserID,
		DisplayName:         p.DisplayName,
		Bio:                 p.Bio,
		AvatarURL:           p.AvatarURL,
		FitnessLevel:        p.FitnessLevel,
		Goals:               p.Goals,
		Availability:        p.Availability,
		Preferences:         p.Preferences,
		OnboardingCompleted: p.OnboardingCompleted,
		UpdatedAt:           p.UpdatedAt,
	}
}

func measurementView(m *models.UserMeasurement) *MeasurementView {
	return &MeasurementView{
		ID:      m.ID,
		Height:  m.Height,
		Weight:  m.Weight,
		BodyFat: m.BodyFat,
		Chest:   m.Chest,
		Waist:   m.Waist,
		Hips:    m.Hips,
		Arms:    m.Arms,
		Thighs:  m.Thighs,
		TakenAt: m.TakenAt,
		Notes:   m.Notes,
	}
}
