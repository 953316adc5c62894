package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/pagination"
	"github.com/forgefitlabs/forgefit-backend/pkg/types"
)

// UpdateProfileRequest is the writable profile surface. Goals, availability
// and preferences pass through as open-shaped documents.
type UpdateProfileRequest struct {
	DisplayName  string          `json:"display_name" validate:"required"`
	Bio          *string         `json:"bio"`
	AvatarURL    *string         `json:"avatar_url"`
	FitnessLevel string          `json:"fitness_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Goals        types.JSONSlice `json:"goals"`
	Availability types.JSONMap   `json:"availability"`
	Preferences  types.JSONMap   `json:"preferences"`
}

// MeasurementRequest is one dated measurement entry.
type MeasurementRequest struct {
	Height  *decimal.Decimal `json:"height"`
	Weight  *decimal.Decimal `json:"weight"`
	BodyFat *decimal.Decimal `json:"body_fat"`
	Chest   *decimal.Decimal `json:"chest"`
	Waist   *decimal.Decimal `json:"waist"`
	Hips    *decimal.Decimal `json:"hips"`
	Arms    *decimal.Decimal `json:"arms"`
	Thighs  *decimal.Decimal `json:"thighs"`
	TakenAt *time.Time       `json:"taken_at"`
	Notes   *string          `json:"notes"`
}

// Service exposes profile and measurement operations, all owner-scoped.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileView, error)
	CompleteOnboarding(ctx context.Context, userID uuid.UUID) error
	AddMeasurement(ctx context.Context, userID uuid.UUID, req MeasurementRequest) (*MeasurementView, error)
	ListMeasurements(ctx context.Context, userID uuid.UUID, page pagination.Params) (*types.Page, error)
}

type profileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	Upsert(ctx context.Context, profile *models.UserProfile) error
	SetOnboardingCompleted(ctx context.Context, userID uuid.UUID, completed bool) error
	CreateMeasurement(ctx context.Context, entry *models.UserMeasurement) error
	ListMeasurements(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.UserMeasurement, int64, error)
}

type service struct {
	repo profileRepository
}

// NewService builds a profile service backed by the provided repository.
func NewService(repo profileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find profile")
	}
	return profileView(profile), nil
}

// Update writes the profile through an upsert; the first update creates it.
func (s *service) Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileView, error) {
	level := enums.FitnessLevelBeginner
	if req.FitnessLevel != "" {
		parsed, err := enums.ParseFitnessLevel(req.FitnessLevel)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid fitness level")
		}
		level = parsed
	}

	profile := &models.UserProfile{
		ID:           uuid.New(),
		UserID:       userID,
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
		AvatarURL:    req.AvatarURL,
		FitnessLevel: level,
		Goals:        req.Goals,
		Availability: req.Availability,
		Preferences:  req.Preferences,
	}
	if existing, err := s.repo.FindByUserID(ctx, userID); err == nil {
		profile.OnboardingCompleted = existing.OnboardingCompleted
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return s.Get(ctx, userID)
}

func (s *service) CompleteOnboarding(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.SetOnboardingCompleted(ctx, userID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete onboarding")
	}
	return nil
}

func (s *service) AddMeasurement(ctx context.Context, userID uuid.UUID, req MeasurementRequest) (*MeasurementView, error) {
	takenAt := time.Now().UTC()
	if req.TakenAt != nil {
		takenAt = req.TakenAt.UTC()
	}

	entry := &models.UserMeasurement{
		ID:      uuid.New(),
		UserID:  userID,
		Height:  req.Height,
		Weight:  req.Weight,
		BodyFat: req.BodyFat,
		Chest:   req.Chest,
		Waist:   req.Waist,
		Hips:    req.Hips,
		Arms:    req.Arms,
		Thighs:  req.Thighs,
		TakenAt: takenAt,
		Notes:   req.Notes,
	}
	if err := s.repo.CreateMeasurement(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save measurement")
	}
	return measurementView(entry), nil
}

func (s *service) ListMeasurements(ctx context.Context, userID uuid.UUID, page pagination.Params) (*types.Page, error) {
	page = pagination.Normalize(page)
	entries, total, err := s.repo.ListMeasurements(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list measurements")
	}

	views := make([]MeasurementView, 0, len(entries))
	for i := range entries {
		views = append(views, *measurementView(&entries[i]))
	}
	return &types.Page{Items: views, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
