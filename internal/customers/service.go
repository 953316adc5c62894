package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
)

// SnapshotInput is the opted-in contact payload collected at checkout.
type SnapshotInput struct {
	Email        string  `json:"email" validate:"required,email"`
	FirstName    string  `json:"first_name" validate:"required"`
	LastName     string  `json:"last_name" validate:"required"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`
}

func (in SnapshotInput) toModel() models.CustomerInfo {
	return models.CustomerInfo{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		PostalCode:   in.PostalCode,
		Country:      in.Country,
	}
}

// Service exposes guest contact snapshots: async save, prefill read.
type Service interface {
	EnqueueSnapshot(input SnapshotInput)
	Prefill(ctx context.Context, email string) (*models.CustomerInfo, error)
}

type customerRepository interface {
	Create(ctx context.Context, info *models.CustomerInfo) error
	FindLatestByEmail(ctx context.Context, email string) (*models.CustomerInfo, error)
}

type service struct {
	repo  customerRepository
	saver *Saver
}

// NewService builds a customer-info service around the repo and async saver.
func NewService(repo customerRepository, saver *Saver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if saver == nil {
		return nil, fmt.Errorf("customer saver required")
	}
	return &service{repo: repo, saver: saver}, nil
}

// EnqueueSnapshot hands the snapshot to the async saver and returns
// immediately. Checkout never waits on this write.
func (s *service) EnqueueSnapshot(input SnapshotInput) {
	s.saver.Enqueue(input.toModel())
}

// Prefill returns the most recent snapshot for the email, for address prefill.
func (s *service) Prefill(ctx context.Context, email string) (*models.CustomerInfo, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	info, err := s.repo.FindLatestByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no saved customer info")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find customer info")
	}
	return info, nil
}
