package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
)

// Service exposes read-only catalog operations.
type Service interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListMemberships(ctx context.Context) ([]models.Membership, error)
	GetMembershipBySlug(ctx context.Context, slug string) (*models.Membership, error)
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgramBySlug(ctx context.Context, slug string) (*models.Program, error)
	ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

type catalogRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	ListMemberships(ctx context.Context) ([]models.Membership, error)
	FindMembershipBySlug(ctx context.Context, slug string) (*models.Membership, error)
	ListPrograms(ctx context.Context) ([]models.Program, error)
	FindProgramBySlug(ctx context.Context, slug string) (*models.Program, error)
}

type service struct {
	repo catalogRepository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find product")
	}
	return product, nil
}

func (s *service) ListMemberships(ctx context.Context) ([]models.Membership, error) {
	memberships, err := s.repo.ListMemberships(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list memberships")
	}
	return memberships, nil
}

func (s *service) GetMembershipBySlug(ctx context.Context, slug string) (*models.Membership, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	membership, err := s.repo.FindMembershipBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find membership")
	}
	return membership, nil
}

func (s *service) ListPrograms(ctx context.Context) ([]models.Program, error) {
	programs, err := s.repo.ListPrograms(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list programs")
	}
	return programs, nil
}

func (s *service) GetProgramBySlug(ctx context.Context, slug string) (*models.Program, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	program, err := s.repo.FindProgramBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "program not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find program")
	}
	return program, nil
}

// ResolveProducts loads catalog rows keyed by id. Callers use this to price
// cart lines from the catalog instead of trusting client-submitted prices.
func (s *service) ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	products, err := s.repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve products")
	}
	resolved := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		resolved[product.ID] = product
	}
	return resolved, nil
}
