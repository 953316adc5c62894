package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
)

// Repository exposes catalog persistence operations across products,
// memberships, and programs.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a clone bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListProducts returns active products, newest first.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.CatalogStatusActive).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindProductBySlug loads a single product by its slug.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductsByIDs loads the products matching the provided ids.
func (r *Repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListMemberships returns active memberships ordered by monthly price.
func (r *Repository) ListMemberships(ctx context.Context) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.CatalogStatusActive).
		Order("price_monthly ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// FindMembershipBySlug loads a single membership by its slug.
func (r *Repository) FindMembershipBySlug(ctx context.Context, slug string) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListPrograms returns active programs ordered by price.
func (r *Repository) ListPrograms(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.CatalogStatusActive).
		Order("price ASC").
		Find(&programs).Error
	if err != nil {
		return nil, err
	}
	return programs, nil
}

// FindProgramBySlug loads a single program by its slug.
func (r *Repository) FindProgramBySlug(ctx context.Context, slug string) (*models.Program, error) {
	var program models.Program
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&program).Error; err != nil {
		return nil, err
	}
	return &program, nil
}
