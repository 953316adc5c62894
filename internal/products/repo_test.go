package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT,
			price NUMERIC NOT NULL,
			image_url TEXT,
			category TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS memberships (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT,
			price_monthly NUMERIC NOT NULL,
			price_yearly NUMERIC NOT NULL,
			features TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS programs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT,
			price NUMERIC NOT NULL,
			duration_weeks INTEGER NOT NULL DEFAULT 0,
			level TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		gdb.Exec("DELETE FROM products")
		gdb.Exec("DELETE FROM memberships")
		gdb.Exec("DELETE FROM programs")
	})

	return gdb
}

func seedProduct(t *testing.T, gdb *gorm.DB, slug string, price string, status enums.CatalogStatus, createdAt time.Time) models.Product {
	t.Helper()
	product := models.Product{
		ID:        uuid.New(),
		Name:      slug,
		Slug:      slug,
		Price:     decimal.RequireFromString(price),
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, gdb.Create(&product).Error)
	return product
}

func TestListProductsActiveNewestFirst(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	repo := NewRepository(gdb)

	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	old := seedProduct(t, gdb, "lifting-belt", "39.99", enums.CatalogStatusActive, base)
	seedProduct(t, gdb, "draft-hoodie", "59.99", enums.CatalogStatusDraft, base.Add(time.Hour))
	newest := seedProduct(t, gdb, "shaker-bottle", "12.50", enums.CatalogStatusActive, base.Add(2*time.Hour))

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, newest.ID, products[0].ID)
	assert.Equal(t, old.ID, products[1].ID)
}

func TestFindProductBySlug(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	repo := NewRepository(gdb)

	seeded := seedProduct(t, gdb, "resistance-bands", "24.00", enums.CatalogStatusActive, time.Now().UTC())

	found, err := repo.FindProductBySlug(context.Background(), "resistance-bands")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.True(t, seeded.Price.Equal(found.Price))

	_, err = repo.FindProductBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindProductsByIDs(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	repo := NewRepository(gdb)

	a := seedProduct(t, gdb, "wrist-wraps", "18.00", enums.CatalogStatusActive, time.Now().UTC())
	b := seedProduct(t, gdb, "chalk-block", "6.00", enums.CatalogStatusActive, time.Now().UTC())

	found, err := repo.FindProductsByIDs(context.Background(), []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	none, err := repo.FindProductsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListMembershipsOrderedByMonthlyPrice(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	repo := NewRepository(gdb)

	seed := func(slug, monthly string, status enums.CatalogStatus) models.Membership {
		m := models.Membership{
			ID:           uuid.New(),
			Name:         slug,
			Slug:         slug,
			PriceMonthly: decimal.RequireFromString(monthly),
			PriceYearly:  decimal.RequireFromString(monthly).Mul(decimal.NewFromInt(10)),
			Status:       status,
		}
		require.NoError(t, gdb.Create(&m).Error)
		return m
	}

	elite := seed("elite", "49.99", enums.CatalogStatusActive)
	starter := seed("starter", "19.99", enums.CatalogStatusActive)
	seed("legacy", "9.99", enums.CatalogStatusArchived)

	memberships, err := repo.ListMemberships(context.Background())
	require.NoError(t, err)
	require.Len(t, memberships, 2)
	assert.Equal(t, starter.ID, memberships[0].ID)
	assert.Equal(t, elite.ID, memberships[1].ID)
}

func TestListProgramsOrderedByPrice(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	repo := NewRepository(gdb)

	level := enums.FitnessLevelBeginner
	cheap := models.Program{
		ID:            uuid.New(),
		Name:          "Couch to Barbell",
		Slug:          "couch-to-barbell",
		Price:         decimal.RequireFromString("29.00"),
		DurationWeeks: 8,
		Level:         &level,
		Status:        enums.CatalogStatusActive,
	}
	dear := models.Program{
		ID:            uuid.New(),
		Name:          "Powerbuilding 12",
		Slug:          "powerbuilding-12",
		Price:         decimal.RequireFromString("89.00"),
		DurationWeeks: 12,
		Status:        enums.CatalogStatusActive,
	}
	require.NoError(t, gdb.Create(&dear).Error)
	require.NoError(t, gdb.Create(&cheap).Error)

	programs, err := repo.ListPrograms(context.Background())
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, cheap.ID, programs[0].ID)

	found, err := repo.FindProgramBySlug(context.Background(), "powerbuilding-12")
	require.NoError(t, err)
	assert.Equal(t, dear.ID, found.ID)
}
