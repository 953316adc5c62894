package orders

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
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			email TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			total NUMERIC NOT NULL,
			coupon_id TEXT,
			shipping_address TEXT,
			billing_address TEXT,
			metadata TEXT,
			stripe_session_id TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price NUMERIC NOT NULL,
			metadata TEXT,
			created_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		gdb.Exec("DELETE FROM order_items")
		gdb.Exec("DELETE FROM orders")
		gdb.Exec("DELETE FROM products")
	})

	return gdb
}

func seedOrder(t *testing.T, gdb *gorm.DB, userID uuid.UUID, total string, createdAt time.Time) models.Order {
	t.Helper()
	order := models.Order{
		ID:        uuid.New(),
		UserID:    &userID,
		Email:     "buyer@forgefit.io",
		Status:    enums.OrderStatusPending,
		Total:     decimal.RequireFromString(total),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, gdb.Create(&order).Error)
	return order
}

func TestOrderTotalFromSnapshotLines(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	repo := NewRepository(gdb)
	userID := uuid.New()

	shirt := models.Product{ID: uuid.New(), Name: "training tee", Slug: "training-tee",
		Price: decimal.RequireFromString("10.00"), Status: enums.CatalogStatusActive}
	bottle := models.Product{ID: uuid.New(), Name: "steel bottle", Slug: "steel-bottle",
		Price: decimal.RequireFromString("5.00"), Status: enums.CatalogStatusActive}
	require.NoError(t, gdb.Create(&shirt).Error)
	require.NoError(t, gdb.Create(&bottle).Error)

	lines := []models.OrderItem{
		{ProductID: shirt.ID, Quantity: 2, Price: shirt.Price},
		{ProductID: bottle.ID, Quantity: 1, Price: bottle.Price},
	}
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	assert.Equal(t, "25.00", total.StringFixed(2))

	order := models.Order{ID: uuid.New(), UserID: &userID, Email: "buyer@forgefit.io",
		Status: enums.OrderStatusPending, Total: total}
	require.NoError(t, repo.Create(context.Background(), &order))
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].OrderID = order.ID
	}
	require.NoError(t, repo.CreateItems(context.Background(), lines))

	loaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", loaded.Total.StringFixed(2))
	require.Len(t, loaded.Items, 2)
	require.NotNil(t, loaded.Items[0].Product)
}

func TestListByUserMostRecentFirst(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	repo := NewRepository(gdb)
	userID := uuid.New()

	base := time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)
	older := seedOrder(t, gdb, userID, "10.00", base)
	newer := seedOrder(t, gdb, userID, "20.00", base.Add(time.Hour))
	seedOrder(t, gdb, uuid.New(), "99.00", base.Add(2*time.Hour))

	orders, total, err := repo.ListByUser(context.Background(), userID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestGetScopedToOwner(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)

	owner := uuid.New()
	order := seedOrder(t, gdb, owner, "42.00", time.Now().UTC())

	view, err := svc.Get(context.Background(), owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, view.ID)
	assert.Equal(t, "42.00", view.Total)

	// Another user's read must not leak existence.
	_, err = svc.Get(context.Background(), uuid.New(), order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetGuestOrderNeverResolvesForUsers(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)

	guest := models.Order{
		ID:     uuid.New(),
		Email:  "guest@forgefit.io",
		Status: enums.OrderStatusPending,
		Total:  decimal.RequireFromString("15.00"),
	}
	require.NoError(t, gdb.Create(&guest).Error)

	_, err = svc.Get(context.Background(), uuid.New(), guest.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListPaginates(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)

	userID := uuid.New()
	base := time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedOrder(t, gdb, userID, "10.00", base.Add(time.Duration(i)*time.Minute))
	}

	page, err := svc.List(context.Background(), userID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Items.([]View), 2)
}
