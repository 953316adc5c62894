package customers

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/logger"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.Exec(`CREATE TABLE IF NOT EXISTS customer_infos (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		phone TEXT,
		address_line1 TEXT,
		address_line2 TEXT,
		city TEXT,
		state TEXT,
		postal_code TEXT,
		country TEXT,
		created_at DATETIME
	)`).Error)

	t.Cleanup(func() {
		gdb.Exec("DELETE FROM customer_infos")
	})

	return gdb
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestSaverPersistsSnapshot(t *testing.T) {
	gdb := setupCustomersTestDB(t)
	repo := NewRepository(gdb)

	saver := NewSaver(repo, quietLogger(), 4)
	saver.Start()

	svc, err := NewService(repo, saver)
	require.NoError(t, err)

	svc.EnqueueSnapshot(SnapshotInput{
		Email:     "Guest@ForgeFit.io",
		FirstName: "Sam",
		LastName:  "Rower",
	})
	saver.Close()

	info, err := svc.Prefill(context.Background(), "guest@forgefit.io")
	require.NoError(t, err)
	assert.Equal(t, "guest@forgefit.io", info.Email)
	assert.Equal(t, "Sam", info.FirstName)
}

func TestPrefillReturnsMostRecent(t *testing.T) {
	gdb := setupCustomersTestDB(t)
	repo := NewRepository(gdb)

	older := models.CustomerInfo{
		ID: uuid.New(), Email: "sam@forgefit.io",
		FirstName: "Sam", LastName: "Rower",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	newer := models.CustomerInfo{
		ID: uuid.New(), Email: "sam@forgefit.io",
		FirstName: "Samantha", LastName: "Rower",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, gdb.Create(&older).Error)
	require.NoError(t, gdb.Create(&newer).Error)

	found, err := repo.FindLatestByEmail(context.Background(), "SAM@forgefit.io")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, found.ID)
}

func TestPrefillUnknownEmail(t *testing.T) {
	gdb := setupCustomersTestDB(t)
	saver := NewSaver(NewRepository(gdb), quietLogger(), 1)
	svc, err := NewService(NewRepository(gdb), saver)
	require.NoError(t, err)

	_, err = svc.Prefill(context.Background(), "nobody@forgefit.io")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

type failingCustomerRepo struct{}

func (failingCustomerRepo) Create(context.Context, *models.CustomerInfo) error {
	return errors.New("connection refused")
}

func (failingCustomerRepo) FindLatestByEmail(context.Context, string) (*models.CustomerInfo, error) {
	return nil, errors.New("connection refused")
}

func TestSaverReportsFailuresOnOwnChannel(t *testing.T) {
	t.Parallel()

	saver := NewSaver(failingCustomerRepo{}, quietLogger(), 4)
	saver.Start()

	require.True(t, saver.Enqueue(models.CustomerInfo{Email: "x@forgefit.io"}))
	saver.Close()

	select {
	case err := <-saver.Errors():
		assert.Error(t, err)
	default:
		t.Fatal("expected an error on the saver channel")
	}
}
