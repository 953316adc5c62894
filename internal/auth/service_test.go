package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forgefitlabs/forgefit-backend/pkg/config"
	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
	pkgerrors "github.com/forgefitlabs/forgefit-backend/pkg/errors"
	"github.com/forgefitlabs/forgefit-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
	logins  int
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(context.Context, uuid.UUID, time.Time) error {
	f.logins++
	return nil
}

type fakeSessionManager struct {
	generated map[string]string
	revoked   []string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{generated: map[string]string{}}
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.generated[accessID] = token
	return token, nil
}

func (f *fakeSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	newID := uuid.NewString()
	token := "refresh-" + newID
	delete(f.generated, oldAccessID)
	f.generated[newID] = token
	return newID, token, nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	delete(f.generated, accessID)
	return nil
}

func testUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16,
	})
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Jo",
		LastName:     "Lifter",
		Role:         enums.UserRoleUser,
		IsActive:     true,
	}
}

func newTestService(t *testing.T, repo *fakeUserRepo, sessions *fakeSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "forgefit-test",
			ExpirationMinutes: 15,
		},
	})
	require.NoError(t, err)
	return svc
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	user := testUser(t, "jo@forgefit.io", "hunter2hunter2")
	repo := &fakeUserRepo{
		byEmail: map[string]*models.User{user.Email: user},
		byID:    map[uuid.UUID]*models.User{user.ID: user},
	}
	sessions := newFakeSessionManager()
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Jo@ForgeFit.io", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, 1, repo.logins)
	assert.Len(t, sessions.generated, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	user := testUser(t, "jo@forgefit.io", "hunter2hunter2")
	repo := &fakeUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, repo, newFakeSessionManager())

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Zero(t, repo.logins)
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()

	repo := &fakeUserRepo{byEmail: map[string]*models.User{}}
	svc := newTestService(t, repo, newFakeSessionManager())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@forgefit.io", Password: "x"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginInactiveUser(t *testing.T) {
	t.Parallel()

	user := testUser(t, "jo@forgefit.io", "hunter2hunter2")
	user.IsActive = false
	repo := &fakeUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, repo, newFakeSessionManager())

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "hunter2hunter2"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	t.Parallel()

	user := testUser(t, "jo@forgefit.io", "hunter2hunter2")
	repo := &fakeUserRepo{
		byEmail: map[string]*models.User{user.Email: user},
		byID:    map[uuid.UUID]*models.User{user.ID: user},
	}
	sessions := newFakeSessionManager()
	svc := newTestService(t, repo, sessions)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "hunter2hunter2"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, user.ID, refreshed.User.ID)
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	sessions := newFakeSessionManager()
	svc := newTestService(t, &fakeUserRepo{}, sessions)

	require.NoError(t, svc.Logout(context.Background(), "access-1"))
	assert.Equal(t, []string{"access-1"}, sessions.revoked)

	err := svc.Logout(context.Background(), "  ")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}
