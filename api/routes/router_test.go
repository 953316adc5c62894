package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/forgefitlabs/forgefit-backend/internal/analytics"
	"github.com/forgefitlabs/forgefit-backend/internal/auth"
	"github.com/forgefitlabs/forgefit-backend/internal/cart"
	checkoutsvc "github.com/forgefitlabs/forgefit-backend/internal/checkout"
	"github.com/forgefitlabs/forgefit-backend/internal/customers"
	"github.com/forgefitlabs/forgefit-backend/internal/orders"
	"github.com/forgefitlabs/forgefit-backend/internal/profiles"
	pkgAuth "github.com/forgefitlabs/forgefit-backend/pkg/auth"
	"github.com/forgefitlabs/forgefit-backend/pkg/auth/session"
	"github.com/forgefitlabs/forgefit-backend/pkg/config"
	"github.com/forgefitlabs/forgefit-backend/pkg/db/models"
	"github.com/forgefitlabs/forgefit-backend/pkg/enums"
	"github.com/forgefitlabs/forgefit-backend/pkg/logger"
	"github.com/forgefitlabs/forgefit-backend/pkg/pagination"
	"github.com/forgefitlabs/forgefit-backend/pkg/redis"
	"github.com/forgefitlabs/forgefit-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.AuthResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return []models.Product{}, nil
}

func (stubCatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return &models.Product{ID: uuid.New(), Slug: slug}, nil
}

func (stubCatalogService) ListMemberships(ctx context.Context) ([]models.Membership, error) {
	return []models.Membership{}, nil
}

func (stubCatalogService) GetMembershipBySlug(ctx context.Context, slug string) (*models.Membership, error) {
	return &models.Membership{ID: uuid.New(), Slug: slug}, nil
}

func (stubCatalogService) ListPrograms(ctx context.Context) ([]models.Program, error) {
	return []models.Program{}, nil
}

func (stubCatalogService) GetProgramBySlug(ctx context.Context, slug string) (*models.Program, error) {
	return &models.Program{ID: uuid.New(), Slug: slug}, nil
}

func (stubCatalogService) ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	return map[uuid.UUID]models.Product{}, nil
}

type stubCartService struct{}

func (stubCartService) Load(ctx context.Context, userID uuid.UUID) (cart.State, error) {
	return cart.State{}, nil
}

func (stubCartService) Save(ctx context.Context, userID uuid.UUID) (cart.State, error) {
	return cart.State{}, nil
}

func (stubCartService) Sync(ctx context.Context, userID uuid.UUID, lines []cart.LineInput) (cart.State, error) {
	return cart.State{}, nil
}

func (stubCartService) Quote(ctx context.Context, lines []cart.LineInput) (cart.State, error) {
	return cart.State{}, nil
}

func (stubCartService) Dispatch(userID uuid.UUID, action cart.Action) cart.State {
	return cart.State{}
}

func (stubCartService) Current(userID uuid.UUID) cart.State {
	return cart.State{}
}

func (stubCartService) Release(userID uuid.UUID) {}

type stubCheckoutService struct{}

func (stubCheckoutService) Checkout(ctx context.Context, userID *uuid.UUID, req checkoutsvc.Request) (*checkoutsvc.Response, error) {
	return &checkoutsvc.Response{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) List(ctx context.Context, userID uuid.UUID, page pagination.Params) (*types.Page, error) {
	return &types.Page{Items: []orders.View{}}, nil
}

func (stubOrdersService) Get(ctx context.Context, userID, orderID uuid.UUID) (*orders.View, error) {
	return &orders.View{ID: orderID}, nil
}

type stubCouponsService struct{}

func (stubCouponsService) Validate(ctx context.Context, code string) (*models.Coupon, error) {
	return &models.Coupon{ID: uuid.New(), Code: code, DiscountPercent: 10, MaxUses: 5}, nil
}

func (stubCouponsService) Redeem(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubCustomersService struct{}

func (stubCustomersService) EnqueueSnapshot(input customers.SnapshotInput) {}

func (stubCustomersService) Prefill(ctx context.Context, email string) (*models.CustomerInfo, error) {
	return &models.CustomerInfo{ID: uuid.New(), Email: email}, nil
}

type stubProfilesService struct{}

func (stubProfilesService) Get(ctx context.Context, userID uuid.UUID) (*profiles.ProfileView, error) {
	return &profiles.ProfileView{UserID: userID}, nil
}

func (stubProfilesService) Update(ctx context.Context, userID uuid.UUID, req profiles.UpdateProfileRequest) (*profiles.ProfileView, error) {
	return &profiles.ProfileView{UserID: userID}, nil
}

func (stubProfilesService) CompleteOnboarding(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (stubProfilesService) AddMeasurement(ctx context.Context, userID uuid.UUID, req profiles.MeasurementRequest) (*profiles.MeasurementView, error) {
	return &profiles.MeasurementView{ID: uuid.New()}, nil
}

func (stubProfilesService) ListMeasurements(ctx context.Context, userID uuid.UUID, page pagination.Params) (*types.Page, error) {
	return &types.Page{Items: []profiles.MeasurementView{}}, nil
}

type stubAnalyticsService struct{}

func (stubAnalyticsService) Summarize(ctx context.Context) (*analytics.Summary, error) {
	return &analytics.Summary{RevenueTotal: "0.00"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionManager{},
		nil, // http metrics
		nil, // prometheus gatherer
		stubAuthService{},
		stubRegisterService{},
		stubCatalogService{},
		stubCartService{},
		stubCheckoutService{},
		stubOrdersService{},
		stubCouponsService{},
		stubCustomersService{},
		stubProfilesService{},
		stubAnalyticsService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestCatalogIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{
		"/api/v1/products",
		"/api/v1/products/forge-tee",
		"/api/v1/memberships",
		"/api/v1/programs",
		"/api/v1/coupons/FORGE10",
		"/api/v1/customer-info?email=jo@example.com",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for public %s got %d", path, resp.Code)
		}
	}
}

func TestCartRequiresJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCartSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed cart got %d", resp.Code)
	}
}

func TestOrdersRequireJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminAnalyticsRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	member := httptest.NewRequest(http.MethodGet, "/api/admin/v1/analytics", nil)
	member.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, member)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/analytics", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestProfileRequiresJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}
