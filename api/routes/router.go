package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/forgefitlabs/forgefit-backend/api/controllers"
	"github.com/forgefitlabs/forgefit-backend/api/middleware"
	"github.com/forgefitlabs/forgefit-backend/internal/analytics"
	"github.com/forgefitlabs/forgefit-backend/internal/auth"
	"github.com/forgefitlabs/forgefit-backend/internal/cart"
	checkoutsvc "github.com/forgefitlabs/forgefit-backend/internal/checkout"
	"github.com/forgefitlabs/forgefit-backend/internal/coupons"
	"github.com/forgefitlabs/forgefit-backend/internal/customers"
	"github.com/forgefitlabs/forgefit-backend/internal/orders"
	"github.com/forgefitlabs/forgefit-backend/internal/products"
	"github.com/forgefitlabs/forgefit-backend/internal/profiles"
	"github.com/forgefitlabs/forgefit-backend/pkg/auth/session"
	"github.com/forgefitlabs/forgefit-backend/pkg/config"
	"github.com/forgefitlabs/forgefit-backend/pkg/db"
	"github.com/forgefitlabs/forgefit-backend/pkg/logger"
	"github.com/forgefitlabs/forgefit-backend/pkg/metrics"
	"github.com/forgefitlabs/forgefit-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionManager session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	authService auth.Service,
	registerService auth.RegisterService,
	catalogService products.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	couponsService coupons.Service,
	customersService customers.Service,
	profilesService profiles.Service,
	analyticsService analytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.Login(authService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.Register(registerService, logg))
		r.Post("/refresh", controllers.Refresh(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessionManager, logg)).
			Post("/logout", controllers.Logout(authService, cartService, logg))
	})

	// Storefront catalog is browsable without an account.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(catalogService, logg))
		r.Get("/{slug}", controllers.ProductShow(catalogService, logg))
	})
	r.Route("/api/v1/memberships", func(r chi.Router) {
		r.Get("/", controllers.MembershipsList(catalogService, logg))
		r.Get("/{slug}", controllers.MembershipShow(catalogService, logg))
	})
	r.Route("/api/v1/programs", func(r chi.Router) {
		r.Get("/", controllers.ProgramsList(catalogService, logg))
		r.Get("/{slug}", controllers.ProgramShow(catalogService, logg))
	})
	r.Get("/api/v1/coupons/{code}", controllers.CouponValidate(couponsService, logg))
	r.Get("/api/v1/customer-info", controllers.CustomerPrefill(customersService, logg))

	// Checkout accepts both guests and signed-in members; guests carry
	// credentials in the payload instead of the Authorization header.
	r.With(
		middleware.OptionalAuth(cfg.JWT, sessionManager, logg),
		middleware.Idempotency(redisClient, logg),
	).Post("/api/v1/checkout", controllers.Checkout(checkoutService, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/v1/cart", controllers.CartShow(cartService, logg))
		r.Put("/v1/cart", controllers.CartSync(cartService, logg))

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/{id}", controllers.OrderShow(ordersService, logg))
		})

		r.Route("/v1/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileShow(profilesService, logg))
			r.Put("/", controllers.ProfileUpdate(profilesService, logg))
			r.Post("/onboarding/complete", controllers.OnboardingComplete(profilesService, logg))
			r.Post("/measurements", controllers.MeasurementCreate(profilesService, logg))
			r.Get("/measurements", controllers.MeasurementsList(profilesService, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Get("/v1/analytics", controllers.AdminAnalytics(analyticsService, logg))
	})

	return r
}
