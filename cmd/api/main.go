package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/forgefitlabs/forgefit-backend/api/routes"
	"github.com/forgefitlabs/forgefit-backend/internal/analytics"
	"github.com/forgefitlabs/forgefit-backend/internal/auth"
	"github.com/forgefitlabs/forgefit-backend/internal/cart"
	checkoutsvc "github.com/forgefitlabs/forgefit-backend/internal/checkout"
	"github.com/forgefitlabs/forgefit-backend/internal/coupons"
	"github.com/forgefitlabs/forgefit-backend/internal/customers"
	"github.com/forgefitlabs/forgefit-backend/internal/orders"
	"github.com/forgefitlabs/forgefit-backend/internal/payments"
	"github.com/forgefitlabs/forgefit-backend/internal/products"
	"github.com/forgefitlabs/forgefit-backend/internal/profiles"
	"github.com/forgefitlabs/forgefit-backend/internal/users"
	"github.com/forgefitlabs/forgefit-backend/pkg/auth/session"
	"github.com/forgefitlabs/forgefit-backend/pkg/config"
	"github.com/forgefitlabs/forgefit-backend/pkg/db"
	"github.com/forgefitlabs/forgefit-backend/pkg/logger"
	"github.com/forgefitlabs/forgefit-backend/pkg/metrics"
	"github.com/forgefitlabs/forgefit-backend/pkg/migrate"
	"github.com/forgefitlabs/forgefit-backend/pkg/redis"
	pkgstripe "github.com/forgefitlabs/forgefit-backend/pkg/stripe"
)

const customerSaverBuffer = 64

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(gdb),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	catalogService, err := products.NewService(products.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Store:   cart.NewStateStore(),
		Repo:    cart.NewRepository(gdb),
		Catalog: catalogService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	couponsService, err := coupons.NewService(coupons.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create coupons service", err)
		os.Exit(1)
	}

	customerSaver := customers.NewSaver(customers.NewRepository(gdb), logg, customerSaverBuffer)
	customerSaver.Start()
	defer customerSaver.Close()

	customersService, err := customers.NewService(customers.NewRepository(gdb), customerSaver)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	profilesService, err := profiles.NewService(profiles.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create profiles service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	paymentGateway, err := payments.NewGateway(payments.GatewayParams{
		Stripe:   payments.NewStripeClient(stripeClient),
		Catalog:  catalogService,
		Checkout: cfg.Checkout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		DB:        dbClient,
		Cart:      cartService,
		Login:     authService,
		Register:  registerService,
		Coupons:   couponsService,
		Customers: customersService,
		Payments:  paymentGateway,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			httpMetrics,
			registry,
			authService,
			registerService,
			catalogService,
			cartService,
			checkoutService,
			ordersService,
			couponsService,
			customersService,
			profilesService,
			analyticsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
