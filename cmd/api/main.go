// ShopifyQ | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopifyq/backend/internal/admin"
	"github.com/shopifyq/backend/internal/auth"
	"github.com/shopifyq/backend/internal/billing"
	"github.com/shopifyq/backend/internal/compliance"
	"github.com/shopifyq/backend/internal/config"
	"github.com/shopifyq/backend/internal/core"
	"github.com/shopifyq/backend/internal/document"
	"github.com/shopifyq/backend/internal/dutify"
	"github.com/shopifyq/backend/internal/esg"
	"github.com/shopifyq/backend/internal/health"
	"github.com/shopifyq/backend/internal/metrics"
	"github.com/shopifyq/backend/internal/middleware"
	"github.com/shopifyq/backend/internal/server"
	"github.com/shopifyq/backend/internal/shopify"
	"github.com/shopifyq/backend/internal/subuser"
	"github.com/shopifyq/backend/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.Migrate {
		if err := db.Migrate(); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	sealer, err := core.NewSealer(cfg.Shopify.TokenEncKey)
	if err != nil {
		return err
	}

	registry := metrics.NewRegistry()
	collector := metrics.NewCollector(registry)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, redis.Client)
	authHandler := auth.NewHandler(authSvc)

	planMapper := billing.NewPlanMapper(cfg.Stripe.PricePlans)
	stripeProvider := billing.NewStripeProvider(cfg.Stripe)
	billingSvc := billing.NewService(userRepo, stripeProvider, planMapper, logger, collector)
	billingHandler := billing.NewHandler(
		billingSvc,
		cfg.Stripe.WebhookSecret,
		func(ctx context.Context, userID string) (string, error) {
			u, err := userSvc.GetMe(ctx, userID)
			if err != nil {
				return "", err
			}
			return u.Email, nil
		},
		logger,
	)

	shopifyClient := shopify.NewClient(cfg.Shopify.APIVersion, 15*time.Second, nil)
	shopifyRepo := shopify.NewRepository(db.DB)
	shopifyStates := shopify.NewStateStore(redis.Client)
	shopifySvc := shopify.NewService(shopifyRepo, shopifyClient, shopifyStates, sealer, cfg.Shopify, logger)
	shopifyHandler := shopify.NewHandler(shopifySvc, cfg.App.FrontendURL)

	dutifyClient := dutify.NewClient(cfg.Dutify, logger)
	complianceSvc := compliance.NewService(dutifyClient, logger)
	complianceHandler := compliance.NewHandler(complianceSvc)

	esgScorer := esg.NewScorerClient(cfg.ESG, logger)
	esgRepo := esg.NewRepository(db.DB)
	esgSvc := esg.NewService(esgRepo, esgScorer, logger)
	esgHandler := esg.NewHandler(esgSvc)

	documentRepo := document.NewRepository(db.DB)
	documentSvc := document.NewService(documentRepo, logger)
	documentHandler := document.NewHandler(documentSvc)

	subUserRepo := subuser.NewRepository(db.DB)
	subUserSvc := subuser.NewService(subUserRepo, logger)
	subUserHandler := subuser.NewHandler(subUserSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		AuthSvc:    authSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(metrics.Instrument(collector))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())
	router.Method("GET", "/metrics", metrics.Handler(registry))

	authenticator := middleware.Authenticator(jwtManager)
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)

		r.Post("/users", authHandler.Register)

		billingHandler.RegisterWebhookRoute(r)
		shopifyHandler.RegisterCallbackRoute(r)

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		billingHandler.RegisterRoutes(r, authenticator)
		shopifyHandler.RegisterRoutes(r, authenticator)
		complianceHandler.RegisterRoutes(r, authenticator)
		esgHandler.RegisterRoutes(r, authenticator)
		documentHandler.RegisterRoutes(r, authenticator)
		subUserHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
