package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pixelcraft/booking-service/internal/auth"
	"github.com/pixelcraft/booking-service/internal/config"
	"github.com/pixelcraft/booking-service/internal/event"
	"github.com/pixelcraft/booking-service/internal/gateway"
	gwmock "github.com/pixelcraft/booking-service/internal/gateway/mock"
	handler "github.com/pixelcraft/booking-service/internal/handler/http"
	"github.com/pixelcraft/booking-service/internal/pricing"
	"github.com/pixelcraft/booking-service/internal/repository/postgres"
	redisrepo "github.com/pixelcraft/booking-service/internal/repository/redis"
	"github.com/pixelcraft/booking-service/internal/service"
	"github.com/pixelcraft/booking-service/pkg/database"
	"github.com/pixelcraft/booking-service/pkg/health"
	"github.com/pixelcraft/booking-service/pkg/httpclient"
	pkgkafka "github.com/pixelcraft/booking-service/pkg/kafka"
)

// App wires together all dependencies and runs the booking service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, postgres.Migrations, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis client for the wizard session store.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("port", cfg.RedisPort),
	)

	// Kafka producer for order lifecycle events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Payment gateway client.
	var gw gateway.Gateway
	switch cfg.GatewayProvider {
	case config.GatewayRazorpay:
		baseClient := httpclient.New(httpclient.Config{
			Timeout:         10 * time.Second,
			MaxRetries:      3,
			RetryWaitMin:    500 * time.Millisecond,
			RetryWaitMax:    5 * time.Second,
			MaxConnsPerHost: 100,
		})
		cbCfg := httpclient.CircuitBreakerConfig{
			Name:         "razorpay",
			MaxRequests:  cfg.CBMaxRequests,
			Interval:     time.Duration(cfg.CBInterval) * time.Second,
			Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
			FailureRatio: cfg.CBFailureRatio,
			MinRequests:  cfg.CBMinRequests,
		}
		cbClient := httpclient.NewCircuitBreakerClient(baseClient, cbCfg, logger)
		gw = gateway.NewRazorpayGateway(gateway.RazorpayConfig{
			KeyID:     cfg.RazorpayKeyID,
			KeySecret: cfg.RazorpayKeySecret,
		}, cbClient, logger)
	default:
		gw = gwmock.NewGateway()
		logger.Warn("using mock payment gateway, orders will not be charged")
	}

	// Build the dependency graph.
	orderRepo := postgres.NewOrderRepository(pool)
	offerRepo := postgres.NewOfferRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)
	sessionStore := redisrepo.NewSessionStore(redisClient, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	eventProducer := event.NewProducer(producer, logger)

	checkoutService := service.NewCheckoutService(
		orderRepo,
		sessionStore,
		gw,
		eventProducer,
		pricing.DefaultCatalog(),
		cfg.RazorpayKeySecret,
		cfg.Currency,
		logger,
	)
	offerService := service.NewOfferService(offerRepo, logger)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryMinutes)*time.Minute)
	authService := service.NewAuthService(adminRepo, jwtManager, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	router := handler.NewRouter(
		checkoutService,
		offerService,
		authService,
		cfg.RazorpayWebhookSecret,
		healthHandler,
		logger,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: drain in-flight HTTP requests
// first, then close the producer and the stores.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
