// Package app wires together all dependencies and runs the storefront
// service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utafrali/BookingGo/internal/booking"
	"github.com/utafrali/BookingGo/internal/config"
	"github.com/utafrali/BookingGo/internal/domain"
	"github.com/utafrali/BookingGo/internal/event"
	handler "github.com/utafrali/BookingGo/internal/handler/http"
	"github.com/utafrali/BookingGo/internal/repository"
	postgresrepo "github.com/utafrali/BookingGo/internal/repository/postgres"
	redisrepo "github.com/utafrali/BookingGo/internal/repository/redis"
	sqliterepo "github.com/utafrali/BookingGo/internal/repository/sqlite"
	"github.com/utafrali/BookingGo/internal/service"
	"github.com/utafrali/BookingGo/migrations"
	"github.com/utafrali/BookingGo/pkg/database"
	"github.com/utafrali/BookingGo/pkg/health"
	"github.com/utafrali/BookingGo/pkg/httpclient"
	pkgkafka "github.com/utafrali/BookingGo/pkg/kafka"
	"github.com/utafrali/BookingGo/pkg/tracing"
)

// App holds the wired dependencies of the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	sqliteStore    *sqliterepo.CartStore
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	healthRegistry := health.NewRegistry()

	// Cart persistence backend.
	var (
		cartStore   repository.CartStore
		sqliteStore *sqliterepo.CartStore
	)
	switch cfg.CartStore {
	case config.CartStoreRedis:
		redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to redis", slog.String("addr", cfg.Redis().Addr()))
		cartStore = redisrepo.NewCartStore(redisClient, cfg.CartTTL())
		healthRegistry.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	case config.CartStoreSQLite:
		sqliteStore, err = sqliterepo.NewCartStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite cart store: %w", err)
		}
		logger.Info("opened sqlite cart store", slog.String("path", cfg.SQLitePath))
		cartStore = sqliteStore
		healthRegistry.Register("sqlite", sqliteStore.Ping)
	default:
		return nil, fmt.Errorf("unknown cart store backend %q", cfg.CartStore)
	}

	// PostgreSQL receipt archive, optional.
	var (
		pool    *pgxpool.Pool
		archive repository.ReceiptArchive
	)
	if cfg.PostgresEnabled {
		pgCfg := cfg.Postgres()
		pool, err = database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.PostgresHost),
			slog.Int("port", cfg.PostgresPort),
			slog.String("database", cfg.PostgresDB),
		)

		if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrations completed")

		archive = postgresrepo.NewReceiptArchive(pool)
		healthRegistry.Register("postgres", pool.Ping)
	}

	// Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	healthRegistry.Register("kafka", producer.Ping)

	eventProducer := event.NewProducer(producer, logger)

	// Booking backend client with retries and a circuit breaker.
	baseClient := httpclient.New(httpclient.DefaultConfig())
	breakerClient := httpclient.NewBreakerClient(baseClient, httpclient.BreakerConfig{
		Name:         "booking-backend",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}, logger)
	bookingClient := booking.NewClient(breakerClient, cfg.BookingAPIURL, logger)

	pricing := domain.PricingConfig{
		TaxRate:    cfg.TaxRate,
		ServiceFee: cfg.ServiceFeeCents,
	}

	cartService := service.NewCartService(cartStore, eventProducer, logger)
	checkoutService := service.NewCheckoutService(
		cartStore,
		archive,
		bookingClient,
		eventProducer,
		logger,
		pricing,
		cfg.SubmitTimeout(),
	)

	router := handler.NewRouter(cartService, checkoutService, healthRegistry, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		sqliteStore:    sqliteStore,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
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

// Shutdown gracefully stops all components in order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. Cart store and receipt archive connections
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.sqliteStore != nil {
		if err := a.sqliteStore.Close(); err != nil {
			a.logger.Error("sqlite cart store close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
