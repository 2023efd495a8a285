package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/goforecast/internal/adapter/http"
	"github.com/iho/goforecast/internal/adapter/http/handler"
	apimiddleware "github.com/iho/goforecast/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/goforecast/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/goforecast/internal/adapter/repository/redis"
	"github.com/iho/goforecast/internal/infrastructure/clock"
	"github.com/iho/goforecast/internal/infrastructure/config"
	"github.com/iho/goforecast/internal/infrastructure/logger"
	"github.com/iho/goforecast/internal/infrastructure/metrics"
	"github.com/iho/goforecast/internal/infrastructure/postgres"
	"github.com/iho/goforecast/internal/infrastructure/redis"
	"github.com/iho/goforecast/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.DefaultContextLogger = &log.Logger

	ctx := context.Background()

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, log.Logger); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
		ReadOnly:       true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	var (
		redisClient *goredis.Client
		cache       usecase.Cache
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		cache = redisRepo.NewCache(redisClient)
		log.Info().Msg("connected to redis")
	} else {
		log.Warn().Msg("REDIS_URL is empty, health reports will not be cached")
	}

	clk, err := newClock(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure clock")
	}

	m := metrics.New()

	// Initialize repositories
	reader := postgresRepo.NewReader(pool, postgresRepo.NewRetrier().WithLogger(log.Logger), m)
	goalRepo := postgresRepo.NewGoalRepository(reader)
	debtRepo := postgresRepo.NewDebtRepository(reader)
	budgetRepo := postgresRepo.NewBudgetRepository(reader)
	txnRepo := postgresRepo.NewCashTransactionRepository(reader)
	categoryRepo := postgresRepo.NewCategoryRepository(reader)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	projectionUC := usecase.NewProjectionUseCase(goalRepo, debtRepo, clk, idGen, m)
	suggestionUC := usecase.NewSuggestionUseCase(goalRepo, debtRepo, categoryRepo, clk, m)
	healthUC := usecase.NewHealthUseCase(goalRepo, debtRepo, budgetRepo, txnRepo, cache, clk, m).
		WithReportTTL(cfg.HealthCacheTTL)

	// Rate limiting
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	rateLimiter := newRateLimiter(sweepCtx, cfg)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ProjectionHandler: handler.NewProjectionHandler(projectionUC),
		SuggestionHandler: handler.NewSuggestionHandler(suggestionUC),
		ReportHandler:     handler.NewReportHandler(healthUC),
		HealthHandler:     handler.NewHealthHandler(readinessChecks(pool, redisClient)...),
		Logger:            log.Logger,
		RateLimiter:       rateLimiter,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("today", clk.Today().Format(time.DateOnly)).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newClock returns a clock pinned to FORECAST_TODAY when set, otherwise the
// system clock in FORECAST_TIMEZONE.
func newClock(cfg *config.Config) (usecase.Clock, error) {
	pinned, err := cfg.PinnedToday()
	if err != nil {
		return nil, err
	}
	if !pinned.IsZero() {
		return clock.NewFixed(pinned), nil
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return clock.NewSystem(loc), nil
}

// newRateLimiter returns nil when RATE_LIMIT_RPS is not positive. Idle clients
// are swept until ctx is cancelled.
func newRateLimiter(ctx context.Context, cfg *config.Config) *apimiddleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}

	rl := apimiddleware.NewRateLimiter(cfg.RateLimitRPS, max(cfg.RateLimitBurst, 1))
	go rl.Run(ctx, time.Minute, 10*time.Minute)
	return rl
}

func readinessChecks(pool *pgxpool.Pool, redisClient *goredis.Client) []handler.DependencyCheck {
	checks := []handler.DependencyCheck{{Name: "postgres", Check: pool.Ping}}
	if redisClient != nil {
		checks = append(checks, handler.DependencyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	return checks
}
