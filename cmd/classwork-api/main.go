package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/classwork-api/api/swagger"
	"github.com/noah-isme/classwork-api/internal/handler"
	"github.com/noah-isme/classwork-api/internal/repository"
	"github.com/noah-isme/classwork-api/internal/router"
	"github.com/noah-isme/classwork-api/internal/service"
	"github.com/noah-isme/classwork-api/pkg/cache"
	"github.com/noah-isme/classwork-api/pkg/config"
	"github.com/noah-isme/classwork-api/pkg/database"
	"github.com/noah-isme/classwork-api/pkg/jobs"
	"github.com/noah-isme/classwork-api/pkg/logger"
	"github.com/noah-isme/classwork-api/pkg/reporting"
)

// @title Classwork API
// @version 1.0.0
// @description Assignment workflow for teachers and students
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			return err
		}
	}

	// Redis is optional: without it analytics are never cached and rate limiting is off.
	var redisClient *redis.Client
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	policy := service.NewAccessPolicy(nil)
	guard := service.NewRouteGuard()
	pager := service.Paginator{
		DefaultPageSize: cfg.Pagination.DefaultPageSize,
		MaxPageSize:     cfg.Pagination.MaxPageSize,
	}
	reporter := reporting.NewRollbarReporter(cfg.Rollbar, cfg.Env, logr)
	defer reporter.Flush()

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	var cacheRepo service.CacheRepository
	var limiter *cache.RateLimiter
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		limiter = cache.NewRateLimiter(redisClient, "classwork:ratelimit", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cfg.Analytics.CacheEnabled)

	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, metrics, policy, cfg.Analytics.CacheTTL, logr)
	events := service.NewEventService(userRepo, analyticsSvc, metrics, logr, jobs.QueueConfig{
		Workers:    cfg.Events.Workers,
		BufferSize: cfg.Events.BufferSize,
		MaxRetries: cfg.Events.MaxRetries,
		RetryDelay: cfg.Events.RetryDelay,
	})

	assignmentSvc := service.NewAssignmentService(assignmentRepo, policy, events, pager, validate, logr)
	submissionSvc := service.NewSubmissionService(submissionRepo, assignmentRepo, policy, events, pager, validate, logr)
	exportSvc := service.NewExportService(assignmentRepo, submissionRepo, policy, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Assignments: assignmentSvc,
		Analytics:   analyticsSvc,
		Available:   submissionSvc,
		Policy:      policy,
		Logger:      logr,
	})
	authSvc := service.NewAuthService(userRepo, guard, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	engine := router.Setup(cfg, router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, guard),
		Assignments: handler.NewAssignmentHandler(assignmentSvc, submissionSvc, exportSvc, analyticsSvc),
		Submissions: handler.NewSubmissionHandler(submissionSvc),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc),
		Metrics:     handler.NewMetricsHandler(metrics, db),
	}, router.Deps{
		Auth:     authSvc,
		Policy:   policy,
		Metrics:  metrics,
		Limiter:  limiter,
		Reporter: reporter,
		Logger:   logr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events.Start(ctx)
	defer events.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
