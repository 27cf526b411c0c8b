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
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/seatplan-api/api/swagger"
	"github.com/noah-isme/seatplan-api/internal/events"
	"github.com/noah-isme/seatplan-api/internal/handler"
	internalmiddleware "github.com/noah-isme/seatplan-api/internal/middleware"
	"github.com/noah-isme/seatplan-api/internal/models"
	"github.com/noah-isme/seatplan-api/internal/repository"
	"github.com/noah-isme/seatplan-api/internal/service"
	"github.com/noah-isme/seatplan-api/pkg/cache"
	"github.com/noah-isme/seatplan-api/pkg/config"
	"github.com/noah-isme/seatplan-api/pkg/database"
	"github.com/noah-isme/seatplan-api/pkg/jobs"
	"github.com/noah-isme/seatplan-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/seatplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/seatplan-api/pkg/middleware/requestid"
)

// @title Seatplan API
// @version 1.0.0
// @description Constraint-based seat assignment for banquet and conference sessions.
// @BasePath /api/v1
// @schemes http https
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, seating cache disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	publisher := newPublisher(context.Background(), cfg.Events, logr)
	defer publisher.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Seating.ViolationCacheTTL, logr, redisClient != nil)
	tokenSvc := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	seatingSvc := newSeatingService(cfg, db, cacheSvc, metricsSvc, publisher, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.Pinger{
		"postgres": db,
		"redis":    handler.PingerFunc(cacheRepo.Ping),
	})
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(tokenSvc))
	api.GET("/metrics/summary", internalmiddleware.RequireRoles([]models.UserRole{models.RoleOrganizer}), metricsHandler.Summary)
	if cfg.Seating.Enabled {
		registerSeatingRoutes(api, handler.NewSeatingHandler(seatingSvc))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func newPublisher(ctx context.Context, cfg config.EventsConfig, logr *zap.Logger) events.Publisher {
	if !cfg.Enabled {
		return events.NopPublisher{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.Queue, logr)
	if err != nil {
		logr.Warn("rabbitmq unavailable, seating events disabled", zap.Error(err))
		return events.NopPublisher{}
	}
	return events.NewAsyncPublisher(ctx, publisher, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logr.Named("events"),
	})
}

func newSeatingService(cfg *config.Config, db *sqlx.DB, cacheSvc *service.CacheService, metricsSvc *service.MetricsService, publisher events.Publisher, logr *zap.Logger) *service.SeatingService {
	seatRepo := repository.NewSeatRepository(db)
	return service.NewSeatingService(
		repository.NewSeatingSessionRepository(db),
		seatRepo,
		repository.NewGuestRepository(db),
		repository.NewProximityRuleRepository(db),
		db,
		cacheSvc,
		metricsSvc,
		publisher,
		validator.New(),
		logr,
		service.SeatingConfig{
			ProposalTTL: cfg.Seating.ProposalTTL,
			SwapLimit:   cfg.Seating.SwapLimit,
		},
	)
}

func registerSeatingRoutes(api *gin.RouterGroup, h *handler.SeatingHandler) {
	editors := internalmiddleware.RequireRoles(models.EditorRoles)
	readers := internalmiddleware.RequireRoles(models.ReaderRoles)

	sessions := api.Group("/sessions/:sessionId/seating")
	sessions.POST("/generate", editors, h.Generate)
	sessions.GET("/violations", readers, h.Violations)
	sessions.GET("/seats/:seatId/swaps", readers, h.SwapCandidates)
	sessions.POST("/swap", editors, h.Swap)
	sessions.GET("/export", readers, h.Export)

	api.POST("/seating/proposals/:proposalId/apply", editors, h.Apply)
}
