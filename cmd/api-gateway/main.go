package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/terp-tools/terp-scheduler-api/api/swagger"
	"github.com/terp-tools/terp-scheduler-api/internal/client"
	"github.com/terp-tools/terp-scheduler-api/internal/handler"
	internalmiddleware "github.com/terp-tools/terp-scheduler-api/internal/middleware"
	"github.com/terp-tools/terp-scheduler-api/internal/repository"
	"github.com/terp-tools/terp-scheduler-api/internal/service"
	"github.com/terp-tools/terp-scheduler-api/pkg/cache"
	"github.com/terp-tools/terp-scheduler-api/pkg/config"
	"github.com/terp-tools/terp-scheduler-api/pkg/database"
	"github.com/terp-tools/terp-scheduler-api/pkg/logger"
	corsmiddleware "github.com/terp-tools/terp-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/terp-tools/terp-scheduler-api/pkg/middleware/requestid"
	"github.com/terp-tools/terp-scheduler-api/pkg/storage"
)

// @title Terp Scheduler API
// @version 1.0.0
// @description Course schedule generation service backed by the Schedule of Classes catalog and professor rating aggregates
// @BasePath /api/v1
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis and Postgres are optional tiers. Without them the API still
	// serves requests straight from the upstream sources.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Warnw("postgres unavailable, rating store disabled", "error", err)
		db = nil
	}

	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.CourseTTL, logr, cfg.Cache.Enabled && redisClient != nil)

	catalogClient := client.NewCatalogClient(cfg.Catalog, logr)
	ratingsClient := client.NewRatingsClient(cfg.Ratings, logr)

	var ratingStore service.ProfessorRatingStore
	if db != nil {
		ratingStore = repository.NewProfessorRatingRepository(db)
	}

	insightSvc := service.NewProfessorInsightService(ratingsClient, ratingStore, cacheSvc, metricsSvc, service.ProfessorInsightConfig{
		RatingTTL:       cfg.Cache.RatingTTL,
		RefreshInterval: cfg.Ratings.RefreshInterval,
		RefreshWorkers:  cfg.Ratings.RefreshWorkers,
	}, logr)
	insightSvc.Start(ctx)
	defer insightSvc.Stop()

	courseSvc := service.NewCourseService(catalogClient, cacheSvc, metricsSvc, service.CourseServiceConfig{
		CourseTTL:  cfg.Cache.CourseTTL,
		SectionTTL: cfg.Cache.SectionTTL,
	}, logr)

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	scheduleSvc := service.NewScheduleService(courseSvc, insightSvc, metricsSvc, files, signer, service.ScheduleServiceConfig{
		DefaultMaxSchedules: cfg.Scheduler.DefaultMaxSchedules,
		MaxSchedulesCap:     cfg.Scheduler.MaxSchedulesCap,
		CandidateCeiling:    cfg.Scheduler.CandidateCeiling,
		ResultTTL:           cfg.Scheduler.ResultTTL,
	}, logr)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	insightHandler := handler.NewInsightHandler(insightSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/schedules/generate", scheduleHandler.Generate)
		api.GET("/schedules/:id", scheduleHandler.Get)
		api.DELETE("/schedules/:id", scheduleHandler.Delete)
		api.POST("/schedules/:id/export", scheduleHandler.Export)
		api.GET("/exports/download", scheduleHandler.Download)

		api.GET("/courses", courseHandler.List)
		api.GET("/courses/:code", courseHandler.Get)
		api.GET("/courses/:code/sections", courseHandler.Sections)

		api.GET("/insights/professors/:name", insightHandler.Professor)
		api.GET("/insights/courses/:courseId", insightHandler.Course)
		api.GET("/metrics/snapshot", metricsHandler.Snapshot)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
