package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/FontysVenlo/alda-appointmentplanner-api/api/swagger"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/handler"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/middleware"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/models"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/repository"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/service"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/cache"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/config"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/database"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/export"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/jobs"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/logger"
	corsmiddleware "github.com/FontysVenlo/alda-appointmentplanner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/FontysVenlo/alda-appointmentplanner-api/pkg/middleware/requestid"
	"github.com/FontysVenlo/alda-appointmentplanner-api/pkg/storage"
)

// @title ALDA Appointment Planner API
// @version 1.0.0
// @description Day-plan scheduling service with timeline placement, gap queries and schedule exports
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var cacheRepo service.CacheRepository
	cacheEnabled := false
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, plan caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		cacheEnabled = true
	}

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	exportRepo := repository.NewExportRepository(db)

	validate := validator.New()

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Planner.CacheTTL, logr, cacheEnabled)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "alda-appointmentplanner-api",
	})

	planSvc := service.NewPlanService(planRepo, cacheSvc, metricsSvc, validate, logr, service.PlanDefaults{
		Timezone: cfg.Planner.Timezone,
		DayStart: cfg.Planner.DayStart,
		DayEnd:   cfg.Planner.DayEnd,
	})
	availabilitySvc := service.NewAvailabilityService(planRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	planHandler := handler.NewPlanHandler(planSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	var exportHandler *handler.ExportHandler
	var exportQueue *jobs.Queue
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(planRepo, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, logr, export.NewCSVExporter(), export.NewPDFExporter())

		worker := service.NewExportWorker(exportRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
		exportQueue = jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			RetryDelay: 5 * time.Second,
			Logger:     logr,
		})
		exportQueue.Start(ctx)

		exportJobSvc := service.NewExportJobService(exportRepo, planRepo, exportQueue, exportSvc, logr, service.ExportJobServiceConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		exportJobSvc.RecoverPendingJobs(ctx)
		exportJobSvc.StartCleanup(ctx)

		exportHandler = handler.NewExportHandler(exportJobSvc, logr)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		// The cache is optional, so a lost Redis degrades the payload
		// without failing readiness.
		cacheStatus := "disabled"
		if redisClient != nil {
			cacheStatus = "ok"
			if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
				cacheStatus = "unavailable"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "cache": cacheStatus})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	if exportHandler != nil {
		api.GET("/export/:token", exportHandler.DownloadExport)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.POST("/auth/change-password", authHandler.ChangePassword)
	secured.GET("/auth/me", authHandler.Me)

	readRoles := middleware.RequireRoles(models.RoleAdmin, models.RolePlanner, models.RoleViewer)
	writeRoles := middleware.RequireRoles(models.RoleAdmin, models.RolePlanner)

	secured.POST("/plans", writeRoles, middleware.Audit(userRepo, models.AuditActionPlanCreate, "plan"), planHandler.CreatePlan)
	secured.GET("/plans", readRoles, planHandler.ListPlans)
	secured.GET("/plans/:id", readRoles, planHandler.GetPlan)
	secured.DELETE("/plans/:id", writeRoles, middleware.Audit(userRepo, models.AuditActionPlanDelete, "plan"), planHandler.DeletePlan)
	secured.POST("/plans/:id/appointments", writeRoles, middleware.Audit(userRepo, models.AuditActionAppointmentAdd, "appointment"), planHandler.AddAppointment)
	secured.GET("/plans/:id/appointments", readRoles, planHandler.ListAppointments)
	secured.DELETE("/plans/:id/appointments/:appointmentId", writeRoles, middleware.Audit(userRepo, models.AuditActionAppointmentRemove, "appointment"), planHandler.RemoveAppointment)
	secured.DELETE("/plans/:id/appointments", writeRoles, middleware.Audit(userRepo, models.AuditActionAppointmentRemove, "appointment"), planHandler.RemoveAppointments)
	secured.GET("/plans/:id/gaps", readRoles, planHandler.Gaps)
	secured.GET("/plans/:id/can-add", readRoles, planHandler.CanAdd)
	secured.GET("/plans/:id/render", readRoles, planHandler.RenderPlan)

	secured.GET("/availability", readRoles, availabilityHandler.MatchingSlots)

	if exportHandler != nil {
		secured.POST("/exports", writeRoles, middleware.Audit(userRepo, models.AuditActionExportRequest, "export"), exportHandler.GenerateExport)
		secured.GET("/exports/:id", writeRoles, exportHandler.ExportStatus)
		secured.GET("/plans/:id/export.csv", readRoles, exportHandler.DownloadScheduleCSV)
	}

	secured.GET("/audit", middleware.RequireRoles(models.RoleAdmin), authHandler.AuditLogs)
	secured.GET("/metrics/system", middleware.RequireRoles(models.RoleAdmin), metricsHandler.System)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("server shutdown failed", "error", err)
	}
	if exportQueue != nil {
		exportQueue.Stop()
	}
	logr.Info("server stopped", zap.String("addr", addr))
}
