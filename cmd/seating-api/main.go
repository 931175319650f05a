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
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/exam-seating/api/swagger"
	"github.com/noah-isme/exam-seating/internal/handler"
	"github.com/noah-isme/exam-seating/internal/middleware"
	"github.com/noah-isme/exam-seating/internal/models"
	"github.com/noah-isme/exam-seating/internal/repository"
	"github.com/noah-isme/exam-seating/internal/seating"
	"github.com/noah-isme/exam-seating/internal/service"
	"github.com/noah-isme/exam-seating/pkg/cache"
	"github.com/noah-isme/exam-seating/pkg/config"
	"github.com/noah-isme/exam-seating/pkg/database"
	"github.com/noah-isme/exam-seating/pkg/export"
	"github.com/noah-isme/exam-seating/pkg/jobs"
	"github.com/noah-isme/exam-seating/pkg/logger"
	corsmiddleware "github.com/noah-isme/exam-seating/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/exam-seating/pkg/middleware/requestid"
	"github.com/noah-isme/exam-seating/pkg/storage"
)

// @title Exam Seating API
// @version 1.0.0
// @description Seats students room by room, assigns proctors, locates seats and exports the arrangement.
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

	validate := validator.New()
	metrics := service.NewMetricsService()
	checks := map[string]handler.Pinger{}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("plan cache disabled: redis unavailable", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cacheRepo != nil)
	checks["cache"] = cacheSvc

	var runs service.SeatingRunStore
	if cfg.Audit.Enabled {
		db, err := openAuditDB(ctx, cfg)
		if err != nil {
			logr.Warn("run audit disabled: database unavailable", zap.Error(err))
		} else {
			defer db.Close() //nolint:errcheck
			runs = repository.NewSeatingRunRepository(db)
			checks["database"] = handler.PingFunc(db.PingContext)
		}
	}

	seatingSvc := service.NewSeatingService(cacheSvc, runs, metrics, seating.NewProctorAssigner(nil), validate, logr, service.SeatingServiceConfig{
		DefaultRooms:   cfg.Seating.DefaultRooms,
		DefaultRows:    cfg.Seating.DefaultRows,
		DefaultColumns: cfg.Seating.DefaultColumns,
		DefaultStart:   cfg.Seating.DefaultStart,
		DefaultEnd:     cfg.Seating.DefaultEnd,
		CacheTTL:       cfg.Cache.TTL,
	})

	csvExporter := export.NewDelimitedExporter(cfg.Exports.CSVDelimiter)
	exportCfg := service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL}
	exportSvc := service.NewExportService(nil, nil, exportCfg, metrics, logr, csvExporter, export.NewPDFExporter())

	handlers := handler.Handlers{
		Seating: handler.NewSeatingHandler(seatingSvc, exportSvc, cfg.Seating.MaxUploadBytes),
		Exports: handler.NewExportJobHandler(nil),
		Metrics: handler.NewMetricsHandler(metrics, checks),
	}

	var queue *jobs.Queue
	if cfg.Exports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Fatal("failed to prepare export storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		jobExporter := service.NewExportService(fileStore, signer, exportCfg, metrics, logr, csvExporter, export.NewPDFExporter())

		jobStore := repository.NewExportJobRepository()
		worker := service.NewExportWorker(jobStore, jobExporter, cfg.Exports.WorkerRetries, logr)
		queue = jobs.NewQueue("seating-exports", worker.Handle, jobs.QueueConfig{
			Workers:     cfg.Exports.WorkerConcurrency,
			MaxRetries:  cfg.Exports.WorkerRetries,
			RetryDelay:  2 * time.Second,
			OnExhausted: worker.MarkFailed,
			Logger:      logr,
		})
		queue.Start(ctx)

		jobSvc := service.NewExportJobService(jobStore, seatingSvc, queue, jobExporter, logr, service.ExportJobServiceConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
		})
		jobSvc.StartCleanup(ctx)
		handlers.Exports = handler.NewExportJobHandler(jobSvc)
	}

	var protect []gin.HandlerFunc
	if cfg.Auth.Enabled {
		authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
			AdminEmail:        cfg.Auth.AdminEmail,
			AdminPasswordHash: cfg.Auth.AdminPasswordHash,
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
		})
		handlers.Auth = handler.NewAuthHandler(authSvc)
		protect = []gin.HandlerFunc{middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin)}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, protect...)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "auth", cfg.Auth.Enabled, "cache", cacheSvc.Enabled(), "audit", runs != nil, "exports", queue != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	if queue != nil {
		queue.Stop()
	}
}

func openAuditDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
