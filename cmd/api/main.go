package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ahamhfc/aham-cms-api/docs" // Swagger docs
	"github.com/ahamhfc/aham-cms-api/internal/config"
	"github.com/ahamhfc/aham-cms-api/internal/database"
	"github.com/ahamhfc/aham-cms-api/internal/handlers"
	"github.com/ahamhfc/aham-cms-api/internal/jobs"
	"github.com/ahamhfc/aham-cms-api/internal/middleware"
	"github.com/ahamhfc/aham-cms-api/internal/repository"
	"github.com/ahamhfc/aham-cms-api/internal/services"
	"github.com/ahamhfc/aham-cms-api/internal/storage"
	"github.com/ahamhfc/aham-cms-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const workerQueueSize = 16

// @title AHAM CMS API
// @version 1.0
// @description Content management API for the AHAM Housing Finance website
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment, cfg.LogLevel)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := storage.New(startupCtx, cfg)
	if err != nil {
		cancelStartup()
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized media storage", "backend", cfg.StorageBackend)

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount, workerQueueSize)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, store, cfg, db)

	if err := svcs.User.EnsureDefaultAdmin(startupCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("Failed to create default admin", "error", err)
	}
	cancelStartup()

	svcs.Job.Start(cfg.MediaSweepEvery)

	h := handlers.NewHandlers(svcs, database.Pinger(db))
	router := setupRouter(h, cfg, store)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
		// Uploads are small but arrive over slow mobile links
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "audit_strict", cfg.AuditStrict)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if err := database.Close(db); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config, store storage.Storage) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{cfg.UploadsURLPath})))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Local uploads are served by the API itself; S3 objects are public URLs
	if local, ok := store.(*storage.LocalStorage); ok {
		router.Static(cfg.UploadsURLPath, local.BasePath())
	}

	h.RegisterRoutes(router, cfg.JWTSecret)

	return router
}
