package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"dataroom/docs"
	"dataroom/internal/auth"
	"dataroom/internal/config"
	"dataroom/internal/database"
	"dataroom/internal/database/migration"
	handlers "dataroom/internal/http/handler"
	"dataroom/internal/http/middleware"
	"dataroom/internal/logging"
	"dataroom/internal/otel"
	"dataroom/internal/repository/postgres"
	"dataroom/internal/service"
	"dataroom/internal/storage"
)

// multipartOverhead leaves room for form boundaries and fields around the file itself.
const multipartOverhead = 1 << 20

// @title Data Room API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from CONFIG_FILE and environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Blob store backend is chosen by STORAGE_DRIVER (minio or b2)
	objStore, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	verifier, err := auth.New(ctx, cfg.Auth)
	if err != nil {
		logger.Fatal("failed to initialize token verification", zap.Error(err))
	}

	// Initialize repositories and services
	folderRepo := postgres.NewFolderPostgres(db)
	fileRepo := postgres.NewFilePostgres(db)
	linkRepo := postgres.NewSharedLinkPostgres(db)

	folderSvc := service.NewFolderService(folderRepo, fileRepo, objStore, logger)
	fileSvc := service.NewFileService(fileRepo, folderRepo, objStore, logger, service.FileOptions{
		MaxUploadBytes: cfg.Limits.MaxUploadBytes,
		SignedURLTTL:   cfg.Limits.SignedURLTTL,
	})
	shareSvc := service.NewShareService(linkRepo, folderRepo, fileRepo, objStore, logger, service.ShareOptions{
		LinkTTL:      cfg.Limits.ShareLinkTTL,
		SignedURLTTL: cfg.Limits.SignedURLTTL,
	})
	svcs := handlers.Services{
		Folders: folderSvc,
		Files:   fileSvc,
		Shares:  shareSvc,
		Search:  service.NewSearchService(folderRepo, fileRepo),
		Batch:   service.NewBatchDeleter(folderSvc, fileSvc, logger, cfg.Limits.BulkDeleteConcurrency),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    int(cfg.Limits.MaxUploadBytes) + multipartOverhead,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	// Structured access log, one entry per request
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, svcs, middleware.RequireAuth(verifier))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			logger.Warn("http_shutdown_failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("http_listening", zap.String("addr", addr), zap.String("storage_driver", cfg.Storage.Driver))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
