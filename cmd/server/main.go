package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quotevoice/backend/internal/application/invoicing"
	orgapp "github.com/quotevoice/backend/internal/application/organization"
	quoteapp "github.com/quotevoice/backend/internal/application/quote"
	"github.com/quotevoice/backend/internal/application/rendering"
	"github.com/quotevoice/backend/internal/infrastructure/auth"
	"github.com/quotevoice/backend/internal/infrastructure/cache"
	"github.com/quotevoice/backend/internal/infrastructure/config"
	"github.com/quotevoice/backend/internal/infrastructure/event"
	"github.com/quotevoice/backend/internal/infrastructure/logger"
	"github.com/quotevoice/backend/internal/infrastructure/persistence"
	"github.com/quotevoice/backend/internal/infrastructure/printing"
	"github.com/quotevoice/backend/internal/infrastructure/scheduler"
	"github.com/quotevoice/backend/internal/infrastructure/storage"
	"github.com/quotevoice/backend/internal/interfaces/http/handler"
	"github.com/quotevoice/backend/internal/interfaces/http/middleware"
	"github.com/quotevoice/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting QuoteVoice backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	db, err := persistence.NewDatabase(&cfg.Database, log.Named("gorm"))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	redisClient := connectRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Repositories
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	sequence := persistence.NewGormNumberSequence(db.DB, cfg.Invoice.NumberPrefix)

	// PDF cache and renderer
	pdfCache := cache.NewPDFCacheFactory(cfg.Cache, cfg.Redis,
		cache.WithLogger(log),
		cache.WithRedisClient(redisClient),
	).Create(ctx)

	renderer, closeRenderer, err := printing.NewDocumentRenderer(cfg.PDF, log.Named("printing"))
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := closeRenderer(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	// Application services
	quoteService := quoteapp.NewQuoteService(quoteRepo, orgRepo, log.Named("quote"))
	invoiceService := invoicing.NewInvoiceService(quoteRepo, invoiceRepo, sequence, orgRepo, auditRepo, cfg.Invoice, log.Named("invoicing"))
	renderingService := rendering.NewRenderingService(quoteRepo, invoiceRepo, orgRepo, auditRepo, pdfCache, renderer, log.Named("rendering"))
	profileService := orgapp.NewProfileService(orgRepo, log.Named("organization"))

	if cfg.Storage.Enabled {
		archive, err := storage.NewS3Archive(ctx, &cfg.Storage, storage.WithLogger(log.Named("storage")))
		if err != nil {
			log.Fatal("Failed to initialize document archive", zap.Error(err))
		}
		invoiceService.SetArchive(archive)
		log.Info("Document archive enabled", zap.String("bucket", archive.Bucket()))
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log.Named("events"))
	invalidation := event.NewPDFCacheInvalidationHandler(pdfCache, log.Named("events"))
	eventBus.Subscribe(invalidation)
	log.Info("Event handlers registered", zap.Strings("pdf_cache_invalidation", invalidation.EventTypes()))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	quoteService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	profileService.SetEventPublisher(eventBus)

	// Overdue sweeper
	if cfg.Scheduler.OverdueEnabled {
		sweeper, err := scheduler.NewOverdueSweeper(invoiceService, cfg.Scheduler, log.Named("scheduler"))
		if err != nil {
			log.Fatal("Failed to create overdue sweeper", zap.Error(err))
		}
		if err := sweeper.Start(ctx); err != nil {
			log.Fatal("Failed to start overdue sweeper", zap.Error(err))
		}
		defer func() {
			if err := sweeper.Stop(context.Background()); err != nil {
				log.Error("Error stopping overdue sweeper", zap.Error(err))
			}
		}()
		log.Info("Overdue sweeper started", zap.Duration("interval", cfg.Scheduler.OverdueInterval))
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	verifier := auth.NewVerifier(cfg.JWT)
	apiMiddleware := []gin.HandlerFunc{
		middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			Verifier: verifier,
			Logger:   log,
		}),
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter, stop := newRateLimiter(cfg.HTTP, redisClient, log)
		defer stop()
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(limiter, log))
		log.Info("Rate limiting enabled",
			zap.String("backend", cfg.HTTP.RateLimitBackend),
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	checks := map[string]handler.HealthCheck{"database": db.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	router.Mount(engine, router.Handlers{
		Quote:        handler.NewQuoteHandler(quoteService),
		Invoice:      handler.NewInvoiceHandler(invoiceService),
		Document:     handler.NewDocumentHandler(renderingService),
		Organization: handler.NewOrganizationHandler(profileService),
		System:       handler.NewSystemHandler(cfg.App.Name, version, checks),
	}, apiMiddleware...)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// connectRedis dials Redis when a host is configured and some component asks
// for it. Failure is logged and the caller degrades to in-process backends.
func connectRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) *redis.Client {
	wanted := cfg.Cache.Backend == "redis" ||
		(cfg.HTTP.RateLimitEnabled && cfg.HTTP.RateLimitBackend == "redis")
	if !wanted || cfg.Redis.Host == "" {
		return nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-process backends", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		return nil
	}
	log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	return client
}

func newRateLimiter(cfg config.HTTPConfig, client *redis.Client, log *zap.Logger) (middleware.Limiter, func()) {
	if cfg.RateLimitBackend == "redis" {
		if client != nil {
			return middleware.NewRedisLimiter(client, cfg.RateLimitRequests, cfg.RateLimitWindow), func() {}
		}
		log.Warn("Redis rate limiter requested without Redis, using in-memory limiter")
	}
	limiter := middleware.NewMemoryLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	return limiter, limiter.Stop
}
