package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/shoporders/backend/internal/application/catalog"
	identityapp "github.com/shoporders/backend/internal/application/identity"
	"github.com/shoporders/backend/internal/application/notification"
	tradeapp "github.com/shoporders/backend/internal/application/trade"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/infrastructure/auth"
	"github.com/shoporders/backend/internal/infrastructure/cache"
	"github.com/shoporders/backend/internal/infrastructure/config"
	"github.com/shoporders/backend/internal/infrastructure/event"
	"github.com/shoporders/backend/internal/infrastructure/jobs"
	"github.com/shoporders/backend/internal/infrastructure/logger"
	"github.com/shoporders/backend/internal/infrastructure/mail"
	"github.com/shoporders/backend/internal/infrastructure/persistence"
	"github.com/shoporders/backend/internal/infrastructure/pricelist"
	"github.com/shoporders/backend/internal/infrastructure/storage"
	"github.com/shoporders/backend/internal/infrastructure/telemetry"
	"github.com/shoporders/backend/internal/interfaces/http/handler"
	"github.com/shoporders/backend/internal/interfaces/http/middleware"
	"github.com/shoporders/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/shoporders/backend/docs"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Shop Orders API
//	@version		1.0
//	@description	Retail ordering backend: partner price-list imports, catalog, basket and order workflow.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shop orders backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.DBLogLevel),
		logger.WithSlowThreshold(cfg.Log.SlowThreshold))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Redis backs the token blacklist and event idempotency; without it both stay in memory
	var (
		blacklist        auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
		idempotencyStore shared.IdempotencyStore
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		idempotencyStore = cache.NewRedisIdempotencyStore(redisClient, "shop:events:")
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memStore := cache.NewInMemoryIdempotencyStoreWithSweep(time.Minute)
		defer func() { _ = memStore.Close() }()
		idempotencyStore = memStore
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	tokenRepo := persistence.NewGormConfirmTokenRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	shopRepo := persistence.NewGormShopRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	sender, err := mail.NewSender(cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mail sender", zap.Error(err))
	}

	var (
		jobClient   *jobs.Client
		emailQueue  notification.EmailQueue
		importQueue catalogapp.ImportQueue
	)
	if cfg.Jobs.Enabled {
		jobClient = jobs.NewClient(cfg.Redis, cfg.Jobs, log)
		defer func() { _ = jobClient.Close() }()
		emailQueue = jobClient
		importQueue = jobClient
	}

	var archive storage.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Price list bucket is not ready", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
		archive = s3
	}

	// Domain events
	eventBus := event.NewInMemoryEventBus(log)
	idempotency := event.WithIdempotencyConfig(shared.IdempotencyConfig{
		TTL:     cfg.Events.IdempotencyTTL,
		Enabled: cfg.Events.IdempotencyTTL > 0,
	})

	dispatcher := notification.NewMailDispatcher(sender, emailQueue, log)
	eventBus.Subscribe(event.NewIdempotentHandler(
		notification.NewOrderStatusNotifier(userRepo, dispatcher, log), idempotencyStore, log, idempotency))

	if cfg.Events.AMQPURL != "" {
		relay, err := event.NewAMQPRelay(cfg.Events.AMQPURL, cfg.Events.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer func() { _ = relay.Close() }()
		eventBus.Subscribe(relay)
		log.Info("Event relay enabled", zap.String("exchange", cfg.Events.Exchange))
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, tokenRepo, jwtService, blacklist,
		notification.NewConfirmationMailer(dispatcher),
		identityapp.AuthServiceConfig{
			ConfirmTokenTTL:    cfg.Auth.ConfirmTokenTTL,
			ReturnConfirmToken: cfg.Auth.ReturnConfirmToken,
			PasswordMinLength:  cfg.Auth.PasswordMinLength,
		}, log)
	authService.SetEventPublisher(eventBus)
	userService := identityapp.NewUserService(userRepo, cfg.Auth.PasswordMinLength, log)
	contactService := identityapp.NewContactService(contactRepo, log)

	catalogService := catalogapp.NewCatalogService(shopRepo, categoryRepo, productRepo, userRepo, log)
	partnerService := catalogapp.NewPartnerService(userRepo, shopRepo, productRepo, orderRepo,
		pricelist.NewFetcher(cfg.PriceList), archive, importQueue, log)
	partnerService.SetEventPublisher(eventBus)

	cartService := tradeapp.NewCartService(orderRepo, productRepo, shopRepo, log)
	orderService := tradeapp.NewOrderService(orderRepo, productRepo, contactRepo, log)
	orderService.SetEventPublisher(eventBus)

	// Background worker runs in-process alongside the API
	var worker *jobs.Worker
	if cfg.Jobs.Enabled {
		worker = jobs.NewWorker(cfg.Redis, cfg.Jobs, sender, partnerService, log)
		if err := worker.Start(); err != nil {
			log.Fatal("Failed to start job worker", zap.Error(err))
		}
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine, stopLimiters := router.New(router.Options{
		APIVersion:     cfg.App.APIVersion,
		HTTP:           cfg.HTTP,
		Swagger:        cfg.Swagger.Enabled,
		Tracing:        tracerProvider.IsEnabled(),
		ServiceName:    cfg.Telemetry.ServiceName,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService, contactService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Partner: handler.NewPartnerHandler(partnerService),
		Cart:    handler.NewCartHandler(cartService),
		Order:   handler.NewOrderHandler(orderService),
		Health:  handler.NewHealthHandler(db, version),
	})
	defer stopLimiters()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Stop()
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
