package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/auth"
	"github.com/feedforge/feedforge-engine/pkg/config"
	"github.com/feedforge/feedforge-engine/pkg/crypto"
	"github.com/feedforge/feedforge-engine/pkg/database"
	"github.com/feedforge/feedforge-engine/pkg/handlers"
	"github.com/feedforge/feedforge-engine/pkg/linkedin"
	"github.com/feedforge/feedforge-engine/pkg/llm"
	"github.com/feedforge/feedforge-engine/pkg/middleware"
	"github.com/feedforge/feedforge-engine/pkg/repositories"
	"github.com/feedforge/feedforge-engine/pkg/services"
	"github.com/feedforge/feedforge-engine/pkg/storage"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("database", cfg.Database.Host),
		zap.Bool("redis", cfg.Redis.Host != ""),
		zap.Bool("linkedin", cfg.LinkedIn.ClientID != ""),
		zap.Bool("storage", cfg.Storage.BaseURL != ""))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.ConnectionString(),
		MaxConnections:  cfg.Database.MaxConnections,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	llmClient, err := llm.NewClientFromConfig(&cfg.AI, logger)
	if err != nil {
		logger.Fatal("Failed to create AI client", zap.Error(err))
	}

	// Object storage is optional; image generation is rejected without it.
	var store services.ObjectStore
	if cfg.Storage.BaseURL != "" {
		storageClient, err := storage.NewClient(&storage.Config{
			BaseURL: cfg.Storage.BaseURL,
			APIKey:  cfg.Storage.APIKey,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create storage client", zap.Error(err))
		}
		store = storageClient
	}

	// Repositories
	ledgerRepo := repositories.NewLedgerRepository()
	newsRepo := repositories.NewNewsRepository()
	topicRepo := repositories.NewTopicRepository()
	draftRepo := repositories.NewDraftRepository()
	assetRepo := repositories.NewAssetRepository()
	pubRepo := repositories.NewPublicationRepository()
	settingsRepo := repositories.NewSettingsRepository()
	tokenRepo := repositories.NewTokenRepository()

	// Services
	settingsService := services.NewSettingsService(settingsRepo, redisClient, logger)
	generationService := services.NewGenerationService(
		llmClient, ledgerRepo, topicRepo, draftRepo, assetRepo,
		settingsService, store, cfg.Storage.Bucket, cfg.AI.Temperature, logger)
	contentService := services.NewContentService(
		newsRepo, topicRepo, draftRepo, assetRepo, pubRepo,
		store, cfg.Storage.Bucket, logger)

	var tokenEnc *crypto.TokenEncryptor
	if cfg.LinkedIn.TokenEncryptionKey != "" {
		tokenEnc, err = crypto.NewTokenEncryptor(cfg.LinkedIn.TokenEncryptionKey)
		if err != nil {
			logger.Fatal("Failed to create token encryptor", zap.Error(err))
		}
	}

	linkedinClient := linkedin.NewClient(&linkedin.Config{
		ClientID:     cfg.LinkedIn.ClientID,
		ClientSecret: cfg.LinkedIn.ClientSecret,
		RedirectURL:  cfg.LinkedIn.RedirectURL,
	}, logger)
	linkedinService := services.NewLinkedInService(linkedinClient, tokenRepo, tokenEnc, logger)

	// Without OAuth credentials only manual publishes are accepted.
	var publisher services.Publisher
	if cfg.LinkedIn.ClientID != "" {
		publisher = linkedinService
	}
	publishService := services.NewPublishService(draftRepo, assetRepo, pubRepo, publisher, logger)

	// HTTP surface
	authMW := auth.NewMiddleware(cfg.Auth.JWTSecret, logger)
	wrap := func(next http.HandlerFunc) http.HandlerFunc {
		return authMW.RequireAuth(handlers.WithOwnerScope(db, next))
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewGenerationHandler(generationService, ledgerRepo, logger).RegisterRoutes(mux, wrap)
	handlers.NewNewsHandler(contentService, logger).RegisterRoutes(mux, wrap)
	handlers.NewTopicsHandler(contentService, logger).RegisterRoutes(mux, wrap)
	handlers.NewDraftsHandler(contentService, publishService, logger).RegisterRoutes(mux, wrap)
	handlers.NewAssetsHandler(contentService, logger).RegisterRoutes(mux, wrap)
	handlers.NewPublicationsHandler(publishService, logger).RegisterRoutes(mux, wrap)
	handlers.NewSettingsHandler(settingsService, logger).RegisterRoutes(mux, wrap)
	handlers.NewLinkedInHandler(linkedinService, cfg.Auth.SessionSecret, logger).RegisterRoutes(mux, wrap)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:      middleware.RequestLogger(logger)(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation requests can be slow
	}

	go func() {
		logger.Info("Starting feedforge-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return database.RunMigrations(sqlDB, cfg.MigrationsPath, logger)
}
