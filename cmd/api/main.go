package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"appnube-sync-layer/internal/application"
	"appnube-sync-layer/internal/application/webhook_handlers"
	"appnube-sync-layer/internal/infrastructure/api"
	"appnube-sync-layer/internal/infrastructure/cache"
	"appnube-sync-layer/internal/infrastructure/debounce"
	"appnube-sync-layer/internal/infrastructure/encryption"
	"appnube-sync-layer/internal/infrastructure/mail"
	"appnube-sync-layer/internal/infrastructure/metrics"
	"appnube-sync-layer/internal/infrastructure/repository"
	"appnube-sync-layer/internal/infrastructure/tiendanube"
	"appnube-sync-layer/internal/ports"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type config struct {
	Port            string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	EncryptionKey   string
	JWTSecret       string
	TNClientID      string
	TNClientSecret  string
	TNUserAgent     string
	AppURL          string
	DefaultLanguage string
	AllowedOrigins  []string
}

func loadConfig() config {
	cfg := config{
		Port:            getEnv("PORT", "8080"),
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "appnube"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		EncryptionKey:   os.Getenv("ENCRYPTION_KEY"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TNClientID:      os.Getenv("TIENDANUBE_CLIENT_ID"),
		TNClientSecret:  os.Getenv("TIENDANUBE_CLIENT_SECRET"),
		TNUserAgent:     getEnv("TIENDANUBE_USER_AGENT", "appnube-sync-layer (dev@appnube.example)"),
		AppURL:          getEnv("APP_URL", "http://localhost:8080"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", application.DefaultLanguage),
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			cfg.RedisDB = n
		}
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Missing .env is fine in production, where configuration comes from
	// the environment.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := loadConfig()
	if cfg.EncryptionKey == "" {
		logger.Fatal().Msg("ENCRYPTION_KEY is required")
	}
	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is required")
	}
	if cfg.TNClientID == "" || cfg.TNClientSecret == "" {
		logger.Fatal().Msg("TIENDANUBE_CLIENT_ID and TIENDANUBE_CLIENT_SECRET are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ping MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()
	logger.Info().Str("database", cfg.MongoDatabase).Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	var appCache ports.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisCache.Close()
		appCache = redisCache
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, caching and webhook dedup disabled")
		appCache = cache.NewNoopCache()
	}

	encryptionSvc, err := encryption.NewService(cfg.EncryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Repositories
	storeRepo := repository.NewMongoStoreRepository(db)
	productRepo := repository.NewMongoProductRepository(db)
	categoryRepo := repository.NewMongoCategoryRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	favoriteRepo := repository.NewMongoFavoriteRepository(db)

	// Upstream client and application services
	tnClient := tiendanube.NewClient(cfg.TNClientID, cfg.TNClientSecret, cfg.TNUserAgent, logger,
		tiendanube.WithMetrics(m))
	normalizer := application.NewNormalizer(cfg.DefaultLanguage)

	productSync := application.NewProductSyncService(tnClient, productRepo, storeRepo, encryptionSvc, normalizer, m, logger)
	categorySync := application.NewCategorySyncService(tnClient, categoryRepo, storeRepo, encryptionSvc, normalizer, appCache, m, logger)
	syncSvc := application.NewSyncService(productSync, categorySync, logger)

	productSvc := application.NewProductService(productRepo, logger)
	categorySvc := application.NewCategoryService(categoryRepo, appCache, logger)
	storeSvc := application.NewStoreService(storeRepo, productRepo, categoryRepo, logger)
	oauthSvc := application.NewOAuthService(tnClient, storeRepo, encryptionSvc, syncSvc,
		cfg.AppURL+"/api/webhooks/tiendanube", logger)

	mailer := mail.NewLogMailer(cfg.AppURL, logger)
	authSvc := application.NewAuthService(userRepo, mailer, cfg.JWTSecret, 0, logger)
	favoriteSvc := application.NewFavoriteService(favoriteRepo, productRepo, logger)

	// Webhook pipeline
	debouncer := debounce.NewDebouncer(debounce.DefaultWindow, logger)
	dispatcher := application.NewWebhookDispatcher(appCache, m, logger,
		webhook_handlers.NewProductHandler(productSync, debouncer, logger),
		webhook_handlers.NewCategoryHandler(categorySync, debouncer, logger),
		webhook_handlers.NewAppUninstalledHandler(storeSvc, logger),
		webhook_handlers.NewStoreRedactHandler(storeSvc, logger),
	)
	verifier := tiendanube.NewWebhookVerifier(cfg.TNClientSecret)

	router := api.NewRouter(api.RouterConfig{
		Products:       api.NewProductHandler(productSvc, logger),
		Categories:     api.NewCategoryHandler(categorySvc, logger),
		Stores:         api.NewStoreHandler(storeSvc, syncSvc, logger),
		Auth:           api.NewAuthHandler(authSvc, logger),
		Favorites:      api.NewFavoriteHandler(favoriteSvc, logger),
		Webhooks:       api.NewWebhookHandler(verifier, dispatcher, logger),
		OAuth:          api.NewOAuthHandler(oauthSvc, os.Getenv("OAUTH_SUCCESS_URL"), logger),
		Registry:       registry,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // manual syncs can outlive the usual budget
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := debouncer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Debouncer shutdown did not drain in time")
	}

	logger.Info().Msg("Server stopped")
}
