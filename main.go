package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/agrilink-hq/agrilink-engine/pkg/auth"
	"github.com/agrilink-hq/agrilink-engine/pkg/config"
	"github.com/agrilink-hq/agrilink-engine/pkg/database"
	"github.com/agrilink-hq/agrilink-engine/pkg/handlers"
	"github.com/agrilink-hq/agrilink-engine/pkg/logging"
	"github.com/agrilink-hq/agrilink-engine/pkg/middleware"
	"github.com/agrilink-hq/agrilink-engine/pkg/realtime"
	"github.com/agrilink-hq/agrilink-engine/pkg/repositories"
	"github.com/agrilink-hq/agrilink-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("redis_host", cfg.Redis.Host),
	)

	ctx := context.Background()

	// Database
	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.ConnectionString(),
		MaxConnections:  cfg.Database.MaxConnections,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// Migrations run through database/sql (required by golang-migrate)
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.String("error", logging.SanitizeError(err)))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	// Redis is optional: without it notifications are stored but not pushed.
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	var publisher realtime.Publisher = realtime.NoopPublisher{}
	if redisClient != nil {
		publisher = realtime.NewRedisPublisher(redisClient, logger)
		defer func() { _ = redisClient.Close() }()
	} else {
		logger.Warn("Redis not configured, realtime delivery disabled")
	}

	// Auth
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	defer jwksClient.Close()

	authService := auth.NewAuthService(jwksClient, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)
	auth.InitSessionStore(cfg.SessionSecret)

	// Repositories
	profileRepo := repositories.NewProfileRepository(db)
	connectionRepo := repositories.NewConnectionRepository(db)
	quoteRepo := repositories.NewQuoteRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Services
	notificationService := services.NewNotificationService(notificationRepo, publisher, logger)
	profileService := services.NewProfileService(profileRepo, logger)
	connectionService := services.NewConnectionService(connectionRepo, profileRepo, messageRepo, notificationService, logger)
	quoteService := services.NewQuoteService(quoteRepo, connectionRepo, profileRepo, notificationService, logger)
	messageService := services.NewMessageService(messageRepo, connectionRepo, profileRepo, notificationService, logger)

	// Handlers
	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(cfg, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewProfileHandler(profileService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewConnectionHandler(connectionService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewQuoteHandler(quoteService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewMessageHandler(messageService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewNotificationHandler(notificationService, logger).RegisterRoutes(mux, authMiddleware)
	mux.Handle("/metrics", middleware.MetricsHandler())

	handler := middleware.RequestLogger(logger)(middleware.Metrics(mux))

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting agrilink-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))

		var serveErr error
		if cfg.TLSCertPath != "" {
			serveErr = server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			serveErr = server.ListenAndServe()
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(serveErr))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
