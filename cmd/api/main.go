package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/flashdeck/backend/docs"
	"github.com/flashdeck/backend/internal/auth"
	"github.com/flashdeck/backend/internal/config"
	"github.com/flashdeck/backend/internal/generation"
	"github.com/flashdeck/backend/internal/handlers"
	"github.com/flashdeck/backend/internal/logger"
	"github.com/flashdeck/backend/internal/middleware"
	"github.com/flashdeck/backend/internal/repositories"
	"github.com/flashdeck/backend/internal/services"
	"github.com/flashdeck/backend/internal/tasks"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Flashdeck API
// @version 1.0
// @description API for flashcard decks, LLM pair generation and timed challenges

// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. The access_token cookie is accepted as well.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Flashdeck API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Create Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize LLM provider
	provider, err := generation.NewProvider(context.Background(), cfg.LLM, cfg.AppURL)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize LLM provider", zap.Error(err))
	}

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize repositories
	deckRepo := repositories.NewDeckRepository(db)
	pairRepo := repositories.NewPairRepository(db)
	languageRepo := repositories.NewLanguageRepository(db)
	challengeRepo := repositories.NewChallengeRepository(db)
	demoRepo := repositories.NewDemoRepository(db)
	generationRepo := repositories.NewGenerationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	userTokenRepo := repositories.NewUserTokenRepository(db)
	authCodeRepo := repositories.NewAuthCodeRepository(db)

	// Initialize services
	deckService := services.NewDeckService(deckRepo, languageRepo, logger.Logger)
	pairService := services.NewPairService(deckRepo, pairRepo, logger.Logger)
	transferService := services.NewTransferService(deckRepo, pairRepo, logger.Logger)
	challengeService := services.NewChallengeService(deckRepo, challengeRepo, demoRepo, logger.Logger)
	generationService := services.NewGenerationService(
		generationRepo,
		languageRepo,
		deckRepo,
		pairRepo,
		generation.NewGenerator(provider, logger.Logger),
		cfg.Generation.DefaultMonthlyLimit,
		logger.Logger,
	)
	authService := services.NewAuthService(
		userRepo,
		userTokenRepo,
		authCodeRepo,
		tasks.NewEnqueuer(asynqClient),
		tokenGenerator,
		cfg.AppURL,
		logger.Logger,
	)

	// Initialize handlers
	routeHandlers := []interface {
		RegisterRoutes(r chi.Router, auth handlers.RouteAuth)
	}{
		handlers.NewAuthHandler(authService, handlers.CookieConfig{
			AccessMaxAge:  tokenGenerator.AccessTokenExpiry(),
			RefreshMaxAge: tokenGenerator.RefreshTokenExpiry(),
			Secure:        cfg.CookieSecure(),
		}, logger.Logger),
		handlers.NewDeckHandler(deckService, logger.Logger),
		handlers.NewPairHandler(pairService, transferService, logger.Logger),
		handlers.NewChallengeHandler(challengeService, logger.Logger),
		handlers.NewGenerationHandler(generationService, logger.Logger),
		handlers.NewHealthHandler(logger.Logger,
			handlers.HealthCheck{Name: "postgres", Check: db.PingContext},
			handlers.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}},
		),
	}

	routeAuth := handlers.RouteAuth{
		Required: middleware.AuthMiddleware(tokenGenerator),
		Optional: middleware.OptionalAuthMiddleware(tokenGenerator),
	}

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(10 * 1024 * 1024)) // 10MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	for _, h := range routeHandlers {
		h.RegisterRoutes(r, routeAuth)
	}

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "flashdeck_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directories if running from cmd/api
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
