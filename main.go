package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/studyshare-platform/material-service/internal/auth"
	"github.com/studyshare-platform/material-service/internal/config"
	"github.com/studyshare-platform/material-service/internal/handlers"
	"github.com/studyshare-platform/material-service/internal/mailer"
	"github.com/studyshare-platform/material-service/internal/otp"
	"github.com/studyshare-platform/material-service/internal/repositories/postgres"
	"github.com/studyshare-platform/material-service/internal/services"
	"github.com/studyshare-platform/material-service/internal/storage"
	"github.com/studyshare-platform/material-service/internal/utils"
	"github.com/studyshare-platform/material-service/internal/validator"
	"github.com/studyshare-platform/material-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(db)
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Initialize object storage
	blobs, err := storage.NewMinioStore(context.Background(), cfg.Minio)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// OTP codes live in Redis when available, in process memory otherwise
	var otpStore otp.Store
	if redisClient != nil {
		otpStore = otp.NewRedisStore(redisClient, config.OTPLifetime)
	} else {
		otpStore = otp.NewMemoryStore()
	}

	// Mail delivery falls back to log-only when SMTP is not configured
	var otpMailer mailer.Mailer
	if cfg.SMTP.Host != "" {
		otpMailer = mailer.NewSMTPMailer(cfg.SMTP)
	} else {
		slogLogger.Warn("SMTP not configured, OTP codes will be logged instead of mailed")
		otpMailer = mailer.NewLogMailer(slogLogger)
	}

	// Initialize validator
	validator := validator.New()

	// Initialize services
	serviceManager := services.NewDefaultServiceManager(services.Dependencies{
		Repo:       repoManager.GetRepository(),
		Ledger:     otp.NewLedger(otpStore, config.OTPLifetime),
		Tokens:     auth.NewTokenManager(cfg.JWTSecret, config.SessionLifetime),
		Hasher:     auth.NewBcryptHasher(),
		Mailer:     otpMailer,
		Blobs:      blobs,
		AdminEmail: cfg.AdminEmail,
		Logger:     slogLogger,
		Validator:  validator,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	handlers.SetupMiddleware(router, logger)

	// Setup routes
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Shutdown services
	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	// Shutdown repositories
	if err := repoManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown repositories: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
