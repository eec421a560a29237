package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugh/contractor-connect/internal/api"
	"github.com/hugh/contractor-connect/internal/api/middleware"
	"github.com/hugh/contractor-connect/internal/auth"
	"github.com/hugh/contractor-connect/internal/database"
	"github.com/hugh/contractor-connect/internal/notify"
	"github.com/hugh/contractor-connect/internal/notify/sendgrid"
	"github.com/hugh/contractor-connect/internal/notify/ses"
	"github.com/hugh/contractor-connect/internal/notify/twilio"
	"github.com/hugh/contractor-connect/pkg/config"
	"github.com/hugh/contractor-connect/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting ContractorConnect server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
		"db_driver", cfg.Database.Driver,
	)

	if cfg.JWT.Secret == "change-me" && !cfg.Server.IsDevelopment() {
		logger.Warn("JWT_SECRET is the default value; set a real secret")
	}

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// Redis is optional: it backs the shared rate limiter and the health probe
	redisClient := connectRedis(cfg.Redis.URL, logger)

	var limiter middleware.Limiter
	var memLimiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds)
	} else {
		memLimiter = middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds)
		limiter = memLimiter
	}

	// Notification providers; anything unconfigured degrades to "logged"
	gateway := notify.NewGateway(emailSender(cfg, logger), smsSender(cfg, logger), logger)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())

	// Create router
	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		JWTService:     jwtService,
		Gateway:        gateway,
		Limiter:        limiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if memLimiter != nil {
		memLimiter.Stop()
	}

	if redisClient != nil {
		redisClient.Close()
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}

func connectRedis(url string, logger *slog.Logger) *redis.Client {
	if url == "" {
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn("invalid REDIS_URL, using in-memory rate limiting", "error", err)
		return nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("failed to connect to Redis, using in-memory rate limiting", "error", err)
		client.Close()
		return nil
	}

	return client
}

func emailSender(cfg *config.Config, logger *slog.Logger) notify.EmailSender {
	if cfg.Email.SESEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sender, err := ses.New(ctx, ses.Options{
			Region:          cfg.Email.SESRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
			From:            cfg.Email.FromAddress,
		})
		if err != nil {
			logger.Warn("SES unavailable, email will be logged only", "error", err)
			return nil
		}
		logger.Info("email provider configured", "provider", "ses", "region", cfg.Email.SESRegion)
		return sender
	}

	sender := sendgrid.New(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress)
	if sender.Configured() {
		logger.Info("email provider configured", "provider", "sendgrid")
	} else {
		logger.Info("email provider not configured, email will be logged only")
	}
	return sender
}

func smsSender(cfg *config.Config, logger *slog.Logger) notify.SMSSender {
	sender := twilio.New(cfg.SMS.TwilioAccountSID, cfg.SMS.TwilioAuthToken, cfg.SMS.TwilioFromNumber)
	if sender.Configured() {
		logger.Info("sms provider configured", "provider", "twilio")
	} else {
		logger.Info("sms provider not configured, sms will be logged only")
	}
	return sender
}
