package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/devevent/internal/config"
	"github.com/joshua-takyi/devevent/internal/connect"
	"github.com/joshua-takyi/devevent/internal/container"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/routes"
	"github.com/joshua-takyi/devevent/internal/services"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("Starting DevEvent API server", "environment", cfg.Environment)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	mongo := connect.NewMongoConnector(cfg.MongoDBURI, cfg.MongoDBPassword)
	if err := mongo.Ping(startupCtx); err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)

	tokens, err := helpers.NewTokenManager(startupCtx, cfg.AuthSecret, cfg.AuthTokenTTL, cfg.AuthJWKSURL)
	if err != nil {
		logger.Error("Failed to initialize session tokens", "error", err)
		os.Exit(1)
	}

	var opts container.Options
	if cfg.HasCloudinary() {
		cld, err := connect.CloudinaryCredentials(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Error("Failed to connect to Cloudinary", "error", err)
			os.Exit(1)
		}
		opts.Images = helpers.NewCloudinaryUploader(cld, helpers.EventsFolder)
		logger.Info("Cloudinary image uploads enabled", "folder", helpers.EventsFolder)
	} else {
		logger.Warn("Cloudinary is not configured; events must provide an image URL")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = connect.RedisConnect(startupCtx, cfg.RedisURL)
		if err != nil {
			// Stats still work without the cache.
			logger.Warn("Redis unavailable, stats cache disabled", "error", err)
		} else {
			opts.StatsCache = services.NewRedisStatsCache(redisClient)
			logger.Info("Connected to Redis successfully")
		}
	}

	appContainer := container.NewContainer(cfg, logger, mongo, tokens, opts)

	if err := appContainer.Repo.EnsureIndexes(startupCtx); err != nil {
		logger.Error("Failed to create MongoDB indexes", "error", err)
		os.Exit(1)
	}

	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	tokens.Close()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis", "error", err)
		}
	}
	if err := mongo.Disconnect(ctx); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: parseLevel(cfg.LogLevel),
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
