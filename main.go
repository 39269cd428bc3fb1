package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/config"
	"github.com/SAP-F-2025/learning-service/internal/handlers"
	"github.com/SAP-F-2025/learning-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/learning-service/internal/scheduler"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/SAP-F-2025/learning-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogLogger := utils.NewSlog(cfg.LogLevel, cfg.IsProduction())
	logger := utils.NewSlogLogger(slogLogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Redis is optional; without it every read goes to the database
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled", "error", err)
			redisClient = nil
		}
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		log.Fatalf("Failed to create event publisher: %v", err)
	}

	serviceManager := services.NewServiceManager(services.ServiceManagerConfig{
		Repo:           postgres.NewPostgreSQLRepository(db),
		Cache:          cache.NewRedisCache(redisClient, slogLogger),
		CacheTTL:       cfg.CacheTTL,
		EventPublisher: publisher,
		Logger:         slogLogger,
		Validator:      validator.New(),
	})

	reconciler := scheduler.NewRatingReconciler(serviceManager.Rating(), cfg.RatingReconcileSchedule, slogLogger)
	if err := reconciler.Start(); err != nil {
		log.Fatalf("Failed to start rating reconciler: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)

	authenticator := handlers.NewAuthenticator(cfg.Casdoor, logger)
	handlers.NewHandlerManager(serviceManager, authenticator, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.LogError(err, "Server forced to shutdown")
	}

	reconciler.Stop(ctx)

	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.LogError(err, "Failed to shutdown services")
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.LogError(err, "Failed to close redis")
		}
	}

	logger.Info("Server exited")
}
