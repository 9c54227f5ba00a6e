package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crmadmin/docs/swagger"
	"crmadmin/internal/api"
	"crmadmin/internal/config"
	"crmadmin/internal/db"
	"crmadmin/internal/services"
	"crmadmin/internal/tasks"
	"crmadmin/internal/utils/logger"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// 🚀 Main function
// @title CRM Admin API
// @version 1.0
// @description Multi-tenant CRM admin backend with menu-level permissions
// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := logger.New("crmadmin")

	// check if .env file exists
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		logger.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := db.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database connection: %v", err)
		}
	}()

	dbInstance := db.GetDB()

	// Shared redis client for token revocation
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Object storage is optional in local setups
	var s3Service *services.S3Service
	if cfg.Storage.S3.BucketName != "" {
		s3Service, err = services.NewS3Service(cfg.Storage.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
	} else {
		logger.Warn("S3 bucket not configured, uploads and stored exports are disabled")
	}

	// Initialize task handlers
	taskHandler := tasks.NewTaskHandler(dbInstance, services.NewExportService(dbInstance, s3Service))
	taskClient := tasks.NewTaskClient(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
	defer taskClient.Close()

	// Initialize task server
	taskServer := tasks.NewServer(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Worker.Concurrency,
		taskHandler,
		logger,
	)

	// Create a context for task server
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	// Start task server
	go func() {
		if err := taskServer.Start(serverCtx); err != nil {
			_ = logger.Error("Task server error", err)
		}
	}()

	// Initialize task scheduler
	taskScheduler := tasks.NewScheduler(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Retention.LogDays,
		logger,
	)

	// Start task scheduler
	go func() {
		if err := taskScheduler.Start(); err != nil {
			_ = logger.Error("Task scheduler error", err)
		}
	}()

	// Initialize API server
	apiServer := api.NewServer(cfg, dbInstance, redisClient, s3Service, taskClient)
	if apiServer == nil {
		log.Fatal("Failed to initialize API server")
	}

	go func() {
		// Swagger documentation
		swagger.SwaggerInfo.Title = "CRM Admin API"
		swagger.SwaggerInfo.Description = "Multi-tenant CRM admin backend with menu-level permissions"
		swagger.SwaggerInfo.Version = "1.0"
		swagger.SwaggerInfo.Host = cfg.Server.PublicURL
		swagger.SwaggerInfo.Schemes = []string{"http", "https"}

		logger.Success("API server starting")
		if err := apiServer.Start(); err != nil {
			_ = logger.Error("API server error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the servers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop task scheduler
	taskScheduler.Stop()

	// Stop task server
	taskServer.Shutdown()
	serverCancel()

	// Shutdown API server
	if err := apiServer.Shutdown(ctx); err != nil {
		_ = logger.Error("Failed to shutdown API server", err)
	}

	logger.Info("Servers shutdown gracefully")
}
