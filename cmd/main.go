package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog_service/config"
	"catalog_service/internal/delivery"
	"catalog_service/internal/repository"
	"catalog_service/internal/upload"
	"catalog_service/internal/usecase"
	"catalog_service/pkg/db"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("Unknown log level '%s', using info", cfg.LogLevel)
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Info("Starting Catalog Service...")

	// --- Database Connection ---
	client, err := db.Connect(cfg.MongoURI)
	if err != nil {
		logger.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()
	database := client.Database(cfg.MongoDB)
	logger.Info("Database connection established.")

	// --- File Storage ---
	fileStore, err := upload.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logger.Fatalf("FATAL: Failed to prepare upload storage: %v", err)
	}
	pipeline := upload.NewPipeline(fileStore, upload.Config{PublicPrefix: cfg.PublicPrefix}, logger)
	logger.Info("Upload pipeline initialized.")

	// --- Dependency Injection ---
	categoryRepo := repository.NewMongoCategoryRepository(database, logger)
	productRepo := repository.NewMongoProductRepository(database, logger)
	logger.Info("Repositories initialized.")

	productUseCase := usecase.NewProductUseCase(productRepo, categoryRepo, pipeline, logger)
	logger.Info("Use cases initialized.")

	productHandler := delivery.NewProductHandler(productUseCase, cfg.GalleryLimit, logger)
	logger.Info("Handlers initialized.")

	router := gin.Default()

	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Request received")
		c.Next()
		logger.WithFields(logrus.Fields{
			"status": c.Writer.Status(),
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Info("Request completed")
	})

	// Route Registration
	productHandler.RegisterRoutes(router)
	logger.Info("API Routes registered.")

	// Start Server
	logger.Infof("Starting server on port %s", cfg.HTTPPort)
	if err := router.Run(cfg.HTTPPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
