package main

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"inventario-service/internal/blob"
	"inventario-service/internal/handler"
	mid "inventario-service/internal/middleware"
	"inventario-service/internal/store"
	"inventario-service/pkg/config"
	"inventario-service/pkg/database"
	"inventario-service/pkg/logger"
	"inventario-service/prometheus"
)

func main() {
	// Load configuration (reads .env first, then the environment)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting inventario-service", appConfig.LogFields()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Image blob store
	images, err := blob.New(blob.Config{
		Dir:               appConfig.Upload.Dir,
		AllowedExtensions: appConfig.Upload.AllowedExtensions,
	})
	if err != nil {
		log.Fatal("Failed to initialize image store", zap.Error(err))
	}

	// Stores and handlers
	db := database.GetDB()
	productHandler := handler.NewProductHandler(store.NewProductStore(db), images, appConfig.Catalog)
	categoryHandler := handler.NewCategoryHandler(store.NewCategoryStore(db))

	// Initialize Echo instance
	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(strconv.FormatInt(appConfig.Upload.MaxBytes, 10)))
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Uploaded product images
	e.Static("/uploads", images.Dir())

	// Product API routes
	productAPI := e.Group("/api/products")
	productAPI.GET("", productHandler.ListProducts)
	productAPI.GET("/:id", productHandler.GetProduct)
	productAPI.POST("", productHandler.CreateProduct)
	productAPI.PUT("/:id", productHandler.UpdateProduct)
	productAPI.DELETE("/:id", productHandler.DeleteProduct)

	// Category API routes
	categoryAPI := e.Group("/api/categories")
	categoryAPI.GET("", categoryHandler.ListCategories)
	categoryAPI.GET("/:id", categoryHandler.GetCategory)
	categoryAPI.POST("", categoryHandler.CreateCategory)
	categoryAPI.PUT("/:id", categoryHandler.UpdateCategory)
	categoryAPI.DELETE("/:id", categoryHandler.DeleteCategory)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
