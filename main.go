package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/printforge/print-shop-api/config"
	"github.com/printforge/print-shop-api/controllers"
	"github.com/printforge/print-shop-api/middleware"
	"github.com/printforge/print-shop-api/models"
	"github.com/printforge/print-shop-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting 3D Print Shop API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Material{},
		&models.PrintConfig{},
		&models.Quote{},
		&models.Order{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Seed default materials and print configurations
	if err := models.SeedReferenceData(db); err != nil {
		log.Fatalf("Failed to seed reference data: %v", err)
	}

	// Initialize services
	if _, err := services.InitS3Service(); err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitMeshAnalyzer(cfg.MeshAnalyzerURL)
	services.InitEmailService()
	pricing := services.InitPricingService(services.PricingConfig{
		MachineHourlyRate: cfg.BaseMachineCostPerHour,
		MarkupPercentage:  cfg.MarkupPercentage,
	})
	services.InitQuoteService(pricing)
	services.InitOrderService(services.GetEmailService())

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Reference data
		v1.GET("/materials", controllers.ListMaterials)
		v1.GET("/print-configs", controllers.ListPrintConfigs)

		// Quotes: no auth, anonymous uploads get a session id
		v1.POST("/quotes", controllers.CreateQuote)
		v1.GET("/quotes/:quoteId", controllers.GetQuote)

		// Authenticated routes
		authorized := v1.Group("")
		authorized.Use(middleware.EnsureValidToken(cfg))
		{
			authorized.POST("/users", controllers.CreateUser)
			authorized.GET("/users/me", controllers.GetMyProfile)
			authorized.PUT("/users/me", controllers.UpdateMyProfile)

			authorized.POST("/orders", controllers.AcceptQuote)
			authorized.GET("/orders", controllers.ListOrders)
			authorized.GET("/orders/:orderId", controllers.GetOrder)
		}
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "3D Print Shop API is running",
	})
}
