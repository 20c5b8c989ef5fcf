package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yishak-cs/shop-analytics/internal/alerts"
	"github.com/yishak-cs/shop-analytics/internal/database"
	"github.com/yishak-cs/shop-analytics/internal/handlers"
	"github.com/yishak-cs/shop-analytics/internal/memstore"
	"github.com/yishak-cs/shop-analytics/internal/scheduler"
	"github.com/yishak-cs/shop-analytics/internal/services"
	"github.com/yishak-cs/shop-analytics/pkg/helper"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	config := helper.LoadConfigFromEnv()

	var (
		ledger    services.OrderLedger
		catalog   services.ProductCatalog
		directory alerts.AdminDirectory
		health    handlers.HealthChecker
	)

	if config.Neo4j.URI != "" {
		client, err := database.NewNeo4jClient(config.Neo4j)
		if err != nil {
			log.Fatalf("Failed to connect to Neo4j: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(ctx); err != nil {
				log.Printf("Error closing Neo4j connection: %v", err)
			}
		}()

		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := database.Migrate(migrateCtx, client); err != nil {
			cancel()
			log.Fatalf("Failed to run schema migration: %v", err)
		}
		cancel()

		ledger = database.NewOrderLedger(client)
		catalog = database.NewProductCatalog(client)
		directory = database.NewAdminDirectory(client)
		health = client
	} else {
		log.Println("NEO4J_URI not set, using in-memory store")
		store := memstore.New()
		ledger = store
		catalog = store
		directory = store
		health = store
	}

	// Pick the alert transport
	var alerter services.AdminAlerter
	if config.RabbitURL != "" {
		rabbit, err := alerts.NewRabbitAlerter(config.RabbitURL, directory)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer rabbit.Close()
		alerter = rabbit
	} else {
		log.Println("RABBITMQ_URL not set, logging admin alerts instead")
		alerter = alerts.NewLogAlerter(directory)
	}

	// Initialize services
	clock := services.SystemClock{}
	salesService := services.NewSalesService(ledger, catalog, clock)
	recommendationService := services.NewRecommendationService(ledger, catalog)
	replenishmentService := services.NewReplenishmentService(catalog)
	pricingService := services.NewPricingService(ledger, catalog, alerter, clock)

	// Start the periodic re-pricing job
	pricingScheduler := scheduler.New("pricing", config.PricingInterval, pricingService.AdjustAllPricing)
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()
	pricingScheduler.Start(schedulerCtx)

	// Initialize API handlers
	apiHandler := handlers.NewAPIHandler(salesService, recommendationService, replenishmentService, health)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	apiHandler.SetupRoutes(router)

	// Create server with graceful shutdown
	srv := &http.Server{
		Addr:    config.HTTPAddr,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", config.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Let an in-flight pricing pass finish, then stop the HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := pricingScheduler.Stop(ctx); err != nil {
		log.Printf("Pricing scheduler did not stop cleanly: %v", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
