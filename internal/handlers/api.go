package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yishak-cs/shop-analytics/internal/models"
	"github.com/yishak-cs/shop-analytics/internal/services"
)

// HealthChecker reports backing-store availability.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// APIHandler handles all API requests
type APIHandler struct {
	sales         *services.SalesService
	recs          *services.RecommendationService
	replenishment *services.ReplenishmentService
	health        HealthChecker
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(sales *services.SalesService, recs *services.RecommendationService, replenishment *services.ReplenishmentService, health HealthChecker) *APIHandler {
	return &APIHandler{
		sales:         sales,
		recs:          recs,
		replenishment: replenishment,
		health:        health,
	}
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/products/top-selling", h.GetTopSelling)
		api.GET("/products/trending", h.GetTrending)
		api.GET("/products/:productId/sales-forecast", h.GetSalesForecast)
		api.GET("/recommendations/:buyerId", h.GetRecommendations)
		api.GET("/health", h.GetHealth)
	}
}

// GetTopSelling handles requests for the best-selling products of the week
func (h *APIHandler) GetTopSelling(c *gin.Context) {
	items, err := h.sales.TopSelling(c.Request.Context())
	if err != nil {
		log.Printf("Error getting top selling products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get top selling products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topSellingItems": items,
	})
}

// GetTrending handles requests for products with the highest week-over-week growth.
// The response key keeps the capitalization the storefront client expects.
func (h *APIHandler) GetTrending(c *gin.Context) {
	trends, err := h.sales.Trending(c.Request.Context())
	if err != nil {
		log.Printf("Error getting trending products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get trending products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"TrendingItems": trends,
	})
}

// GetRecommendations handles requests for a buyer's personalized recommendations
func (h *APIHandler) GetRecommendations(c *gin.Context) {
	buyerID := c.Param("buyerId")
	if buyerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid buyer ID"})
		return
	}

	recommendations, err := h.recs.Recommendations(c.Request.Context(), buyerID)
	if err != nil {
		log.Printf("Error getting recommendations for buyer %s: %v", buyerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
	})
}

// GetSalesForecast handles requests for a product's next-month sales forecast
func (h *APIHandler) GetSalesForecast(c *gin.Context) {
	productID := c.Param("productId")

	forecast, ok, err := h.replenishment.ForecastNextMonthSales(c.Request.Context(), productID)
	if errors.Is(err, models.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		log.Printf("Error forecasting sales for product %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to forecast sales"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"productId": productID,
			"forecast":  nil,
			"message":   "No sales history available",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"productId": productID,
		"forecast":  forecast,
	})
}

// GetHealth reports backing-store availability
func (h *APIHandler) GetHealth(c *gin.Context) {
	if err := h.health.Health(c.Request.Context()); err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
