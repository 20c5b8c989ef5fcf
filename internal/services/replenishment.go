package services

import (
	"context"
	"fmt"
	"log"
)

// forecastTrailingMonths is how many trailing monthly figures feed the forecast.
const forecastTrailingMonths = 3

// ReplenishmentService estimates reorder quantities and forecasts next
// month's sales from a product's monthly sales history. No purchasing
// system is wired up; reorder requests are logged.
type ReplenishmentService struct {
	catalog ProductCatalog
}

// NewReplenishmentService creates a new replenishment advisor.
func NewReplenishmentService(catalog ProductCatalog) *ReplenishmentService {
	return &ReplenishmentService{catalog: catalog}
}

// CheckReplenishment returns the suggested reorder quantity for a product:
// last month's sales scaled by the product's replenishment threshold. Zero
// is returned when stock is above the critical limit or auto-replenish is
// off. "Last month" is the most recent entry of the sales history.
func (s *ReplenishmentService) CheckReplenishment(ctx context.Context, productID string) (float64, error) {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to load product %s: %w", productID, err)
	}

	if product.Stock > product.CriticalLimit() || !product.AutoReplenish {
		return 0, nil
	}

	salesLastMonth := 0
	if n := len(product.SalesData); n > 0 {
		salesLastMonth = product.SalesData[n-1]
	}
	amount := float64(salesLastMonth) * product.ReplenishmentThreshold

	log.Printf("Replenishment request: product %s, %.0f units", product.ID, amount)
	return amount, nil
}

// ForecastNextMonthSales returns the average of the trailing three monthly
// sales figures. ok is false when the product has no sales history.
func (s *ReplenishmentService) ForecastNextMonthSales(ctx context.Context, productID string) (forecast float64, ok bool, err error) {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to load product %s: %w", productID, err)
	}

	if len(product.SalesData) == 0 {
		return 0, false, nil
	}

	window := product.SalesData
	if len(window) > forecastTrailingMonths {
		window = window[len(window)-forecastTrailingMonths:]
	}
	sum := 0
	for _, units := range window {
		sum += units
	}
	return float64(sum) / float64(len(window)), true, nil
}
