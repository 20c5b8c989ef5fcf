package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yishak-cs/shop-analytics/internal/models"
)

const (
	// priceAlpha scales both the scarcity increase and the low-velocity
	// decrease.
	priceAlpha = 0.2
	// lowSalesThreshold is the trailing-window unit count below which a
	// product is considered slow-moving.
	lowSalesThreshold = 5
	// velocityWindow is the trailing window for sales-velocity counting.
	velocityWindow = 14 * 24 * time.Hour
	// minPrice is the positive floor no adjustment may cross.
	minPrice = 0.01
)

// PricingService recomputes catalog prices from stock scarcity and recent
// sales velocity, and alerts subscribed admins when stock is critical.
type PricingService struct {
	ledger  OrderLedger
	catalog ProductCatalog
	alerter AdminAlerter
	clock   Clock
}

// NewPricingService creates a pricing service. A nil clock falls back to the
// system clock.
func NewPricingService(ledger OrderLedger, catalog ProductCatalog, alerter AdminAlerter, clock Clock) *PricingService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &PricingService{ledger: ledger, catalog: catalog, alerter: alerter, clock: clock}
}

// AdjustAllPricing runs one pricing pass over the whole catalog. A failure
// on one product is logged and does not stop the pass; only a failure to
// list the catalog, or context cancellation between products, aborts it.
func (s *PricingService) AdjustAllPricing(ctx context.Context) error {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return fmt.Errorf("failed to list catalog for pricing pass: %w", err)
	}

	adjusted := 0
	for _, product := range products {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		changed, err := s.adjustProduct(ctx, product)
		if err != nil {
			log.Printf("Warning: pricing adjustment failed for product %s: %v", product.ID, err)
			continue
		}
		if changed {
			adjusted++
		}
	}

	log.Printf("Pricing pass completed: %d of %d products adjusted", adjusted, len(products))
	return nil
}

// adjustProduct applies the scarcity and low-velocity rules to one product
// and reports whether a new price was persisted.
//
// Both rules are evaluated against the same original price; when both
// trigger in one pass the low-velocity result overwrites the scarcity
// result rather than compounding with it. Consumers depend on that exact
// precedence, so it is kept even though composing the two would be the
// more obvious rule.
func (s *PricingService) adjustProduct(ctx context.Context, product models.Product) (bool, error) {
	criticalLimit := product.CriticalLimit()
	originalPrice := product.Price
	newPrice := originalPrice

	if product.Stock <= criticalLimit {
		newPrice = originalPrice * (1 + priceAlpha*float64(criticalLimit-product.Stock)/float64(criticalLimit))
		s.notifyAdmin(ctx, product.ID, product.Stock)
	}

	now := s.clock.Now()
	totalSold, err := s.ledger.UnitsSold(ctx, product.ID, now.Add(-velocityWindow), now)
	if err != nil {
		return false, fmt.Errorf("failed to compute sales velocity: %w", err)
	}
	if totalSold < lowSalesThreshold {
		newPrice = originalPrice * (1 - priceAlpha*float64(lowSalesThreshold-totalSold)/float64(lowSalesThreshold))
	}

	// Price must stay strictly positive whatever the threshold/stock combination.
	if newPrice < minPrice {
		newPrice = minPrice
	}

	if newPrice == originalPrice {
		return false, nil
	}
	if err := s.catalog.UpdatePrice(ctx, product.ID, newPrice); err != nil {
		return false, fmt.Errorf("failed to persist price %.2f: %w", newPrice, err)
	}
	return true, nil
}

// notifyAdmin sends a low-stock alert. Alert failures are logged and never
// affect the price write that follows.
func (s *PricingService) notifyAdmin(ctx context.Context, productID string, stock int) {
	if s.alerter == nil {
		return
	}
	if err := s.alerter.Notify(ctx, productID, stock); err != nil {
		log.Printf("Warning: failed to send low stock alert for product %s: %v", productID, err)
	}
}
