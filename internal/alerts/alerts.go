// Package alerts delivers low-stock notifications to subscribed admins.
package alerts

import (
	"context"
	"fmt"
	"log"

	"github.com/yishak-cs/shop-analytics/internal/models"
)

const (
	// AlertExchange is the broker exchange alert payloads are published to.
	AlertExchange = "storefront_alerts"
	// LowStockRoutingKey routes low-stock alerts on the exchange.
	LowStockRoutingKey = "stock.low"

	lowStockTitle = "Low Stock Alert"
)

// AdminDirectory looks up admins holding an active notification subscription.
type AdminDirectory interface {
	SubscribedAdmins(ctx context.Context) ([]models.AdminSubscription, error)
}

// lowStockPayload builds the alert message for a product/stock pair.
func lowStockPayload(productID string, stock int) models.AlertPayload {
	return models.AlertPayload{
		Title:   lowStockTitle,
		Message: fmt.Sprintf("Product %s has only %d units left in stock", productID, stock),
	}
}

// LogAlerter writes alerts to the process log. It backs local development
// and any deployment without a message broker configured.
type LogAlerter struct {
	directory AdminDirectory
}

// NewLogAlerter creates a log-only alerter.
func NewLogAlerter(directory AdminDirectory) *LogAlerter {
	return &LogAlerter{directory: directory}
}

// Notify logs the alert payload for each subscribed admin. No subscribed
// admin is a no-op, not an error.
func (a *LogAlerter) Notify(ctx context.Context, productID string, stock int) error {
	admins, err := a.directory.SubscribedAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up subscribed admins: %w", err)
	}
	if len(admins) == 0 {
		log.Printf("No subscribed admin for low stock alert on product %s", productID)
		return nil
	}

	payload := lowStockPayload(productID, stock)
	log.Printf("Admin alert (%d recipients): %s - %s", len(admins), payload.Title, payload.Message)
	return nil
}
