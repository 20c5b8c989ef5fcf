package models

import (
	"errors"
	"time"
)

// ErrProductNotFound is returned by catalog lookups for unknown or deleted products.
var ErrProductNotFound = errors.New("product not found")

// DefaultCriticalStock is the threshold used when a product has none configured.
const DefaultCriticalStock = 10

// Product represents a catalog product. Price is the only field this service
// writes; stock is owned by the external restock and checkout flows.
type Product struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	Category               string  `json:"category"`
	Price                  float64 `json:"price"`
	Stock                  int     `json:"stock"`
	CriticalStock          int     `json:"critical_stock"`
	SalesCount             int     `json:"sales_count"`
	Views                  int     `json:"views"`
	CartAdditions          int     `json:"cart_additions"`
	ReplenishmentThreshold float64 `json:"replenishment_threshold"`
	AutoReplenish          bool    `json:"auto_replenish"`
	SalesData              []int   `json:"sales_data,omitempty"`
}

// CriticalLimit returns the configured critical stock threshold, falling back
// to DefaultCriticalStock when unset.
func (p Product) CriticalLimit() int {
	if p.CriticalStock > 0 {
		return p.CriticalStock
	}
	return DefaultCriticalStock
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Order represents a purchase record. Orders are written by the external
// checkout flow and never mutated here; CreatedAt anchors all windowing.
type Order struct {
	ID          string      `json:"id"`
	BuyerID     string      `json:"buyer_id"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
}

// TopSeller is one entry of the top-selling ranking.
type TopSeller struct {
	ProductID string  `json:"productId"`
	TotalSold int     `json:"totalSold"`
	Product   Product `json:"productDetails"`
}

// Trend is one entry of the trending ranking: week-over-week growth in
// units sold, as a percentage.
type Trend struct {
	ProductID string  `json:"productId"`
	Growth    float64 `json:"growth"`
}

// AlertPayload is the message delivered to subscribed admins.
type AlertPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// AdminSubscription identifies an admin user holding an active
// notification subscription.
type AdminSubscription struct {
	UserID   string `json:"user_id"`
	Endpoint string `json:"endpoint,omitempty"`
}
