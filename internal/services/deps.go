package services

import (
	"context"
	"time"

	"github.com/yishak-cs/shop-analytics/internal/models"
)

// Clock supplies the current time. Injected so windowed aggregations can be
// pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// OrderLedger is the read-only view of purchase records.
type OrderLedger interface {
	// OrdersInRange returns orders with CreatedAt in [from, to).
	OrdersInRange(ctx context.Context, from, to time.Time) ([]models.Order, error)
	// OrdersByBuyer returns every order the given buyer has placed.
	OrdersByBuyer(ctx context.Context, buyerID string) ([]models.Order, error)
	// UnitsSold returns the total quantity of a product sold in [from, to).
	UnitsSold(ctx context.Context, productID string, from, to time.Time) (int, error)
}

// ProductCatalog is the view of catalog products. Price is the only field
// written through it.
type ProductCatalog interface {
	Product(ctx context.Context, id string) (models.Product, error)
	Products(ctx context.Context) ([]models.Product, error)
	UpdatePrice(ctx context.Context, id string, price float64) error
	ProductsByCategories(ctx context.Context, categories, excludeIDs []string, limit int) ([]models.Product, error)
}

// AdminAlerter delivers low-stock alerts to subscribed admins.
type AdminAlerter interface {
	Notify(ctx context.Context, productID string, stock int) error
}
