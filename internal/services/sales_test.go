package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yishak-cs/shop-analytics/internal/memstore"
	"github.com/yishak-cs/shop-analytics/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

func daysAgo(days int) time.Time {
	return testNow.Add(-time.Duration(days) * 24 * time.Hour)
}

func order(buyerID string, createdAt time.Time, items ...models.OrderItem) models.Order {
	return models.Order{
		BuyerID:   buyerID,
		Items:     items,
		CreatedAt: createdAt,
	}
}

func newSalesFixture() (*memstore.Store, *SalesService) {
	store := memstore.New()
	return store, NewSalesService(store, store, fixedClock{testNow})
}

func TestTopSellingRanksByUnitsSold(t *testing.T) {
	store, sales := newSalesFixture()
	p1 := store.AddProduct(models.Product{ID: "p1", Name: "Serum", Category: "Skincare", Price: 20})
	p2 := store.AddProduct(models.Product{ID: "p2", Name: "Balm", Category: "Skincare", Price: 8})

	store.AddOrder(order("buyer-1", daysAgo(1), models.OrderItem{ProductID: p1.ID, Quantity: 5}))
	store.AddOrder(order("buyer-2", daysAgo(3), models.OrderItem{ProductID: p1.ID, Quantity: 4}))
	store.AddOrder(order("buyer-3", daysAgo(6), models.OrderItem{ProductID: p1.ID, Quantity: 3}, models.OrderItem{ProductID: p2.ID, Quantity: 5}))

	top, err := sales.TopSelling(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, "p1", top[0].ProductID)
	assert.Equal(t, 12, top[0].TotalSold)
	assert.Equal(t, "Serum", top[0].Product.Name)
	assert.Equal(t, "p2", top[1].ProductID)
	assert.Equal(t, 5, top[1].TotalSold)
}

func TestTopSellingIgnoresOrdersOutsideWindow(t *testing.T) {
	store, sales := newSalesFixture()
	store.AddProduct(models.Product{ID: "p1", Price: 10})
	store.AddProduct(models.Product{ID: "p2", Price: 10})

	store.AddOrder(order("buyer-1", daysAgo(8), models.OrderItem{ProductID: "p1", Quantity: 100}))
	store.AddOrder(order("buyer-2", daysAgo(2), models.OrderItem{ProductID: "p2", Quantity: 1}))

	top, err := sales.TopSelling(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "p2", top[0].ProductID)
	assert.Equal(t, 1, top[0].TotalSold)
}

func TestTopSellingCapsAtThree(t *testing.T) {
	store, sales := newSalesFixture()
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		store.AddProduct(models.Product{ID: id, Price: 10})
	}
	store.AddOrder(order("buyer-1", daysAgo(1),
		models.OrderItem{ProductID: "p1", Quantity: 4},
		models.OrderItem{ProductID: "p2", Quantity: 9},
		models.OrderItem{ProductID: "p3", Quantity: 2},
		models.OrderItem{ProductID: "p4", Quantity: 7},
	))

	top, err := sales.TopSelling(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"p2", "p4", "p1"}, []string{top[0].ProductID, top[1].ProductID, top[2].ProductID})
	assert.True(t, top[0].TotalSold >= top[1].TotalSold)
	assert.True(t, top[1].TotalSold >= top[2].TotalSold)
}

func TestTopSellingEmptyWindow(t *testing.T) {
	_, sales := newSalesFixture()

	top, err := sales.TopSelling(context.Background())
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestTopSellingSkipsDeletedProducts(t *testing.T) {
	store, sales := newSalesFixture()
	store.AddProduct(models.Product{ID: "p2", Price: 10})

	// p1 sold more but was deleted from the catalog after the orders landed.
	store.AddOrder(order("buyer-1", daysAgo(1),
		models.OrderItem{ProductID: "p1", Quantity: 10},
		models.OrderItem{ProductID: "p2", Quantity: 3},
	))

	top, err := sales.TopSelling(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "p2", top[0].ProductID)
}

func TestTrendingGrowthWithoutPreviousSales(t *testing.T) {
	store, sales := newSalesFixture()
	store.AddProduct(models.Product{ID: "p1", Price: 10})

	// No sales in the previous week: denominator is substituted with 1,
	// growth comes out as currentSold * 100.
	store.AddOrder(order("buyer-1", daysAgo(2), models.OrderItem{ProductID: "p1", Quantity: 4}))

	trends, err := sales.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, "p1", trends[0].ProductID)
	assert.InDelta(t, 400.0, trends[0].Growth, 1e-9)
}

func TestTrendingExcludesProductsWithoutCurrentSales(t *testing.T) {
	store, sales := newSalesFixture()
	store.AddProduct(models.Product{ID: "p1", Price: 10})

	// Sold last week only; zero current-week sales keeps it out entirely.
	store.AddOrder(order("buyer-1", daysAgo(10), models.OrderItem{ProductID: "p1", Quantity: 50}))

	trends, err := sales.Trending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, trends)
}

func TestTrendingGrowthFormula(t *testing.T) {
	store, sales := newSalesFixture()
	store.AddProduct(models.Product{ID: "p1", Price: 10})

	store.AddOrder(order("buyer-1", daysAgo(10), models.OrderItem{ProductID: "p1", Quantity: 5}))
	store.AddOrder(order("buyer-2", daysAgo(2), models.OrderItem{ProductID: "p1", Quantity: 8}))

	trends, err := sales.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.InDelta(t, 60.0, trends[0].Growth, 1e-9)
}

func TestTrendingCapsAtEight(t *testing.T) {
	store, sales := newSalesFixture()
	items := make([]models.OrderItem, 0, 9)
	for i := 0; i < 9; i++ {
		id := string(rune('a' + i))
		store.AddProduct(models.Product{ID: id, Price: 10})
		items = append(items, models.OrderItem{ProductID: id, Quantity: i + 1})
	}
	store.AddOrder(order("buyer-1", daysAgo(1), items...))

	trends, err := sales.Trending(context.Background())
	require.NoError(t, err)
	assert.Len(t, trends, 8)
	for i := 1; i < len(trends); i++ {
		assert.GreaterOrEqual(t, trends[i-1].Growth, trends[i].Growth)
	}
}
