package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yishak-cs/shop-analytics/internal/memstore"
	"github.com/yishak-cs/shop-analytics/internal/models"
)

func newRecommendationFixture() (*memstore.Store, *RecommendationService) {
	store := memstore.New()
	return store, NewRecommendationService(store, store)
}

func TestRecommendationsByCategoryAffinity(t *testing.T) {
	store, recs := newRecommendationFixture()

	// Five Skincare products, two already bought by the buyer.
	for i := 1; i <= 5; i++ {
		store.AddProduct(models.Product{ID: fmt.Sprintf("skin-%d", i), Category: "Skincare", Price: 10})
	}
	// Four Makeup products the buyer has no affinity with.
	for i := 1; i <= 4; i++ {
		store.AddProduct(models.Product{ID: fmt.Sprintf("makeup-%d", i), Category: "Makeup", Price: 15})
	}
	store.AddOrder(order("buyer-u", daysAgo(3),
		models.OrderItem{ProductID: "skin-1", Quantity: 1},
		models.OrderItem{ProductID: "skin-2", Quantity: 2},
	))

	got, err := recs.Recommendations(context.Background(), "buyer-u")
	require.NoError(t, err)
	require.Len(t, got, 3)

	for _, p := range got {
		assert.Equal(t, "Skincare", p.Category)
		assert.NotContains(t, []string{"skin-1", "skin-2"}, p.ID)
	}
}

func TestRecommendationsCappedAtTen(t *testing.T) {
	store, recs := newRecommendationFixture()

	store.AddProduct(models.Product{ID: "bought", Category: "Tools", Price: 5})
	for i := 0; i < 14; i++ {
		store.AddProduct(models.Product{ID: fmt.Sprintf("tool-%02d", i), Category: "Tools", Price: 5})
	}
	store.AddOrder(order("buyer-u", daysAgo(1), models.OrderItem{ProductID: "bought", Quantity: 1}))

	got, err := recs.Recommendations(context.Background(), "buyer-u")
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestRecommendationsEmptyForNewBuyer(t *testing.T) {
	store, recs := newRecommendationFixture()
	store.AddProduct(models.Product{ID: "p1", Category: "Skincare", Price: 10})

	got, err := recs.Recommendations(context.Background(), "never-ordered")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommendationsSkipDanglingProducts(t *testing.T) {
	store, recs := newRecommendationFixture()

	store.AddProduct(models.Product{ID: "skin-1", Category: "Skincare", Price: 10})
	store.AddProduct(models.Product{ID: "skin-2", Category: "Skincare", Price: 12})

	// One line item references a product deleted after purchase.
	store.AddOrder(order("buyer-u", daysAgo(2),
		models.OrderItem{ProductID: "deleted-product", Quantity: 1},
		models.OrderItem{ProductID: "skin-1", Quantity: 1},
	))

	got, err := recs.Recommendations(context.Background(), "buyer-u")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "skin-2", got[0].ID)
}

func TestRecommendationsOnlyDanglingProducts(t *testing.T) {
	store, recs := newRecommendationFixture()
	store.AddOrder(order("buyer-u", daysAgo(2), models.OrderItem{ProductID: "deleted-product", Quantity: 1}))

	got, err := recs.Recommendations(context.Background(), "buyer-u")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommendationsRequireBuyerID(t *testing.T) {
	_, recs := newRecommendationFixture()

	_, err := recs.Recommendations(context.Background(), "")
	assert.Error(t, err)
}
