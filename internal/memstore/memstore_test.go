package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yishak-cs/shop-analytics/internal/models"
)

var base = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func TestAddProductAssignsID(t *testing.T) {
	s := New()
	p := s.AddProduct(models.Product{Name: "Serum"})
	assert.NotEmpty(t, p.ID)

	got, err := s.Product(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Serum", got.Name)
}

func TestProductNotFound(t *testing.T) {
	s := New()
	_, err := s.Product(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestOrdersInRangeBounds(t *testing.T) {
	s := New()
	inside := s.AddOrder(models.Order{BuyerID: "b", CreatedAt: base.Add(time.Hour)})
	atStart := s.AddOrder(models.Order{BuyerID: "b", CreatedAt: base})
	s.AddOrder(models.Order{BuyerID: "b", CreatedAt: base.Add(24 * time.Hour)}) // == to, excluded
	s.AddOrder(models.Order{BuyerID: "b", CreatedAt: base.Add(-time.Minute)})   // before from

	orders, err := s.OrdersInRange(context.Background(), base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, orders, 2)

	ids := []string{orders[0].ID, orders[1].ID}
	assert.Contains(t, ids, inside.ID)
	assert.Contains(t, ids, atStart.ID)
}

func TestOrdersByBuyer(t *testing.T) {
	s := New()
	s.AddOrder(models.Order{BuyerID: "alice", CreatedAt: base})
	s.AddOrder(models.Order{BuyerID: "alice", CreatedAt: base.Add(time.Hour)})
	s.AddOrder(models.Order{BuyerID: "bob", CreatedAt: base})

	orders, err := s.OrdersByBuyer(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestUnitsSoldSumsMatchingItems(t *testing.T) {
	s := New()
	s.AddOrder(models.Order{BuyerID: "b", CreatedAt: base.Add(time.Hour), Items: []models.OrderItem{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 7},
	}})
	s.AddOrder(models.Order{BuyerID: "b", CreatedAt: base.Add(2 * time.Hour), Items: []models.OrderItem{
		{ProductID: "p1", Quantity: 2},
	}})
	s.AddOrder(models.Order{BuyerID: "b", CreatedAt: base.Add(-time.Hour), Items: []models.OrderItem{
		{ProductID: "p1", Quantity: 100},
	}})

	units, err := s.UnitsSold(context.Background(), "p1", base, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 5, units)
}

func TestUpdatePrice(t *testing.T) {
	s := New()
	s.AddProduct(models.Product{ID: "p1", Price: 10})

	require.NoError(t, s.UpdatePrice(context.Background(), "p1", 12.5))
	got, err := s.Product(context.Background(), "p1")
	require.NoError(t, err)
	assert.InDelta(t, 12.5, got.Price, 1e-9)

	assert.ErrorIs(t, s.UpdatePrice(context.Background(), "missing", 1), models.ErrProductNotFound)
}

func TestProductsByCategories(t *testing.T) {
	s := New()
	s.AddProduct(models.Product{ID: "a", Category: "Skincare"})
	s.AddProduct(models.Product{ID: "b", Category: "Skincare"})
	s.AddProduct(models.Product{ID: "c", Category: "Makeup"})
	s.AddProduct(models.Product{ID: "d", Category: "Tools"})

	got, err := s.ProductsByCategories(context.Background(), []string{"Skincare", "Makeup"}, []string{"a"}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	limited, err := s.ProductsByCategories(context.Background(), []string{"Skincare", "Makeup"}, nil, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSubscribedAdmins(t *testing.T) {
	s := New()
	admins, err := s.SubscribedAdmins(context.Background())
	require.NoError(t, err)
	assert.Empty(t, admins)

	s.AddAdmin(models.AdminSubscription{UserID: "admin-1"})
	admins, err = s.SubscribedAdmins(context.Background())
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}
