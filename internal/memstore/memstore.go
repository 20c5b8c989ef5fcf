// Package memstore provides in-memory implementations of the order ledger,
// product catalog, and admin directory. It backs the test suite and the
// database-less local mode of the server.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yishak-cs/shop-analytics/internal/models"
)

// Store holds products, orders, and admin subscriptions behind one lock.
type Store struct {
	mu       sync.RWMutex
	products map[string]models.Product
	orders   map[string]models.Order
	admins   []models.AdminSubscription
}

// New creates an empty store.
func New() *Store {
	return &Store{
		products: make(map[string]models.Product),
		orders:   make(map[string]models.Order),
	}
}

// AddProduct inserts or replaces a product, assigning an id if absent.
func (s *Store) AddProduct(p models.Product) models.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return p
}

// RemoveProduct deletes a product, simulating catalog deletion by the
// external CRUD flow.
func (s *Store) RemoveProduct(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

// AddOrder inserts an order, assigning an id if absent.
func (s *Store) AddOrder(o models.Order) models.Order {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
	return o
}

// AddAdmin registers an admin subscription.
func (s *Store) AddAdmin(sub models.AdminSubscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins = append(s.admins, sub)
}

// OrdersInRange returns orders with CreatedAt in [from, to).
func (s *Store) OrdersInRange(_ context.Context, from, to time.Time) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orders []models.Order
	for _, o := range s.orders {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			orders = append(orders, o)
		}
	}
	sortOrders(orders)
	return orders, nil
}

// OrdersByBuyer returns every order the given buyer has placed.
func (s *Store) OrdersByBuyer(_ context.Context, buyerID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orders []models.Order
	for _, o := range s.orders {
		if o.BuyerID == buyerID {
			orders = append(orders, o)
		}
	}
	sortOrders(orders)
	return orders, nil
}

// UnitsSold returns the total quantity of a product sold in [from, to).
func (s *Store) UnitsSold(_ context.Context, productID string, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, o := range s.orders {
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID == productID {
				total += item.Quantity
			}
		}
	}
	return total, nil
}

// Product returns a single product by id.
func (s *Store) Product(_ context.Context, id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, models.ErrProductNotFound
	}
	return p, nil
}

// Products returns the full catalog ordered by product id.
func (s *Store) Products(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// UpdatePrice persists a new price for the given product.
func (s *Store) UpdatePrice(_ context.Context, id string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return models.ErrProductNotFound
	}
	p.Price = price
	s.products[id] = p
	return nil
}

// ProductsByCategories returns up to limit products whose category is in
// categories and whose id is not in excludeIDs, ordered by product id.
func (s *Store) ProductsByCategories(_ context.Context, categories, excludeIDs []string, limit int) ([]models.Product, error) {
	wanted := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var products []models.Product
	for _, p := range s.products {
		if _, ok := wanted[p.Category]; !ok {
			continue
		}
		if _, ok := excluded[p.ID]; ok {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// SubscribedAdmins returns every registered admin subscription.
func (s *Store) SubscribedAdmins(_ context.Context) ([]models.AdminSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admins := make([]models.AdminSubscription, len(s.admins))
	copy(admins, s.admins)
	return admins, nil
}

// Health reports store availability; the in-memory store is always healthy.
func (s *Store) Health(context.Context) error {
	return nil
}

func sortOrders(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
}
