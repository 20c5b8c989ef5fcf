package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/yishak-cs/shop-analytics/internal/models"
)

const recommendationLimit = 10

// RecommendationService derives product suggestions from a buyer's purchase
// history: products from categories the buyer has bought from, excluding
// anything already purchased.
type RecommendationService struct {
	ledger  OrderLedger
	catalog ProductCatalog
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(ledger OrderLedger, catalog ProductCatalog) *RecommendationService {
	return &RecommendationService{ledger: ledger, catalog: catalog}
}

// Recommendations returns up to ten products for the given buyer. A buyer
// with no purchase history gets an empty list, not an error. Line items
// whose product has since been deleted are skipped.
func (s *RecommendationService) Recommendations(ctx context.Context, buyerID string) ([]models.Product, error) {
	if buyerID == "" {
		return nil, errors.New("buyer id is required")
	}

	orders, err := s.ledger.OrdersByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for buyer %s: %w", buyerID, err)
	}
	if len(orders) == 0 {
		return []models.Product{}, nil
	}

	purchased := make(map[string]struct{})
	categories := make(map[string]struct{})
	for _, order := range orders {
		for _, item := range order.Items {
			if _, seen := purchased[item.ProductID]; seen {
				continue
			}
			product, err := s.catalog.Product(ctx, item.ProductID)
			if errors.Is(err, models.ErrProductNotFound) {
				log.Printf("Warning: order %s references missing product %s, skipping", order.ID, item.ProductID)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
			}
			purchased[product.ID] = struct{}{}
			categories[product.Category] = struct{}{}
		}
	}

	if len(categories) == 0 {
		return []models.Product{}, nil
	}

	recommendations, err := s.catalog.ProductsByCategories(ctx, sortedKeys(categories), sortedKeys(purchased), recommendationLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate products: %w", err)
	}
	if recommendations == nil {
		recommendations = []models.Product{}
	}
	return recommendations, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
