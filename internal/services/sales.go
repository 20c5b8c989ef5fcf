package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/yishak-cs/shop-analytics/internal/models"
)

const (
	salesWindow     = 7 * 24 * time.Hour
	topSellingLimit = 3
	trendingLimit   = 8
)

// SalesService computes ranked sales aggregates from the order ledger.
// Both queries are pure functions of ledger state and the injected clock.
type SalesService struct {
	ledger  OrderLedger
	catalog ProductCatalog
	clock   Clock
}

// NewSalesService creates a sales aggregator. A nil clock falls back to the
// system clock.
func NewSalesService(ledger OrderLedger, catalog ProductCatalog, clock Clock) *SalesService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SalesService{ledger: ledger, catalog: catalog, clock: clock}
}

// TopSelling returns the three best-selling products of the trailing seven
// days, ranked by units sold, each joined with its catalog record. Ranked
// products whose catalog record has since been deleted are skipped.
func (s *SalesService) TopSelling(ctx context.Context) ([]models.TopSeller, error) {
	now := s.clock.Now()
	totals, err := s.unitsByProduct(ctx, now.Add(-salesWindow), now)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top-selling products: %w", err)
	}

	ranked := rankByUnits(totals)

	top := make([]models.TopSeller, 0, topSellingLimit)
	for _, r := range ranked {
		if len(top) == topSellingLimit {
			break
		}
		product, err := s.catalog.Product(ctx, r.productID)
		if errors.Is(err, models.ErrProductNotFound) {
			log.Printf("Warning: top-selling product %s no longer in catalog, skipping", r.productID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", r.productID, err)
		}
		top = append(top, models.TopSeller{
			ProductID: r.productID,
			TotalSold: r.units,
			Product:   product,
		})
	}
	return top, nil
}

// Trending returns up to eight products ranked by week-over-week growth in
// units sold. Only products sold in the current week are candidates; a
// product absent from the previous week gets growth = currentSold * 100
// (the zero denominator is substituted with 1, never divided through).
func (s *SalesService) Trending(ctx context.Context) ([]models.Trend, error) {
	now := s.clock.Now()
	weekAgo := now.Add(-salesWindow)
	twoWeeksAgo := now.Add(-2 * salesWindow)

	current, err := s.unitsByProduct(ctx, weekAgo, now)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate current week sales: %w", err)
	}
	previous, err := s.unitsByProduct(ctx, twoWeeksAgo, weekAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate previous week sales: %w", err)
	}

	trends := make([]models.Trend, 0, len(current))
	for productID, sold := range current {
		if sold == 0 {
			continue
		}
		prev := previous[productID]
		denom := prev
		if denom == 0 {
			denom = 1
		}
		trends = append(trends, models.Trend{
			ProductID: productID,
			Growth:    float64(sold-prev) / float64(denom) * 100,
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Growth == trends[j].Growth {
			return trends[i].ProductID < trends[j].ProductID
		}
		return trends[i].Growth > trends[j].Growth
	})

	if len(trends) > trendingLimit {
		trends = trends[:trendingLimit]
	}
	return trends, nil
}

// unitsByProduct flattens order items in [from, to) into per-product totals.
func (s *SalesService) unitsByProduct(ctx context.Context, from, to time.Time) (map[string]int, error) {
	orders, err := s.ledger.OrdersInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int)
	for _, order := range orders {
		for _, item := range order.Items {
			totals[item.ProductID] += item.Quantity
		}
	}
	return totals, nil
}

type rankedProduct struct {
	productID string
	units     int
}

// rankByUnits sorts descending by units sold, product id ascending on ties.
func rankByUnits(totals map[string]int) []rankedProduct {
	ranked := make([]rankedProduct, 0, len(totals))
	for id, units := range totals {
		ranked = append(ranked, rankedProduct{productID: id, units: units})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].units == ranked[j].units {
			return ranked[i].productID < ranked[j].productID
		}
		return ranked[i].units > ranked[j].units
	})
	return ranked
}
