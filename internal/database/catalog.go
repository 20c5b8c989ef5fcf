package database

import (
	"context"
	"fmt"

	"github.com/yishak-cs/shop-analytics/internal/models"
)

// ProductCatalog reads product records from Neo4j and writes prices back.
// Price is the only field this service mutates; stock is owned by the
// external restock and checkout flows.
type ProductCatalog struct {
	client *Neo4jClient
}

// NewProductCatalog creates a catalog backed by the given client.
func NewProductCatalog(client *Neo4jClient) *ProductCatalog {
	return &ProductCatalog{client: client}
}

const productReturnClause = `
	RETURN p.id AS id,
	       p.name AS name,
	       p.category AS category,
	       p.price AS price,
	       p.stock AS stock,
	       p.critical_stock AS critical_stock,
	       p.sales_count AS sales_count,
	       p.views AS views,
	       p.cart_additions AS cart_additions,
	       p.replenishment_threshold AS replenishment_threshold,
	       p.auto_replenish AS auto_replenish,
	       p.sales_data AS sales_data
`

// Product returns a single product by id.
func (c *ProductCatalog) Product(ctx context.Context, id string) (models.Product, error) {
	query := `
		MATCH (p:Product {id: $id})
	` + productReturnClause

	params := map[string]interface{}{
		"id": id,
	}

	results, err := c.client.ExecuteRead(ctx, query, params)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to query product %s: %w", id, err)
	}

	if len(results) == 0 {
		return models.Product{}, models.ErrProductNotFound
	}
	return scanProduct(results[0]), nil
}

// Products returns the full catalog ordered by product id.
func (c *ProductCatalog) Products(ctx context.Context) ([]models.Product, error) {
	query := `
		MATCH (p:Product)
		WITH p ORDER BY p.id
	` + productReturnClause

	results, err := c.client.ExecuteRead(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	products := make([]models.Product, 0, len(results))
	for _, result := range results {
		products = append(products, scanProduct(result))
	}
	return products, nil
}

// UpdatePrice persists a new price for the given product.
func (c *ProductCatalog) UpdatePrice(ctx context.Context, id string, price float64) error {
	query := `
		MATCH (p:Product {id: $id})
		SET p.price = $price
	`

	params := map[string]interface{}{
		"id":    id,
		"price": price,
	}

	if err := c.client.ExecuteWrite(ctx, query, params); err != nil {
		return fmt.Errorf("failed to update price for product %s: %w", id, err)
	}
	return nil
}

// ProductsByCategories returns up to limit products whose category is in
// categories and whose id is not in excludeIDs, ordered by product id.
func (c *ProductCatalog) ProductsByCategories(ctx context.Context, categories, excludeIDs []string, limit int) ([]models.Product, error) {
	query := `
		MATCH (p:Product)
		WHERE p.category IN $categories AND NOT p.id IN $excludeIds
		WITH p ORDER BY p.id
		LIMIT $limit
	` + productReturnClause

	if excludeIDs == nil {
		excludeIDs = []string{}
	}
	params := map[string]interface{}{
		"categories": categories,
		"excludeIds": excludeIDs,
		"limit":      limit,
	}

	results, err := c.client.ExecuteRead(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by category: %w", err)
	}

	products := make([]models.Product, 0, len(results))
	for _, result := range results {
		products = append(products, scanProduct(result))
	}
	return products, nil
}

func scanProduct(result map[string]interface{}) models.Product {
	return models.Product{
		ID:                     asString(result["id"]),
		Name:                   asString(result["name"]),
		Category:               asString(result["category"]),
		Price:                  asFloat(result["price"]),
		Stock:                  asInt(result["stock"]),
		CriticalStock:          asInt(result["critical_stock"]),
		SalesCount:             asInt(result["sales_count"]),
		Views:                  asInt(result["views"]),
		CartAdditions:          asInt(result["cart_additions"]),
		ReplenishmentThreshold: asFloat(result["replenishment_threshold"]),
		AutoReplenish:          asBool(result["auto_replenish"]),
		SalesData:              asIntSlice(result["sales_data"]),
	}
}
