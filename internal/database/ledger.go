package database

import (
	"context"
	"fmt"
	"time"

	"github.com/yishak-cs/shop-analytics/internal/models"
)

// OrderLedger reads purchase records from Neo4j. Orders are written by the
// external checkout flow; this service never mutates or deletes them.
type OrderLedger struct {
	client *Neo4jClient
}

// NewOrderLedger creates a ledger backed by the given client.
func NewOrderLedger(client *Neo4jClient) *OrderLedger {
	return &OrderLedger{client: client}
}

const orderReturnClause = `
	RETURN o.id AS order_id,
	       b.id AS buyer_id,
	       o.total_amount AS total_amount,
	       o.created_at AS created_at,
	       [(o)-[hi:HAS_ITEM]->(p:Product) | {product_id: p.id, quantity: hi.quantity}] AS items
`

// OrdersInRange returns orders with created_at in [from, to).
func (l *OrderLedger) OrdersInRange(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	query := `
		MATCH (b:Buyer)-[:HAS_MADE]->(o:Order)
		WHERE o.created_at >= datetime($from) AND o.created_at < datetime($to)
	` + orderReturnClause

	params := map[string]interface{}{
		"from": from.UTC().Format(time.RFC3339Nano),
		"to":   to.UTC().Format(time.RFC3339Nano),
	}

	results, err := l.client.ExecuteRead(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders in range: %w", err)
	}

	return scanOrders(results), nil
}

// OrdersByBuyer returns every order the given buyer has placed.
func (l *OrderLedger) OrdersByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	if buyerID == "" {
		return nil, fmt.Errorf("buyer id is required")
	}

	query := `
		MATCH (b:Buyer {id: $buyerId})-[:HAS_MADE]->(o:Order)
	` + orderReturnClause

	params := map[string]interface{}{
		"buyerId": buyerID,
	}

	results, err := l.client.ExecuteRead(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders for buyer %s: %w", buyerID, err)
	}

	return scanOrders(results), nil
}

// UnitsSold returns the total quantity of a product sold in [from, to).
func (l *OrderLedger) UnitsSold(ctx context.Context, productID string, from, to time.Time) (int, error) {
	query := `
		MATCH (o:Order)-[hi:HAS_ITEM]->(p:Product {id: $productId})
		WHERE o.created_at >= datetime($from) AND o.created_at < datetime($to)
		RETURN coalesce(sum(hi.quantity), 0) AS units
	`

	params := map[string]interface{}{
		"productId": productID,
		"from":      from.UTC().Format(time.RFC3339Nano),
		"to":        to.UTC().Format(time.RFC3339Nano),
	}

	results, err := l.client.ExecuteRead(ctx, query, params)
	if err != nil {
		return 0, fmt.Errorf("failed to query units sold for product %s: %w", productID, err)
	}

	if len(results) == 0 {
		return 0, nil
	}
	return asInt(results[0]["units"]), nil
}

// scanOrders converts query records to orders, skipping malformed items.
func scanOrders(results []map[string]interface{}) []models.Order {
	orders := make([]models.Order, 0, len(results))
	for _, result := range results {
		order := models.Order{
			ID:          asString(result["order_id"]),
			BuyerID:     asString(result["buyer_id"]),
			TotalAmount: asFloat(result["total_amount"]),
			CreatedAt:   asTime(result["created_at"]),
		}

		if raw, ok := result["items"].([]interface{}); ok {
			for _, entry := range raw {
				item, ok := entry.(map[string]interface{})
				if !ok {
					continue
				}
				productID := asString(item["product_id"])
				if productID == "" {
					continue
				}
				order.Items = append(order.Items, models.OrderItem{
					ProductID: productID,
					Quantity:  asInt(item["quantity"]),
				})
			}
		}

		orders = append(orders, order)
	}
	return orders
}
