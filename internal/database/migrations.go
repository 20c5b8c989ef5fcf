package database

import (
	"context"
	"fmt"
	"log"
)

// Migrate prepares the database schema: uniqueness constraints for the node
// identities this service queries by, and an index on order timestamps that
// all windowing reads go through. Safe to run on every startup.
func Migrate(ctx context.Context, client *Neo4jClient) error {
	log.Println("Running schema migration...")

	steps := []struct {
		name  string
		query string
	}{
		{"product_id_unique", `CREATE CONSTRAINT product_id_unique IF NOT EXISTS FOR (p:Product) REQUIRE p.id IS UNIQUE`},
		{"order_id_unique", `CREATE CONSTRAINT order_id_unique IF NOT EXISTS FOR (o:Order) REQUIRE o.id IS UNIQUE`},
		{"buyer_id_unique", `CREATE CONSTRAINT buyer_id_unique IF NOT EXISTS FOR (b:Buyer) REQUIRE b.id IS UNIQUE`},
		{"user_id_unique", `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`},
		{"order_created_at_index", `CREATE INDEX order_created_at_index IF NOT EXISTS FOR (o:Order) ON (o.created_at)`},
		{"product_category_index", `CREATE INDEX product_category_index IF NOT EXISTS FOR (p:Product) ON (p.category)`},
	}

	for _, step := range steps {
		if err := client.ExecuteWrite(ctx, step.query, nil); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", step.name, err)
		}
	}

	log.Println("Schema migration completed")
	return nil
}
