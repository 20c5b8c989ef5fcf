package database

import (
	"context"
	"fmt"

	"github.com/yishak-cs/shop-analytics/internal/models"
)

// AdminDirectory resolves admin users holding an active notification
// subscription. Subscriptions are registered by the out-of-scope web client.
type AdminDirectory struct {
	client *Neo4jClient
}

// NewAdminDirectory creates a directory backed by the given client.
func NewAdminDirectory(client *Neo4jClient) *AdminDirectory {
	return &AdminDirectory{client: client}
}

// SubscribedAdmins returns every admin with an active push subscription.
func (d *AdminDirectory) SubscribedAdmins(ctx context.Context) ([]models.AdminSubscription, error) {
	query := `
		MATCH (u:User {role: 'admin'})
		WHERE u.push_subscribed = true
		RETURN u.id AS user_id, u.push_endpoint AS endpoint
	`

	results, err := d.client.ExecuteRead(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribed admins: %w", err)
	}

	admins := make([]models.AdminSubscription, 0, len(results))
	for _, result := range results {
		admins = append(admins, models.AdminSubscription{
			UserID:   asString(result["user_id"]),
			Endpoint: asString(result["endpoint"]),
		})
	}
	return admins, nil
}
