package database

import (
	"context"
	"fmt"
)

// ToggleSubscription subscribes the user to the channel, or unsubscribes if a
// subscription already exists. The (subscriber, channel) pair is unique at
// the schema level, so a concurrent double-subscribe collapses to one row.
// Returns the resulting state: true when subscribed.
func (r *Repository) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	deleteQuery := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`

	tag, err := r.db.Pool.Exec(ctx, deleteQuery, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to remove subscription: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	insertQuery := `
		INSERT INTO subscriptions (subscriber_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`
	if _, err := r.db.Pool.Exec(ctx, insertQuery, subscriberID, channelID); err != nil {
		return false, fmt.Errorf("failed to create subscription: %w", err)
	}

	return true, nil
}
