package models

import (
	"time"
)

// Subscription links a subscriber to a channel (a channel is just a user on
// the receiving end of subscriptions). A (subscriber, channel) pair is unique.
type Subscription struct {
	SubscriberID string    `json:"subscriberId" db:"subscriber_id"`
	ChannelID    string    `json:"channelId" db:"channel_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
