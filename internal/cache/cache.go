package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/streamtube/streamtube/pkg/models"
)

// Cache provides caching functionality using Redis. Only read-mostly
// projections are cached; credential records never enter the cache.
type Cache struct {
	client *redis.Client
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func profileKey(username string) string {
	return fmt.Sprintf("channel:profile:%s", username)
}

// SetChannelProfile caches a channel profile projection
func (c *Cache) SetChannelProfile(ctx context.Context, profile *models.ChannelProfile, ttl time.Duration) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal channel profile: %w", err)
	}

	return c.client.Set(ctx, profileKey(profile.Username), data, ttl).Err()
}

// GetChannelProfile retrieves a cached channel profile. Returns nil, nil on
// a cache miss.
func (c *Cache) GetChannelProfile(ctx context.Context, username string) (*models.ChannelProfile, error) {
	data, err := c.client.Get(ctx, profileKey(username)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get channel profile from cache: %w", err)
	}

	var profile models.ChannelProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel profile: %w", err)
	}

	return &profile, nil
}

// InvalidateChannelProfile drops the cached projection after a profile or
// subscription mutation.
func (c *Cache) InvalidateChannelProfile(ctx context.Context, username string) error {
	return c.client.Del(ctx, profileKey(username)).Err()
}
