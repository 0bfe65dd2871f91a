package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/streamtube/streamtube/pkg/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	// Create a mini Redis server for testing
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create cache: %v", err)
	}

	return cache, mr
}

func testProfile() *models.ChannelProfile {
	return &models.ChannelProfile{
		ID:                "channel-1",
		FullName:          "Alice Example",
		Username:          "alice",
		Email:             "alice@example.com",
		AvatarURL:         "https://media.example.com/avatars/a.png",
		SubscriberCount:   42,
		SubscribedToCount: 7,
	}
}

func TestNewCache(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestCache_ChannelProfile(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	profile := testProfile()

	if err := cache.SetChannelProfile(ctx, profile, time.Minute); err != nil {
		t.Fatalf("SetChannelProfile failed: %v", err)
	}

	got, err := cache.GetChannelProfile(ctx, "alice")
	if err != nil {
		t.Fatalf("GetChannelProfile failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected cached profile, got miss")
	}
	if got.Username != "alice" || got.SubscriberCount != 42 {
		t.Errorf("Cached profile mismatch: %+v", got)
	}
}

func TestCache_ChannelProfileMiss(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	got, err := cache.GetChannelProfile(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetChannelProfile failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected cache miss, got %+v", got)
	}
}

func TestCache_InvalidateChannelProfile(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	if err := cache.SetChannelProfile(ctx, testProfile(), time.Minute); err != nil {
		t.Fatalf("SetChannelProfile failed: %v", err)
	}

	if err := cache.InvalidateChannelProfile(ctx, "alice"); err != nil {
		t.Fatalf("InvalidateChannelProfile failed: %v", err)
	}

	got, err := cache.GetChannelProfile(ctx, "alice")
	if err != nil {
		t.Fatalf("GetChannelProfile failed: %v", err)
	}
	if got != nil {
		t.Error("Expected miss after invalidation")
	}
}

func TestCache_ProfileExpiry(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	if err := cache.SetChannelProfile(ctx, testProfile(), time.Minute); err != nil {
		t.Fatalf("SetChannelProfile failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := cache.GetChannelProfile(ctx, "alice")
	if err != nil {
		t.Fatalf("GetChannelProfile failed: %v", err)
	}
	if got != nil {
		t.Error("Expected miss after TTL expiry")
	}
}
