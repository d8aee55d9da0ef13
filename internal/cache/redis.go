package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys
const (
	DashboardStatsKey = "leads:dashboard"
	dashboardTTL      = 60 * time.Second
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: every caller
// degrades gracefully when client is nil.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// GetDashboardStats returns cached dashboard aggregates, if present.
func GetDashboardStats(ctx context.Context, dest interface{}) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, DashboardStatsKey).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetDashboardStats caches dashboard aggregates for a short window.
func SetDashboardStats(ctx context.Context, stats interface{}) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	client.Set(ctx, DashboardStatsKey, raw, dashboardTTL)
}

// InvalidateLeadCaches drops every lead-derived cache entry. Called after any
// buyer write so the dashboard never serves stale counts for long.
func InvalidateLeadCaches(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, DashboardStatsKey)
}
