package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
)

const settingsCacheKey = "settings:global"

// SettingsCache caches the global settings singleton in Redis. Admin writes
// invalidate the key so the next read goes back to the database.
type SettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSettingsCache creates a Redis-backed settings cache
func NewSettingsCache(client *redis.Client, ttl time.Duration) *SettingsCache {
	return &SettingsCache{client: client, ttl: ttl}
}

// Get returns the cached settings, or (nil, nil) on a miss.
func (c *SettingsCache) Get(ctx context.Context) (*models.GlobalSettings, error) {
	data, err := c.client.Get(ctx, settingsCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings cache: %w", err)
	}

	var settings models.GlobalSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		// Treat a corrupt entry as a miss; the DB is authoritative.
		_ = c.client.Del(ctx, settingsCacheKey).Err()
		return nil, nil
	}

	return &settings, nil
}

// Set stores the settings with the configured TTL.
func (c *SettingsCache) Set(ctx context.Context, settings *models.GlobalSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := c.client.Set(ctx, settingsCacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write settings cache: %w", err)
	}

	return nil
}

// Invalidate drops the cached settings.
func (c *SettingsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, settingsCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate settings cache: %w", err)
	}
	return nil
}
