package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/telecast/mediatheque/pkg/models"
)

// Cache provides caching for auth tokens and watch-history pages using Redis
type Cache struct {
	client *redis.Client
}

// Token is a persisted bearer token for personal-content calls
type Token struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
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

// Token Cache Operations

// SetToken caches the bearer token of a user
func (c *Cache) SetToken(ctx context.Context, username string, token *Token, ttl time.Duration) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	key := fmt.Sprintf("token:%s", username)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetToken retrieves a cached bearer token, nil on cache miss
func (c *Cache) GetToken(ctx context.Context, username string) (*Token, error) {
	key := fmt.Sprintf("token:%s", username)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get token from cache: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}

	return &token, nil
}

// DeleteToken removes a cached token
func (c *Cache) DeleteToken(ctx context.Context, username string) error {
	key := fmt.Sprintf("token:%s", username)
	return c.client.Del(ctx, key).Err()
}

// History Cache Operations

// SetHistory caches the flattened watch history of a user for one language
func (c *Cache) SetHistory(ctx context.Context, username, lang string, items []models.CatalogItem, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	key := fmt.Sprintf("history:%s:%s", username, lang)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetHistory retrieves a cached watch history, nil on cache miss
func (c *Cache) GetHistory(ctx context.Context, username, lang string) ([]models.CatalogItem, error) {
	key := fmt.Sprintf("history:%s:%s", username, lang)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get history from cache: %w", err)
	}

	var items []models.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}

	return items, nil
}

// InvalidateHistory removes cached history after a progress push changed it
func (c *Cache) InvalidateHistory(ctx context.Context, username string) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("history:%s:*", username), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Exists checks if a key exists
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// Health check
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
