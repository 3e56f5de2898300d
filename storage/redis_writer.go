package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"locality-insights/models"
	"locality-insights/utils"
)

// RedisHistory keeps the most recent entries in a capped Redis list.
type RedisHistory struct {
	client *redis.Client
	key    string
	limit  int
}

// NewRedisHistory connects to url and pings the server.
func NewRedisHistory(ctx context.Context, url, key string, limit int, retry *utils.RetryConfig) (*RedisHistory, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	client := redis.NewClient(opts)

	if err := retry.Do(ctx, "redis-ping", func() error { return client.Ping(ctx).Err() }); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	return newRedisHistory(client, key, limit), nil
}

func newRedisHistory(client *redis.Client, key string, limit int) *RedisHistory {
	if limit <= 0 {
		limit = 50
	}
	return &RedisHistory{client: client, key: key, limit: limit}
}

// Write pushes the entry to the head of the list and trims the tail.
func (rh *RedisHistory) Write(ctx context.Context, e *models.HistoryEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("redis: encode entry: %w", err)
	}

	pipe := rh.client.TxPipeline()
	pipe.LPush(ctx, rh.key, data)
	pipe.LTrim(ctx, rh.key, 0, int64(rh.limit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: push history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. Undecodable items are skipped.
func (rh *RedisHistory) Recent(ctx context.Context, limit int) ([]*models.HistoryEntry, error) {
	if limit <= 0 || limit > rh.limit {
		limit = rh.limit
	}

	items, err := rh.client.LRange(ctx, rh.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: read history: %w", err)
	}

	entries := make([]*models.HistoryEntry, 0, len(items))
	for _, item := range items {
		e := &models.HistoryEntry{}
		if err := json.Unmarshal([]byte(item), e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (rh *RedisHistory) Close() error {
	return rh.client.Close()
}
