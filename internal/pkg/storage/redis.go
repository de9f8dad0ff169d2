package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dotball/dotball/internal/pkg/config"
)

// RedisClient caches live score snapshots so the read path does not
// recompute and re-query Postgres on every poll. Entries expire on
// their own; an append simply overwrites the entry for its match.
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(cfg *config.RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

func liveScoreKey(matchID string) string {
	return fmt.Sprintf("live:%s", matchID)
}

// StoreLiveScore caches a live score snapshot with a TTL.
func (r *RedisClient) StoreLiveScore(ctx context.Context, matchID string, snapshot any, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal live score: %w", err)
	}
	if err := r.client.Set(ctx, liveScoreKey(matchID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store live score for match %s: %w", matchID, err)
	}
	return nil
}

// GetLiveScore loads a cached snapshot into dest. Returns false on a
// cache miss.
func (r *RedisClient) GetLiveScore(ctx context.Context, matchID string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, liveScoreKey(matchID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get live score for match %s: %w", matchID, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal live score: %w", err)
	}
	return true, nil
}

// DeleteLiveScore drops the cached snapshot, e.g. after an undo.
func (r *RedisClient) DeleteLiveScore(ctx context.Context, matchID string) error {
	if err := r.client.Del(ctx, liveScoreKey(matchID)).Err(); err != nil {
		return fmt.Errorf("failed to delete live score for match %s: %w", matchID, err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
