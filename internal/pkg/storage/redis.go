package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbelyaev/betfeed/internal/pkg/config"
	"github.com/mbelyaev/betfeed/internal/pkg/models"
)

const defaultCacheTTL = time.Hour

// RedisCache keeps the latest merged game per canonical id so consumers can
// read fresh prices without touching PostgreSQL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg *config.RedisConfig) (*RedisCache, error) {
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

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// StoreGames caches every game in the batch under its canonical id.
func (r *RedisCache) StoreGames(ctx context.Context, games []*models.Game) error {
	for _, g := range games {
		data, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("failed to marshal game %s: %w", g.GameID, err)
		}
		key := gameKey(g.GameID)
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			return fmt.Errorf("failed to cache game %s: %w", g.GameID, err)
		}
	}
	return nil
}

// GetGame reads one cached game. A cache miss returns (nil, nil).
func (r *RedisCache) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	data, err := r.client.Get(ctx, gameKey(gameID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached game %s: %w", gameID, err)
	}
	var g models.Game
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached game %s: %w", gameID, err)
	}
	return &g, nil
}

// GameIDs lists every cached game id.
func (r *RedisCache) GameIDs(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, gameKey("*"), 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached games: %w", err)
		}
		for _, key := range keys {
			ids = append(ids, key[len(gameKeyPrefix):])
		}
		if next == 0 {
			return ids, nil
		}
		cursor = next
	}
}

// Close closes the Redis connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

const gameKeyPrefix = "game:"

func gameKey(gameID string) string {
	return gameKeyPrefix + gameID
}
