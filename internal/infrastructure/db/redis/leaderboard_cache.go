package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

const (
	leaderboardKey        = "leaderboard:top"
	defaultLeaderboardTTL = 30 * time.Second
)

// LeaderboardCache stores rendered rankings in a single hash keyed by size,
// so one DEL drops every cached size.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = defaultLeaderboardTTL
	}
	return &LeaderboardCache{client: client, ttl: ttl}
}

func (c *LeaderboardCache) Get(ctx context.Context, n int) ([]ports.RankedUser, bool, error) {
	raw, err := c.client.HGet(ctx, leaderboardKey, strconv.Itoa(n)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr("leaderboard cache get", err)
	}

	var rows []ports.RankedUser
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false, fmt.Errorf("leaderboard cache decode: %w", err)
	}
	return rows, true, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, n int, rows []ports.RankedUser) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("leaderboard cache encode: %w", err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, leaderboardKey, strconv.Itoa(n), raw)
		pipe.Expire(ctx, leaderboardKey, c.ttl)
		return nil
	})
	if err != nil {
		return storageErr("leaderboard cache set", err)
	}
	return nil
}

func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, leaderboardKey).Err(); err != nil {
		return storageErr("leaderboard cache invalidate", err)
	}
	return nil
}
