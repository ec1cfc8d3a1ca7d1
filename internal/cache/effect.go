package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kmaruoka/maherama-sub000/internal/logger"
	"github.com/kmaruoka/maherama-sub000/internal/utils"
)

// EffectStats is the cached output of the effect resolver. Staleness is
// bounded by the TTL; purchases, resets and level-ups invalidate early.
type EffectStats struct {
	PrayDistance int `json:"pray_distance"`
	WorshipLimit int `json:"worship_limit"`
}

// NewRedisClient builds a client from env, or nil when REDIS_ADDR is
// unset. The effect cache degrades to plain DB reads without one.
func NewRedisClient(log *logger.Logger) *redis.Client {
	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		log.Info("REDIS_ADDR not set, effect cache disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetEnv("REDIS_PASSWORD", "", log),
	})
}

type EffectCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewEffectCache(rdb *redis.Client, ttl time.Duration, baseLog *logger.Logger) *EffectCache {
	return &EffectCache{rdb: rdb, ttl: ttl, log: baseLog.With("cache", "EffectCache")}
}

func effectKey(userID uuid.UUID) string {
	return fmt.Sprintf("effect:%s", userID)
}

func (c *EffectCache) Get(ctx context.Context, userID uuid.UUID) (*EffectStats, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, effectKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("effect cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var stats EffectStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.Warn("effect cache entry corrupt, dropping", "user_id", userID, "error", err)
		_ = c.rdb.Del(ctx, effectKey(userID)).Err()
		return nil, false
	}
	return &stats, true
}

func (c *EffectCache) Set(ctx context.Context, userID uuid.UUID, stats EffectStats) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, effectKey(userID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("effect cache write failed", "user_id", userID, "error", err)
	}
}

func (c *EffectCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, effectKey(userID)).Err(); err != nil {
		c.log.Warn("effect cache invalidate failed", "user_id", userID, "error", err)
	}
}
