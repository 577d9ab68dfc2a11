package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/models"
)

// AnswerCache memoizes full answers in Redis for a short TTL. Cache
// failures degrade to a miss; they never fail the query path.
type AnswerCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAnswerCache(rdb *redis.Client, ttl time.Duration) *AnswerCache {
	return &AnswerCache{rdb: rdb, ttl: ttl}
}

func (c *AnswerCache) Get(ctx context.Context, key string) (models.AnswerResult, bool) {
	var result models.AnswerResult
	if c == nil || c.rdb == nil {
		return result, false
	}

	data, err := c.rdb.Get(ctx, "answer:"+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Answer cache read failed", "error", err)
		}
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warn("Answer cache entry corrupt", "error", err)
		return result, false
	}
	return result, true
}

func (c *AnswerCache) Set(ctx context.Context, key string, result models.AnswerResult) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, "answer:"+key, data, c.ttl).Err(); err != nil {
		logger.Warn("Answer cache write failed", "error", err)
	}
}
