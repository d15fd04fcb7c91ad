package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2026.net/internal/domain"
)

const resultKeyPrefix = "submission:result:"

var _ secondary.ResultCache = (*ResultCache)(nil)

// ResultCache implements the ResultCache interface with Redis
type ResultCache struct {
	redisClient *redis.Client
	ttl         time.Duration
	logger      primary.Logger
}

// NewResultCache creates a new Redis result cache
func NewResultCache(redisClient *redis.Client, ttl time.Duration, logger primary.Logger) *ResultCache {
	return &ResultCache{
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

// SaveResult caches a verdict under the submission ID with a TTL
func (c *ResultCache) SaveResult(ctx context.Context, id uuid.UUID, result *domain.SubmissionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := c.redisClient.Set(ctx, resultKey(id), data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to cache result", "submissionId", id, "error", err)
		return fmt.Errorf("failed to cache result: %w", err)
	}
	return nil
}

// GetResult retrieves a cached verdict; a miss is nil without error
func (c *ResultCache) GetResult(ctx context.Context, id uuid.UUID) (*domain.SubmissionResult, error) {
	data, err := c.redisClient.Get(ctx, resultKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached result: %w", err)
	}

	var result domain.SubmissionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &result, nil
}

func resultKey(id uuid.UUID) string {
	return resultKeyPrefix + id.String()
}
