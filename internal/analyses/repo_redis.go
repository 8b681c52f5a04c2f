package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cv-analyzer/internal/shared/util"
)

const redisKeyPrefix = "cv:analysis:"

// RedisRepo stores one JSON value per session. Values expire after TTL, so
// Redis itself performs retention.
type RedisRepo struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisRepo constructs a RedisRepo.
func NewRedisRepo(client *redis.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{Client: client, TTL: ttl}
}

// Save stores the analysis, replacing any earlier one for the session and
// resetting its expiry. The earlier CreatedAt is carried over.
func (r *RedisRepo) Save(ctx context.Context, analysis Analysis) (Analysis, error) {
	prev, err := r.GetBySession(ctx, analysis.SessionID)
	switch {
	case err == nil:
		if !prev.CreatedAt.IsZero() {
			analysis.CreatedAt = prev.CreatedAt
		}
	case !errors.Is(err, ErrNotFound):
		return Analysis{}, fmt.Errorf("read previous analysis: %w", err)
	}

	payload, err := json.Marshal(analysis)
	if err != nil {
		return Analysis{}, fmt.Errorf("marshal analysis: %w", err)
	}
	if err := r.Client.Set(ctx, redisKey(analysis.SessionID), payload, r.TTL).Err(); err != nil {
		return Analysis{}, err
	}
	return analysis, nil
}

// GetBySession returns the analysis stored for a session.
func (r *RedisRepo) GetBySession(ctx context.Context, sessionID string) (Analysis, error) {
	payload, err := r.Client.Get(ctx, redisKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	var a Analysis
	if err := json.Unmarshal(payload, &a); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return a, nil
}

// Delete removes the analysis stored for a session.
func (r *RedisRepo) Delete(ctx context.Context, sessionID string) error {
	n, err := r.Client.Del(ctx, redisKey(sessionID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOlderThan is a no-op: keys carry their own TTL.
func (r *RedisRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, ctx.Err()
}

var _ Repo = (*RedisRepo)(nil)

func redisKey(sessionID string) string {
	return redisKeyPrefix + util.HashKey(sessionID)
}
