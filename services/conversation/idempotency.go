package conversation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"calleroo/models"
)

const idempotencyPrefix = "conv:idem:"

// DecisionCache replays prior turn decisions. A request with the same
// idempotency key and client action must get a byte-identical decision
// back, even if the free-text message differs.
type DecisionCache interface {
	Get(ctx context.Context, key string, action models.ClientAction) (*models.TurnResponse, error)
	Put(ctx context.Context, key string, action models.ClientAction, resp *models.TurnResponse) error
}

type RedisDecisionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDecisionCache(client *redis.Client, ttl time.Duration) *RedisDecisionCache {
	return &RedisDecisionCache{client: client, ttl: ttl}
}

func cacheKey(key string, action models.ClientAction) string {
	return idempotencyPrefix + key + ":" + string(action)
}

func (c *RedisDecisionCache) Get(ctx context.Context, key string, action models.ClientAction) (*models.TurnResponse, error) {
	data, err := c.client.Get(ctx, cacheKey(key, action)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp models.TurnResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *RedisDecisionCache) Put(ctx context.Context, key string, action models.ClientAction, resp *models.TurnResponse) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(key, action), b, c.ttl).Err()
}
