package conversation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"calleroo/models"
)

const conversationPrefix = "conv:state:"

// StateStore persists conversation state between turns.
type StateStore interface {
	Get(ctx context.Context, conversationID string) (*models.ConversationState, error)
	Set(ctx context.Context, state *models.ConversationState) error
	Clear(ctx context.Context, conversationID string) error
}

type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: ttl}
}

func (s *RedisStateStore) Get(ctx context.Context, conversationID string) (*models.ConversationState, error) {
	data, err := s.client.Get(ctx, conversationPrefix+conversationID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state models.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RedisStateStore) Set(ctx context.Context, state *models.ConversationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, conversationPrefix+state.ConversationID, b, s.ttl).Err()
}

func (s *RedisStateStore) Clear(ctx context.Context, conversationID string) error {
	return s.client.Del(ctx, conversationPrefix+conversationID).Err()
}
