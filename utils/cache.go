// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"calleroo/config"
)

var (
	// ConversationCacheClient stores per-conversation slot state.
	ConversationCacheClient *redis.Client
	// IdempotencyCacheClient stores replayable turn decisions.
	IdempotencyCacheClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (db %d): %v", db, err)
	}
	return client
}

// InitRedis initializes all Redis clients used by the backend.
func InitRedis() {
	ConversationCacheClient = newRedisClient(config.AppConfig.RedisConversationDB)
	IdempotencyCacheClient = newRedisClient(config.AppConfig.RedisIdempotencyDB)
}

// GetConversationCacheClient returns the conversation-state client.
func GetConversationCacheClient() *redis.Client {
	if ConversationCacheClient == nil {
		ConversationCacheClient = newRedisClient(config.AppConfig.RedisConversationDB)
	}
	return ConversationCacheClient
}

// GetIdempotencyCacheClient returns the idempotency-cache client.
func GetIdempotencyCacheClient() *redis.Client {
	if IdempotencyCacheClient == nil {
		IdempotencyCacheClient = newRedisClient(config.AppConfig.RedisIdempotencyDB)
	}
	return IdempotencyCacheClient
}
