package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis when REDIS_ADDR is set. It returns nil
// when Redis is not configured or unreachable; callers fall back to the
// in-memory session store.
func NewRedisClient(env Env) *redis.Client {
	if env.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("warning: redis %s unreachable, sessions stay in memory: %v", env.RedisAddr, err)
		_ = client.Close()
		return nil
	}
	return client
}
