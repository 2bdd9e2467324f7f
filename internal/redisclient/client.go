package redisclient

import (
	"hn-gems/internal/config"

	"github.com/redis/go-redis/v9"
)

// New creates a Redis client from configuration. Returns nil when no
// address is configured; callers treat a nil client as "no cache".
func New(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
