package config

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a client for the live notification channel, or nil
// when redis is disabled.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
