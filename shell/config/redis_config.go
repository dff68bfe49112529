package config

import (
	"github.com/redis/go-redis/v9"
)

// RedisConfig creates a go-redis client for the supplied connection settings.
// The client connects lazily on first use.
func RedisConfig(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
