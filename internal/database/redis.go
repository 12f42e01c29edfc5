package database

import (
	"context"
	"time"

	"github.com/pushp314/releasenotes-backend/internal/config"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Redis holds revoked token ids. It stays nil when REDIS_ADDR is unset.
var Redis *redis.Client

var Ctx = context.Background()

const revokedPrefix = "revoked_token:"

func InitRedis() {
	if config.AppConfig.RedisAddr == "" {
		logger.Warn().Msg("REDIS_ADDR not set, token revocation disabled")
		return
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	if _, err := Redis.Ping(Ctx).Result(); err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis, token revocation disabled")
		Redis = nil
		return
	}
	logger.Info().Msg("Connected to Redis")
}

// BlacklistToken marks jti as revoked until the token would have expired anyway
func BlacklistToken(jti string, ttl time.Duration) error {
	if Redis == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return Redis.Set(Ctx, revokedPrefix+jti, "1", ttl).Err()
}

// IsTokenBlacklisted fails open when Redis is unavailable
func IsTokenBlacklisted(jti string) bool {
	if Redis == nil || jti == "" {
		return false
	}
	n, err := Redis.Exists(Ctx, revokedPrefix+jti).Result()
	if err != nil {
		logger.Warn().Err(err).Msg("Token revocation lookup failed")
		return false
	}
	return n > 0
}
