package utils

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/blogforge/blogd/config"
)

// NewRedis connects to the configured Redis. It returns nil when no host is
// configured or the server does not answer, and callers fall back to local
// behaviour.
func NewRedis(ctx context.Context, cfg config.AppConfig) *redis.Client {
	if cfg.RedisHost == "" {
		return nil
	}
	addr := net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort))
	rc := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		Logger.Warn("redis unavailable, cache and token revocation stay in process",
			zap.String("addr", addr), zap.Error(err))
		_ = rc.Close()
		return nil
	}
	return rc
}
