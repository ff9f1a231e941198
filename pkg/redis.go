package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-client/internal/config"
	"github.com/redis/go-redis/v9"
)

// redisDialTimeout keeps CLI commands from hanging on an unreachable token store.
const redisDialTimeout = 3 * time.Second

// NewRedisClient connects to REDIS_URL and pings it once before returning.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if opt.DialTimeout == 0 || opt.DialTimeout > redisDialTimeout {
		opt.DialTimeout = redisDialTimeout
	}
	opt.ClientName = "examctl"

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("token store redis at %s: %w", opt.Addr, err)
	}
	return client, nil
}
