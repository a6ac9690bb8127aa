package cacheutils

import (
	"context"
	"crypto/tls"

	"github.com/redis/go-redis/v9"
	"github.com/yurys/todo-list-backend/config"
	"github.com/yurys/todo-list-backend/logger"
	"go.uber.org/zap"
)

// Connect builds a redis client from the configured URL and verifies it with
// a ping. The cache is optional infrastructure; callers decide whether a
// failure here is fatal.
func Connect(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	log := logger.FromCtx(ctx)

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	// managed redis offerings require TLS in production
	if cfg.IsProduction() && opt.TLSConfig == nil {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opt)
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info("redis connection established",
		zap.String("addr", opt.Addr),
		zap.String("ping", pong),
		zap.Bool("tls", opt.TLSConfig != nil),
	)
	return client, nil
}
