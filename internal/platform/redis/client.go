package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"countries/internal/platform/config"
)

// Client wraps go-redis with health checking and the configured key prefix.
type Client struct {
	*redis.Client
	prefix string
}

// New connects to Redis. It returns (nil, nil) when no URL is configured so
// callers can fall back to local storage.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client, prefix: cfg.DraftPrefix}, nil
}

// Key namespaces k with the configured prefix.
func (c *Client) Key(k string) string {
	return c.prefix + k
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
