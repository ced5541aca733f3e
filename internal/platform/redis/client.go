// Package redis builds the go-redis client used by the token revocation
// list and reports its liveness to the health endpoint.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"innoport/internal/platform/config"
)

// Client embeds the go-redis client so callers use it directly; the wrapper
// exists for the Health probe.
type Client struct {
	*redis.Client
}

// New connects and pings once so a bad URL fails at startup, not on the
// first revoked-token check. Returns nil when no URL is configured.
func New(cfg config.Redis) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers; /healthz calls it.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.Client.Close()
}
