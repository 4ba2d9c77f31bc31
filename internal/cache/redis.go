// Package cache is the Redis caching layer: a shared client, JSON helpers,
// a cache-aside wrapper, and the key inventory with invalidation.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"crushquest/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// The cache is optional. A nil client means every helper degrades to a
// no-op or a source fetch, so the app runs without Redis.
var client *redis.Client

const connectTimeout = 5 * time.Second

// errCounterHook counts failed commands so a flapping Redis shows up in
// metrics instead of only in degraded latency.
type errCounterHook struct{}

func (errCounterHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (errCounterHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (errCounterHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

func parseAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// InitRedis connects the shared client. Connection failure is logged and
// leaves the client nil rather than failing startup.
func InitRedis(addr string) {
	opts, err := parseAddr(addr)
	if err != nil {
		middleware.Logger.Warn("invalid redis address, running without cache",
			"addr", addr, "error", err)
		client = nil
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(errCounterHook{})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("redis unreachable, running without cache", "error", err)
		client = nil
		return
	}

	middleware.Logger.Info("redis connected")
	client = c
}

// SetClient swaps the shared client. Tests use this with miniredis.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the shared client, nil when the cache is disabled.
func GetClient() *redis.Client {
	return client
}
