package middleware

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy controls what happens to a request when the limiter's Redis
// store cannot be reached.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed rejects the request with 503.
	FailClosed
)

func limiterDisabled() bool {
	switch os.Getenv("APP_ENV") {
	case "", "development", "test":
		return true
	}
	return false
}

// RateLimit enforces limit requests per window, keyed by the authenticated
// user when present and by remote IP otherwise. The optional name overrides
// the request path as the counter namespace, so signup and login can share
// a budget across routes. Fails open.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Local and test workflows are never throttled.
		if limiterDisabled() {
			return c.Next()
		}

		scope := c.Path()
		if len(name) > 0 {
			scope = name[0]
		}

		caller := "ip:" + c.IP()
		if uid := c.Locals("userID"); uid != nil {
			caller = fmt.Sprintf("user:%v", uid)
		}

		over, err := overLimit(c, rdb, scope, caller, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.Context(), "rate limiter unavailable, rejecting",
					"scope", scope, "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			Logger.WarnContext(c.Context(), "rate limiter unavailable, allowing",
				"scope", scope, "error", err)
			return c.Next()
		}
		if over {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}

func overLimit(c *fiber.Ctx, rdb *redis.Client, scope, caller string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("no redis client configured")
	}

	key := fmt.Sprintf("ratelimit:%s:%s", scope, caller)
	count, err := rdb.Incr(c.Context(), key).Result()
	if err != nil {
		return false, err
	}
	// First hit in the window starts the clock.
	if count == 1 {
		rdb.Expire(c.Context(), key, window)
	}
	return count > int64(limit), nil
}
