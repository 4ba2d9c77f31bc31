// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"context"
	"strconv"
	"strings"

	"crushquest/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var (
	cfg       *config.Config
	authRedis *redis.Client
)

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// SetAuthRedis wires the Redis client used for token revocation checks.
// Without one, revoked tokens stay valid until they expire.
func SetAuthRedis(rdb *redis.Client) {
	authRedis = rdb
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	userID, errMsg := userIDFromBearer(c, authHeader)
	if errMsg != "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": errMsg,
		})
	}

	setUserID(c, userID)
	return c.Next()
}

// OptionalAuth resolves the user ID from the Authorization header when one is
// present but lets unauthenticated requests through. Feed and leaderboard
// routes are public yet personalize their results for signed-in viewers.
func OptionalAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	userID, errMsg := userIDFromBearer(c, authHeader)
	if errMsg != "" {
		// A malformed token on a public route is rejected rather than
		// silently downgraded to anonymous.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": errMsg,
		})
	}

	setUserID(c, userID)
	return c.Next()
}

// setUserID stores the authenticated user ID in both fiber locals and the
// request context, so logging and downstream services see it.
func setUserID(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}

// userIDFromBearer validates a "Bearer <token>" header value and returns the
// user ID from the "sub" claim, or a non-empty error message.
func userIDFromBearer(c *fiber.Ctx, authHeader string) (uint, string) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, "Invalid authorization header format"
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "Invalid or expired token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "Invalid token claims"
	}

	// Subject claim per RFC 7519 carries the user ID
	subClaim, ok := claims["sub"]
	if !ok {
		return 0, "Invalid token structure - missing subject"
	}

	subStr, ok := subClaim.(string)
	if !ok {
		return 0, "Invalid token subject type"
	}

	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, "Invalid user ID in token"
	}

	// Logout blacklists the token's JTI until its natural expiry.
	if jti, ok := claims["jti"].(string); ok && jti != "" && authRedis != nil {
		revoked, err := authRedis.Exists(c.Context(), "blacklist:"+jti).Result()
		if err == nil && revoked > 0 {
			return 0, "Token has been revoked"
		}
	}

	return uint(userIDVal), ""
}
