package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	DoroKeyPrefix        = "doro:%d"
	GlobalFeedAnonKey    = "feed:global:anon"
	LeaderboardKeyPrefix = "leaderboard:global:anon:%s"
)

const (
	UserTTL        = 5 * time.Minute
	DoroTTL        = 30 * time.Minute
	FeedTTL        = 1 * time.Minute
	LeaderboardTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func DoroKey(doroID uint) string {
	return fmt.Sprintf(DoroKeyPrefix, doroID)
}

// LeaderboardKey keys the anonymous global leaderboard by week-boundary timezone.
func LeaderboardKey(tz string) string {
	return fmt.Sprintf(LeaderboardKeyPrefix, tz)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateDoro(ctx context.Context, doroID uint) {
	Invalidate(ctx, DoroKey(doroID))
}

// InvalidateFeeds drops every cached feed and leaderboard entry. Called on
// any mutation that changes what a feed may contain: doro create/complete/
// delete, follow/unfollow, block/unblock, visibility toggles.
func InvalidateFeeds(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, GlobalFeedAnonKey)
	keys, err := client.Keys(ctx, "leaderboard:global:anon:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}
