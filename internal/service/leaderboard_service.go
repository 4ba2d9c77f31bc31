package service

import (
	"context"
	"log/slog"
	"time"

	"crushquest/internal/cache"
	"crushquest/internal/feed"
	"crushquest/internal/middleware"
	"crushquest/internal/observability"
	"crushquest/internal/repository"
)

// LeaderboardRow is one entry on a weekly leaderboard.
type LeaderboardRow struct {
	UserID          uint   `json:"user_id"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	AvatarURL       string `json:"avatar_url"`
	CompletionCount int64  `json:"completion_count"`
	IsFollowing     bool   `json:"is_following"`
}

// LeaderboardService ranks users by doros completed in the rolling week. The
// week starts Monday 00:00 in the caller's timezone, so the same instant can
// fall in different weeks for callers in different timezones.
type LeaderboardService struct {
	doroRepo repository.PomodoroRepository
	relRepo  repository.RelationshipRepository

	// defaultTZ is the configured week-boundary timezone used when the
	// caller does not supply one.
	defaultTZ string

	// now is swappable in tests.
	now func() time.Time
}

func NewLeaderboardService(doroRepo repository.PomodoroRepository, relRepo repository.RelationshipRepository, defaultTZ string) *LeaderboardService {
	return &LeaderboardService{doroRepo: doroRepo, relRepo: relRepo, defaultTZ: defaultTZ, now: time.Now}
}

// location resolves the caller's timezone, preferring the configured default
// over the package fallback when the caller sends none.
func (s *LeaderboardService) location(tz string) *time.Location {
	if tz == "" {
		tz = s.defaultTZ
	}
	return feed.ResolveLocation(tz)
}

// Global returns the weekly leaderboard across all users visible to the
// viewer. Followers-only users appear only to their followers (and
// themselves); blocked users never appear.
func (s *LeaderboardService) Global(ctx context.Context, viewerID uint, tz string) ([]LeaderboardRow, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "LeaderboardService", "Global")
	defer span.End()

	loc := s.location(tz)

	if viewerID == 0 {
		// Anonymous boards only vary by week boundary, which is a function
		// of the timezone, so they cache per timezone.
		var rows []LeaderboardRow
		err := cache.Aside(ctx, cache.LeaderboardKey(loc.String()), &rows, cache.LeaderboardTTL, func() error {
			var err error
			rows, err = s.build(ctx, 0, loc, nil)
			return err
		})
		return rows, err
	}

	return s.build(ctx, viewerID, loc, nil)
}

// Friends returns the weekly leaderboard restricted to the viewer and the
// users they follow.
func (s *LeaderboardService) Friends(ctx context.Context, viewerID uint, tz string) ([]LeaderboardRow, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "LeaderboardService", "Friends")
	defer span.End()

	following, err := s.relRepo.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	circle := toSet(following)
	circle[viewerID] = struct{}{}

	return s.build(ctx, viewerID, s.location(tz), circle)
}

// build assembles leaderboard rows from the weekly counts, filtered by the
// viewer's relationships. When circle is non-nil only users in it appear.
func (s *LeaderboardService) build(ctx context.Context, viewerID uint, loc *time.Location, circle map[uint]struct{}) ([]LeaderboardRow, error) {
	since := feed.WeekStart(s.now(), loc)

	counts, err := s.doroRepo.WeeklyCompletionCounts(ctx, since)
	if err != nil {
		return nil, err
	}

	rel := feed.NoRelationships()
	if viewerID != 0 {
		blocked, err := s.relRepo.BlockedUserIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		following, err := s.relRepo.FollowingIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		rel = &feed.Relationships{Blocked: toSet(blocked), Follows: toSet(following)}
	}

	rows := make([]LeaderboardRow, 0, len(counts))
	for _, c := range counts {
		if circle != nil {
			if _, ok := circle[c.UserID]; !ok {
				continue
			}
		}
		if rel.BlockedWith(c.UserID) {
			continue
		}
		if c.FollowersOnly && c.UserID != viewerID && !rel.FollowsAuthor(c.UserID) {
			continue
		}
		rows = append(rows, LeaderboardRow{
			UserID:          c.UserID,
			Username:        c.Username,
			DisplayName:     c.DisplayName,
			AvatarURL:       c.AvatarURL,
			CompletionCount: c.Count,
			IsFollowing:     rel.FollowsAuthor(c.UserID),
		})
	}
	middleware.Logger.DebugContext(ctx, "leaderboard built",
		slog.Time("week_start", since), slog.Int("rows", len(rows)))
	return rows, nil
}
