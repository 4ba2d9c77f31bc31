package service

import (
	"context"
	"log/slog"

	"crushquest/internal/cache"
	"crushquest/internal/feed"
	"crushquest/internal/middleware"
	"crushquest/internal/models"
	"crushquest/internal/observability"
	"crushquest/internal/repository"
)

// FeedService assembles the home feed: fetch a window of recent completed
// doros, then filter them through the visibility rules for the viewer.
// Filtering happens after the fetch, so a page can come back shorter than
// the window; it is never padded with a second query.
type FeedService struct {
	doroRepo    repository.PomodoroRepository
	relRepo     repository.RelationshipRepository
	fetchWindow int
}

func NewFeedService(doroRepo repository.PomodoroRepository, relRepo repository.RelationshipRepository, fetchWindow int) *FeedService {
	if fetchWindow <= 0 {
		fetchWindow = feed.DefaultPageSize
	}
	return &FeedService{doroRepo: doroRepo, relRepo: relRepo, fetchWindow: fetchWindow}
}

// GetFeed returns the visible feed for the viewer in the given mode, newest
// launch first. viewerID 0 means anonymous. Any relationship lookup failure
// fails the whole request rather than serving an unfiltered feed.
func (s *FeedService) GetFeed(ctx context.Context, viewerID uint, mode feed.Mode) ([]*models.Pomodoro, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "FeedService", "GetFeed")
	defer span.End()

	if !mode.Valid() {
		return nil, models.NewValidationError("unknown feed mode")
	}
	if mode == feed.ModeFollowing && viewerID == 0 {
		return nil, models.NewUnauthorizedError("sign in to view the following feed")
	}

	// The anonymous global feed is identical for every visitor, so it is
	// the one feed worth caching. Invalidation happens in the repositories
	// on every doro or relationship mutation.
	if viewerID == 0 && mode == feed.ModeGlobal {
		var doros []*models.Pomodoro
		err := cache.Aside(ctx, cache.GlobalFeedAnonKey, &doros, cache.FeedTTL, func() error {
			var err error
			doros, err = s.assemble(ctx, viewerID, mode)
			return err
		})
		return doros, err
	}

	return s.assemble(ctx, viewerID, mode)
}

func (s *FeedService) assemble(ctx context.Context, viewerID uint, mode feed.Mode) ([]*models.Pomodoro, error) {
	candidates, err := s.doroRepo.ListRecentCompleted(ctx, s.fetchWindow, viewerID)
	if err != nil {
		middleware.RecordFeedRequest(string(mode), "error")
		return nil, err
	}

	rel, err := s.loadRelationships(ctx, viewerID)
	if err != nil {
		middleware.RecordFeedRequest(string(mode), "error")
		return nil, err
	}

	visible := make([]*models.Pomodoro, 0, len(candidates))
	for _, doro := range candidates {
		if feed.Visible(viewerID, doro.UserID, doro.AuthorFollowersOnly, mode, rel) {
			visible = append(visible, doro)
		}
	}

	middleware.RecordFeedRequest(string(mode), "ok")
	middleware.RecordFeedFilteredOut(string(mode), len(candidates)-len(visible))
	middleware.Logger.DebugContext(ctx, "feed assembled",
		slog.String("mode", string(mode)),
		slog.Int("candidates", len(candidates)),
		slog.Int("visible", len(visible)))

	return visible, nil
}

// loadRelationships fetches the follow and block edges the visibility filter
// needs. Both modes consult the follow set: following mode to select
// authors, global mode for the followers-only exception.
func (s *FeedService) loadRelationships(ctx context.Context, viewerID uint) (*feed.Relationships, error) {
	if viewerID == 0 {
		return feed.NoRelationships(), nil
	}

	blocked, err := s.relRepo.BlockedUserIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	following, err := s.relRepo.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	return &feed.Relationships{
		Follows: toSet(following),
		Blocked: toSet(blocked),
	}, nil
}
