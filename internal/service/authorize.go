package service

import (
	"context"

	"crushquest/internal/feed"
	"crushquest/internal/models"
	"crushquest/internal/repository"
)

// authorizeView enforces profile-level visibility: blocks veto in both
// directions, owners always pass, and a followers-only author requires the
// viewer to follow them. Hidden content reads as not found, never forbidden,
// so existence is not leaked.
func authorizeView(ctx context.Context, userRepo repository.UserRepository, relRepo repository.RelationshipRepository, viewerID, authorID uint) error {
	if viewerID == authorID && viewerID != 0 {
		return nil
	}

	author, err := userRepo.GetByID(ctx, authorID)
	if err != nil {
		return err
	}

	rel := feed.NoRelationships()
	if viewerID != 0 {
		blocked, err := relRepo.BlockedUserIDs(ctx, viewerID)
		if err != nil {
			return err
		}
		rel = &feed.Relationships{Blocked: toSet(blocked)}
		if author.FollowersOnly {
			following, err := relRepo.FollowingIDs(ctx, viewerID)
			if err != nil {
				return err
			}
			rel.Follows = toSet(following)
		}
	}

	if feed.Visible(viewerID, authorID, author.FollowersOnly, feed.ModeGlobal, rel) ||
		feed.Visible(viewerID, authorID, author.FollowersOnly, feed.ModeFollowing, rel) {
		return nil
	}
	return models.NewNotFoundError("user", authorID)
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
