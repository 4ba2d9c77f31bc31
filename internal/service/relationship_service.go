package service

import (
	"context"
	"errors"

	"crushquest/internal/events"
	"crushquest/internal/models"
	"crushquest/internal/observability"
	"crushquest/internal/repository"
)

// RelationshipService manages follow and block edges between users.
type RelationshipService struct {
	relRepo   repository.RelationshipRepository
	userRepo  repository.UserRepository
	publisher *events.Publisher
}

func NewRelationshipService(relRepo repository.RelationshipRepository, userRepo repository.UserRepository, publisher *events.Publisher) *RelationshipService {
	return &RelationshipService{relRepo: relRepo, userRepo: userRepo, publisher: publisher}
}

// Follow creates a follow edge from the actor to the target. Following
// yourself or a user either side has blocked is rejected.
func (s *RelationshipService) Follow(ctx context.Context, actorID, targetID uint) error {
	ctx, span := observability.TraceServiceMethod(ctx, "RelationshipService", "Follow")
	defer span.End()

	if actorID == targetID {
		return models.NewValidationError("you cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	blocked, err := s.relRepo.BlockedUserIDs(ctx, actorID)
	if err != nil {
		return err
	}
	for _, id := range blocked {
		if id == targetID {
			return models.NewForbiddenError("you cannot follow this user")
		}
	}

	if err := s.relRepo.Follow(ctx, actorID, targetID); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.TypeFollowCreated, actorID, targetID, 0)
	return nil
}

// Unfollow removes the follow edge if present.
func (s *RelationshipService) Unfollow(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return models.NewValidationError("you cannot unfollow yourself")
	}
	return s.relRepo.Unfollow(ctx, actorID, targetID)
}

// Block creates a block edge from the actor to the target and severs any
// follow edges between them in both directions.
func (s *RelationshipService) Block(ctx context.Context, actorID, targetID uint) error {
	ctx, span := observability.TraceServiceMethod(ctx, "RelationshipService", "Block")
	defer span.End()

	if actorID == targetID {
		return models.NewValidationError("you cannot block yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	if err := s.relRepo.Block(ctx, actorID, targetID); err != nil {
		return err
	}
	if err := s.severFollow(ctx, actorID, targetID); err != nil {
		return err
	}
	return s.severFollow(ctx, targetID, actorID)
}

// severFollow removes a follow edge during a block. A missing edge is not an
// error here; the point is that no follow survives the block.
func (s *RelationshipService) severFollow(ctx context.Context, followerID, followeeID uint) error {
	err := s.relRepo.Unfollow(ctx, followerID, followeeID)
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
		return nil
	}
	return err
}

// Unblock removes the block edge the actor created, if present. It does not
// restore follow edges severed by the block.
func (s *RelationshipService) Unblock(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return models.NewValidationError("you cannot unblock yourself")
	}
	return s.relRepo.Unblock(ctx, actorID, targetID)
}

// IsFollowing reports whether follower follows followee.
func (s *RelationshipService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.relRepo.IsFollowing(ctx, followerID, followeeID)
}

// Followers returns the users following userID.
func (s *RelationshipService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.relRepo.GetFollowers(ctx, userID)
}

// Following returns the users userID follows.
func (s *RelationshipService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.relRepo.GetFollowing(ctx, userID)
}

// Counts returns follower and following counts for a user.
func (s *RelationshipService) Counts(ctx context.Context, userID uint) (followers, following int64, err error) {
	followers, err = s.relRepo.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err = s.relRepo.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
