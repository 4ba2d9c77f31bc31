package service

import (
	"context"
	"strings"

	"crushquest/internal/models"
	"crushquest/internal/observability"
	"crushquest/internal/repository"
)

// Profile is a user with their social counts, as returned by profile reads.
type Profile struct {
	models.User
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

// UserService handles profile reads and settings updates.
type UserService struct {
	userRepo repository.UserRepository
	relRepo  repository.RelationshipRepository
}

func NewUserService(userRepo repository.UserRepository, relRepo repository.RelationshipRepository) *UserService {
	return &UserService{userRepo: userRepo, relRepo: relRepo}
}

// GetProfile returns a user's profile with follower counts. Users blocked in
// either direction read as not found.
func (s *UserService) GetProfile(ctx context.Context, viewerID, userID uint) (*Profile, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "UserService", "GetProfile")
	defer span.End()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewerID != 0 && viewerID != userID {
		blocked, err := s.relRepo.BlockedUserIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		for _, id := range blocked {
			if id == userID {
				return nil, models.NewNotFoundError("user", userID)
			}
		}
		isFollowing, err = s.relRepo.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
	}

	followers, err := s.relRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.relRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:           *user,
		FollowerCount:  followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
	}, nil
}

// UpdateProfile updates the caller's display name and avatar.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, displayName, avatarURL string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	displayName = strings.TrimSpace(displayName)
	if displayName != "" {
		user.DisplayName = displayName
	}
	if avatarURL != "" {
		user.AvatarURL = avatarURL
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetFollowersOnly flips the caller's followers-only switch. The change
// applies to all their doros at read time; nothing is rewritten.
func (s *UserService) SetFollowersOnly(ctx context.Context, userID uint, followersOnly bool) error {
	ctx, span := observability.TraceServiceMethod(ctx, "UserService", "SetFollowersOnly")
	defer span.End()

	return s.userRepo.SetFollowersOnly(ctx, userID, followersOnly)
}
