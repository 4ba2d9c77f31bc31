package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"crushquest/internal/models"
	"crushquest/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}

// doroRepoStub is a stub for repository.PomodoroRepository.
type doroRepoStub struct {
	createFn                func(context.Context, *models.Pomodoro) error
	getByIDFn               func(context.Context, uint, uint) (*models.Pomodoro, error)
	getByUserIDFn           func(context.Context, uint, int, int, uint) ([]*models.Pomodoro, error)
	listRecentCompletedFn   func(context.Context, int, uint) ([]*models.Pomodoro, error)
	updateFn                func(context.Context, *models.Pomodoro) error
	deleteFn                func(context.Context, uint) error
	firstCompletedInRangeFn func(context.Context, uint, time.Time, time.Time) (*models.Pomodoro, error)
	countCompletedAfterFn   func(context.Context, uint, time.Time) (int64, error)
	countCompletedFn        func(context.Context, uint) (int64, error)
	weeklyCountsFn          func(context.Context, time.Time) ([]repository.WeeklyCount, error)
	isLikedFn               func(context.Context, uint, uint) (bool, error)
	likeFn                  func(context.Context, uint, uint) error
	unlikeFn                func(context.Context, uint, uint) error
}

func (s *doroRepoStub) Create(ctx context.Context, doro *models.Pomodoro) error {
	return s.createFn(ctx, doro)
}
func (s *doroRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Pomodoro, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *doroRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Pomodoro, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *doroRepoStub) ListRecentCompleted(ctx context.Context, limit int, currentUserID uint) ([]*models.Pomodoro, error) {
	return s.listRecentCompletedFn(ctx, limit, currentUserID)
}
func (s *doroRepoStub) Update(ctx context.Context, doro *models.Pomodoro) error {
	return s.updateFn(ctx, doro)
}
func (s *doroRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *doroRepoStub) FirstCompletedInRange(ctx context.Context, userID uint, start, end time.Time) (*models.Pomodoro, error) {
	return s.firstCompletedInRangeFn(ctx, userID, start, end)
}
func (s *doroRepoStub) CountCompletedAfter(ctx context.Context, userID uint, launchAfter time.Time) (int64, error) {
	return s.countCompletedAfterFn(ctx, userID, launchAfter)
}
func (s *doroRepoStub) CountCompleted(ctx context.Context, userID uint) (int64, error) {
	return s.countCompletedFn(ctx, userID)
}
func (s *doroRepoStub) WeeklyCompletionCounts(ctx context.Context, since time.Time) ([]repository.WeeklyCount, error) {
	return s.weeklyCountsFn(ctx, since)
}
func (s *doroRepoStub) IsLiked(ctx context.Context, userID, doroID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, doroID)
}
func (s *doroRepoStub) Like(ctx context.Context, userID, doroID uint) error {
	return s.likeFn(ctx, userID, doroID)
}
func (s *doroRepoStub) Unlike(ctx context.Context, userID, doroID uint) error {
	return s.unlikeFn(ctx, userID, doroID)
}

func noopDoroRepo() *doroRepoStub {
	return &doroRepoStub{
		createFn:      func(_ context.Context, _ *models.Pomodoro) error { return nil },
		getByIDFn:     func(_ context.Context, _, _ uint) (*models.Pomodoro, error) { return &models.Pomodoro{}, nil },
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Pomodoro, error) { return nil, nil },
		listRecentCompletedFn: func(_ context.Context, _ int, _ uint) ([]*models.Pomodoro, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Pomodoro) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		firstCompletedInRangeFn: func(_ context.Context, _ uint, _, _ time.Time) (*models.Pomodoro, error) {
			return &models.Pomodoro{}, nil
		},
		countCompletedAfterFn: func(_ context.Context, _ uint, _ time.Time) (int64, error) { return 0, nil },
		countCompletedFn:      func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		weeklyCountsFn: func(_ context.Context, _ time.Time) ([]repository.WeeklyCount, error) {
			return nil, nil
		},
		isLikedFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeFn:            func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:          func(_ context.Context, _, _ uint) error { return nil },
	}
}

// relRepoStub is a stub for repository.RelationshipRepository.
type relRepoStub struct {
	followFn         func(context.Context, uint, uint) error
	unfollowFn       func(context.Context, uint, uint) error
	isFollowingFn    func(context.Context, uint, uint) (bool, error)
	followingIDsFn   func(context.Context, uint) ([]uint, error)
	getFollowersFn   func(context.Context, uint) ([]models.User, error)
	getFollowingFn   func(context.Context, uint) ([]models.User, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
	blockFn          func(context.Context, uint, uint) error
	unblockFn        func(context.Context, uint, uint) error
	blocksTouchingFn func(context.Context, uint) ([]models.Block, error)
	blockedUserIDsFn func(context.Context, uint) ([]uint, error)
}

func (s *relRepoStub) Follow(ctx context.Context, followerID, followeeID uint) error {
	return s.followFn(ctx, followerID, followeeID)
}
func (s *relRepoStub) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	return s.unfollowFn(ctx, followerID, followeeID)
}
func (s *relRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *relRepoStub) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, followerID)
}
func (s *relRepoStub) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.getFollowersFn(ctx, userID)
}
func (s *relRepoStub) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	return s.getFollowingFn(ctx, userID)
}
func (s *relRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *relRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}
func (s *relRepoStub) Block(ctx context.Context, blockerID, blockedID uint) error {
	return s.blockFn(ctx, blockerID, blockedID)
}
func (s *relRepoStub) Unblock(ctx context.Context, blockerID, blockedID uint) error {
	return s.unblockFn(ctx, blockerID, blockedID)
}
func (s *relRepoStub) BlocksTouching(ctx context.Context, userID uint) ([]models.Block, error) {
	return s.blocksTouchingFn(ctx, userID)
}
func (s *relRepoStub) BlockedUserIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.blockedUserIDsFn(ctx, userID)
}

func noopRelRepo() *relRepoStub {
	return &relRepoStub{
		followFn:         func(_ context.Context, _, _ uint) error { return nil },
		unfollowFn:       func(_ context.Context, _, _ uint) error { return nil },
		isFollowingFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followingIDsFn:   func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		getFollowersFn:   func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		getFollowingFn:   func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		blockFn:          func(_ context.Context, _, _ uint) error { return nil },
		unblockFn:        func(_ context.Context, _, _ uint) error { return nil },
		blocksTouchingFn: func(_ context.Context, _ uint) ([]models.Block, error) { return nil, nil },
		blockedUserIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	getByUsernameFn    func(context.Context, string) (*models.User, error)
	createFn           func(context.Context, *models.User) error
	updateFn           func(context.Context, *models.User) error
	setFollowersOnlyFn func(context.Context, uint, bool) error
	deleteFn           func(context.Context, uint) error
	listFn             func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) SetFollowersOnly(ctx context.Context, userID uint, followersOnly bool) error {
	return s.setFollowersOnlyFn(ctx, userID, followersOnly)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:          func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:       func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:           func(_ context.Context, _ *models.User) error { return nil },
		updateFn:           func(_ context.Context, _ *models.User) error { return nil },
		setFollowersOnlyFn: func(_ context.Context, _ uint, _ bool) error { return nil },
		deleteFn:           func(_ context.Context, _ uint) error { return nil },
		listFn:             func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}
