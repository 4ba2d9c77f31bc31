package service

import (
	"context"
	"testing"

	"crushquest/internal/events"
	"crushquest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRelService(rr *relRepoStub, ur *userRepoStub) *RelationshipService {
	return NewRelationshipService(rr, ur, events.NewPublisher(nil))
}

func TestRelationshipService_Follow_Self(t *testing.T) {
	t.Parallel()

	svc := newRelService(noopRelRepo(), noopUserRepo())
	err := svc.Follow(context.Background(), 1, 1)
	assertValidationError(t, err)
}

func TestRelationshipService_Follow_MissingTarget(t *testing.T) {
	t.Parallel()

	ur := noopUserRepo()
	ur.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := newRelService(noopRelRepo(), ur)
	err := svc.Follow(context.Background(), 1, 2)
	assert.Error(t, err)
}

func TestRelationshipService_Follow_BlockedTarget(t *testing.T) {
	t.Parallel()

	followed := false
	rr := noopRelRepo()
	rr.blockedUserIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{2}, nil
	}
	rr.followFn = func(_ context.Context, _, _ uint) error {
		followed = true
		return nil
	}

	svc := newRelService(rr, noopUserRepo())
	err := svc.Follow(context.Background(), 1, 2)
	assertForbiddenError(t, err)
	assert.False(t, followed)
}

func TestRelationshipService_Follow_CreatesEdge(t *testing.T) {
	t.Parallel()

	var gotFollower, gotFollowee uint
	rr := noopRelRepo()
	rr.followFn = func(_ context.Context, followerID, followeeID uint) error {
		gotFollower, gotFollowee = followerID, followeeID
		return nil
	}

	svc := newRelService(rr, noopUserRepo())
	require.NoError(t, svc.Follow(context.Background(), 1, 2))
	assert.Equal(t, uint(1), gotFollower)
	assert.Equal(t, uint(2), gotFollowee)
}

func TestRelationshipService_Block_SeversFollowsBothWays(t *testing.T) {
	t.Parallel()

	blockedPair := [2]uint{}
	var unfollows [][2]uint
	rr := noopRelRepo()
	rr.blockFn = func(_ context.Context, blockerID, blockedID uint) error {
		blockedPair = [2]uint{blockerID, blockedID}
		return nil
	}
	rr.unfollowFn = func(_ context.Context, followerID, followeeID uint) error {
		unfollows = append(unfollows, [2]uint{followerID, followeeID})
		return nil
	}

	svc := newRelService(rr, noopUserRepo())
	require.NoError(t, svc.Block(context.Background(), 1, 2))

	assert.Equal(t, [2]uint{1, 2}, blockedPair)
	assert.Equal(t, [][2]uint{{1, 2}, {2, 1}}, unfollows)
}

func TestRelationshipService_Block_NoFollowEdges(t *testing.T) {
	t.Parallel()

	rr := noopRelRepo()
	rr.unfollowFn = func(_ context.Context, _, followeeID uint) error {
		return models.NewNotFoundError("Follow", followeeID)
	}

	svc := newRelService(rr, noopUserRepo())
	require.NoError(t, svc.Block(context.Background(), 1, 2))
}

func TestRelationshipService_Block_Self(t *testing.T) {
	t.Parallel()

	svc := newRelService(noopRelRepo(), noopUserRepo())
	err := svc.Block(context.Background(), 1, 1)
	assertValidationError(t, err)
}

func TestRelationshipService_Unblock_DoesNotRestoreFollows(t *testing.T) {
	t.Parallel()

	rr := noopRelRepo()
	rr.followFn = func(_ context.Context, _, _ uint) error {
		t.Fatal("unblock must not create follow edges")
		return nil
	}

	svc := newRelService(rr, noopUserRepo())
	require.NoError(t, svc.Unblock(context.Background(), 1, 2))
}

func TestRelationshipService_Counts(t *testing.T) {
	t.Parallel()

	rr := noopRelRepo()
	rr.countFollowersFn = func(_ context.Context, _ uint) (int64, error) { return 3, nil }
	rr.countFollowingFn = func(_ context.Context, _ uint) (int64, error) { return 7, nil }

	svc := newRelService(rr, noopUserRepo())
	followers, following, err := svc.Counts(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), followers)
	assert.Equal(t, int64(7), following)
}
