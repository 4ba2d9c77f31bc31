package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"crushquest/internal/feed"
	"crushquest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedDoro(id, userID uint, followersOnly bool, launchAt time.Time) *models.Pomodoro {
	return &models.Pomodoro{
		ID:                  id,
		UserID:              userID,
		LaunchAt:            launchAt,
		Task:                "focus",
		Completed:           true,
		AuthorFollowersOnly: followersOnly,
	}
}

func doroIDs(doros []*models.Pomodoro) []uint {
	ids := make([]uint, 0, len(doros))
	for _, d := range doros {
		ids = append(ids, d.ID)
	}
	return ids
}

// Fixture used by the global and following feed tests. Viewer is user 1,
// who follows user 2 and has blocked user 5.
//
//	doro 10: user 2, public, followed
//	doro 11: user 3, public, not followed
//	doro 12: user 2, followers-only, followed
//	doro 13: user 4, followers-only, not followed
//	doro 14: user 5, public, blocked
//	doro 15: user 1, followers-only, the viewer's own
func feedFixture() *doroRepoStub {
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	dr := noopDoroRepo()
	dr.listRecentCompletedFn = func(_ context.Context, _ int, _ uint) ([]*models.Pomodoro, error) {
		return []*models.Pomodoro{
			completedDoro(10, 2, false, base),
			completedDoro(11, 3, false, base.Add(-time.Minute)),
			completedDoro(12, 2, true, base.Add(-2*time.Minute)),
			completedDoro(13, 4, true, base.Add(-3*time.Minute)),
			completedDoro(14, 5, false, base.Add(-4*time.Minute)),
			completedDoro(15, 1, true, base.Add(-5*time.Minute)),
		}, nil
	}
	return dr
}

func feedFixtureRels() *relRepoStub {
	rr := noopRelRepo()
	rr.blockedUserIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{5}, nil
	}
	rr.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{2}, nil
	}
	return rr
}

func TestFeedService_GetFeed_GlobalSignedIn(t *testing.T) {
	t.Parallel()

	svc := NewFeedService(feedFixture(), feedFixtureRels(), 50)
	doros, err := svc.GetFeed(context.Background(), 1, feed.ModeGlobal)
	require.NoError(t, err)

	// Followed-author followers-only (12) shows; unfollowed followers-only
	// (13) and blocked (14) hide; own followers-only (15) shows. Order of
	// the candidate window is preserved.
	assert.Equal(t, []uint{10, 11, 12, 15}, doroIDs(doros))
}

func TestFeedService_GetFeed_Following(t *testing.T) {
	t.Parallel()

	svc := NewFeedService(feedFixture(), feedFixtureRels(), 50)
	doros, err := svc.GetFeed(context.Background(), 1, feed.ModeFollowing)
	require.NoError(t, err)

	// Only followed authors plus the viewer's own doros survive; the public
	// doro from the unfollowed user 3 is out.
	assert.Equal(t, []uint{10, 12, 15}, doroIDs(doros))
}

func TestFeedService_GetFeed_GlobalAnonymous(t *testing.T) {
	t.Parallel()

	rr := noopRelRepo()
	rr.blockedUserIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		t.Fatal("relationship lookup should not run for anonymous viewers")
		return nil, nil
	}

	svc := NewFeedService(feedFixture(), rr, 50)
	doros, err := svc.GetFeed(context.Background(), 0, feed.ModeGlobal)
	require.NoError(t, err)

	// Anonymous viewers see only public doros.
	assert.Equal(t, []uint{10, 11, 14}, doroIDs(doros))
}

func TestFeedService_GetFeed_FollowingAnonymous(t *testing.T) {
	t.Parallel()

	svc := NewFeedService(noopDoroRepo(), noopRelRepo(), 50)
	_, err := svc.GetFeed(context.Background(), 0, feed.ModeFollowing)
	assertUnauthorizedError(t, err)
}

func TestFeedService_GetFeed_UnknownMode(t *testing.T) {
	t.Parallel()

	svc := NewFeedService(noopDoroRepo(), noopRelRepo(), 50)
	_, err := svc.GetFeed(context.Background(), 1, feed.Mode("trending"))
	assertValidationError(t, err)
}

func TestFeedService_GetFeed_CandidateFetchError(t *testing.T) {
	t.Parallel()

	dr := noopDoroRepo()
	dr.listRecentCompletedFn = func(_ context.Context, _ int, _ uint) ([]*models.Pomodoro, error) {
		return nil, errors.New("db down")
	}

	svc := NewFeedService(dr, noopRelRepo(), 50)
	_, err := svc.GetFeed(context.Background(), 1, feed.ModeGlobal)
	assert.Error(t, err)
}

func TestFeedService_GetFeed_RelationshipErrorFailsRequest(t *testing.T) {
	t.Parallel()

	rr := feedFixtureRels()
	rr.blockedUserIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		return nil, errors.New("db down")
	}

	// An unfiltered feed could leak blocked or followers-only doros, so the
	// request fails instead of degrading.
	svc := NewFeedService(feedFixture(), rr, 50)
	_, err := svc.GetFeed(context.Background(), 1, feed.ModeGlobal)
	assert.Error(t, err)
}

func TestFeedService_GetFeed_GlobalFollowedPrivateAuthorVisible(t *testing.T) {
	t.Parallel()

	dr := noopDoroRepo()
	dr.listRecentCompletedFn = func(_ context.Context, _ int, _ uint) ([]*models.Pomodoro, error) {
		return []*models.Pomodoro{completedDoro(12, 2, true, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))}, nil
	}
	rr := noopRelRepo()
	rr.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{2}, nil
	}

	svc := NewFeedService(dr, rr, 50)
	doros, err := svc.GetFeed(context.Background(), 1, feed.ModeGlobal)
	require.NoError(t, err)
	assert.Equal(t, []uint{12}, doroIDs(doros))
}

func TestFeedService_GetFeed_GlobalFollowLookupErrorFailsRequest(t *testing.T) {
	t.Parallel()

	rr := feedFixtureRels()
	rr.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		return nil, errors.New("follows query timeout")
	}

	svc := NewFeedService(feedFixture(), rr, 50)
	doros, err := svc.GetFeed(context.Background(), 1, feed.ModeGlobal)
	require.Error(t, err)
	assert.Nil(t, doros)
}

func TestFeedService_GetFeed_NeverPads(t *testing.T) {
	t.Parallel()

	calls := 0
	dr := feedFixture()
	inner := dr.listRecentCompletedFn
	dr.listRecentCompletedFn = func(ctx context.Context, limit int, viewerID uint) ([]*models.Pomodoro, error) {
		calls++
		return inner(ctx, limit, viewerID)
	}

	svc := NewFeedService(dr, feedFixtureRels(), 6)
	doros, err := svc.GetFeed(context.Background(), 1, feed.ModeGlobal)
	require.NoError(t, err)

	// Two of the six candidates are filtered out; the page stays short
	// rather than triggering a second fetch.
	assert.Len(t, doros, 4)
	assert.Equal(t, 1, calls)
}
