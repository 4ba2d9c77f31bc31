package service

import (
	"context"
	"strings"
	"testing"

	"crushquest/internal/events"
	"crushquest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	getByDoroIDFn func(context.Context, uint, int, int) ([]models.Comment, error)
	deleteFn      func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) GetByDoroID(ctx context.Context, doroID uint, limit, offset int) ([]models.Comment, error) {
	return s.getByDoroIDFn(ctx, doroID, limit, offset)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		getByDoroIDFn: func(_ context.Context, _ uint, _, _ int) ([]models.Comment, error) { return nil, nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

func newCommentService(cr *commentRepoStub, dr *doroRepoStub, rr *relRepoStub, ur *userRepoStub) *CommentService {
	return NewCommentService(cr, dr, rr, ur, events.NewPublisher(nil))
}

func TestCommentService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc := newCommentService(noopCommentRepo(), noopDoroRepo(), noopRelRepo(), noopUserRepo())
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty content", content: ""},
		{name: "whitespace content", content: "   "},
		{name: "content too long", content: strings.Repeat("x", 1001)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Create(ctx, 1, 10, tc.content)
			assertValidationError(t, err)
		})
	}
}

func TestCommentService_Create_TrimsAndStores(t *testing.T) {
	t.Parallel()

	var created *models.Comment
	cr := noopCommentRepo()
	cr.createFn = func(_ context.Context, comment *models.Comment) error {
		created = comment
		return nil
	}
	dr := noopDoroRepo()
	dr.getByIDFn = func(_ context.Context, id, _ uint) (*models.Pomodoro, error) {
		return &models.Pomodoro{ID: id, UserID: 1}, nil
	}

	svc := newCommentService(cr, dr, noopRelRepo(), noopUserRepo())
	comment, err := svc.Create(context.Background(), 1, 10, "  nice doro  ")
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "nice doro", comment.Content)
	assert.Equal(t, uint(1), comment.UserID)
	assert.Equal(t, uint(10), comment.PomodoroID)
}

func TestCommentService_Create_HiddenDoroReadsAsNotFound(t *testing.T) {
	t.Parallel()

	dr := noopDoroRepo()
	dr.getByIDFn = func(_ context.Context, id, _ uint) (*models.Pomodoro, error) {
		return &models.Pomodoro{ID: id, UserID: 2}, nil
	}
	rr := noopRelRepo()
	rr.blockedUserIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{2}, nil
	}
	ur := noopUserRepo()
	ur.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id}, nil
	}

	svc := newCommentService(noopCommentRepo(), dr, rr, ur)
	_, err := svc.Create(context.Background(), 1, 10, "hello")
	assertNotFoundError(t, err)
}

func TestCommentService_Delete_Authorization(t *testing.T) {
	t.Parallel()

	// The comment belongs to user 2 on a doro owned by user 1.
	tests := []struct {
		name      string
		actorID   uint
		isAdmin   bool
		forbidden bool
	}{
		{name: "comment author", actorID: 2},
		{name: "doro owner", actorID: 1},
		{name: "admin", actorID: 9, isAdmin: true},
		{name: "stranger", actorID: 3, forbidden: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			deleted := false
			cr := noopCommentRepo()
			cr.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
				return &models.Comment{ID: id, UserID: 2, PomodoroID: 10}, nil
			}
			cr.deleteFn = func(_ context.Context, _ uint) error {
				deleted = true
				return nil
			}
			dr := noopDoroRepo()
			dr.getByIDFn = func(_ context.Context, id, _ uint) (*models.Pomodoro, error) {
				return &models.Pomodoro{ID: id, UserID: 1}, nil
			}
			ur := noopUserRepo()
			ur.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
				return &models.User{ID: id, IsAdmin: tc.isAdmin}, nil
			}

			svc := newCommentService(cr, dr, noopRelRepo(), ur)
			err := svc.Delete(context.Background(), tc.actorID, 5)
			if tc.forbidden {
				assertForbiddenError(t, err)
				assert.False(t, deleted)
			} else {
				require.NoError(t, err)
				assert.True(t, deleted)
			}
		})
	}
}
