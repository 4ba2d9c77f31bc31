package service

import (
	"context"
	"strings"

	"crushquest/internal/events"
	"crushquest/internal/models"
	"crushquest/internal/observability"
	"crushquest/internal/repository"
)

const maxCommentLength = 1000

// CommentService handles comments on doros.
type CommentService struct {
	commentRepo repository.CommentRepository
	doroRepo    repository.PomodoroRepository
	relRepo     repository.RelationshipRepository
	userRepo    repository.UserRepository
	publisher   *events.Publisher
}

func NewCommentService(commentRepo repository.CommentRepository, doroRepo repository.PomodoroRepository, relRepo repository.RelationshipRepository, userRepo repository.UserRepository, publisher *events.Publisher) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		doroRepo:    doroRepo,
		relRepo:     relRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// Create adds a comment to a doro the viewer can see.
func (s *CommentService) Create(ctx context.Context, viewerID, doroID uint, content string) (*models.Comment, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "CommentService", "Create")
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("comment content is required")
	}
	if len(content) > maxCommentLength {
		return nil, models.NewValidationError("comment is too long")
	}

	doro, err := s.doroRepo.GetByID(ctx, doroID, viewerID)
	if err != nil {
		return nil, err
	}
	if err := authorizeView(ctx, s.userRepo, s.relRepo, viewerID, doro.UserID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:     viewerID,
		PomodoroID: doroID,
		Content:    content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeCommentCreated, viewerID, doro.UserID, doroID)
	return comment, nil
}

// List returns a page of comments on a doro, oldest first.
func (s *CommentService) List(ctx context.Context, viewerID, doroID uint, limit, offset int) ([]models.Comment, error) {
	doro, err := s.doroRepo.GetByID(ctx, doroID, viewerID)
	if err != nil {
		return nil, err
	}
	if err := authorizeView(ctx, s.userRepo, s.relRepo, viewerID, doro.UserID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByDoroID(ctx, doroID, limit, offset)
}

// Delete removes a comment. Allowed for the comment author, the doro owner,
// or an admin.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID uint) error {
	ctx, span := observability.TraceServiceMethod(ctx, "CommentService", "Delete")
	defer span.End()

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != actorID {
		doro, err := s.doroRepo.GetByID(ctx, comment.PomodoroID, actorID)
		if err != nil {
			return err
		}
		if doro.UserID != actorID {
			actor, err := s.userRepo.GetByID(ctx, actorID)
			if err != nil {
				return err
			}
			if !actor.IsAdmin {
				return models.NewForbiddenError("you cannot delete this comment")
			}
		}
	}
	return s.commentRepo.Delete(ctx, commentID)
}
