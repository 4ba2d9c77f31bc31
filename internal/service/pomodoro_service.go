package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"crushquest/internal/events"
	"crushquest/internal/feed"
	"crushquest/internal/middleware"
	"crushquest/internal/models"
	"crushquest/internal/observability"
	"crushquest/internal/repository"
)

const maxTaskLength = 280

// RangeLocation points at the first completed doro a user launched inside a
// time range, together with the profile page it lives on.
type RangeLocation struct {
	DoroID     uint  `json:"doro_id"`
	PageNumber int   `json:"page_number"`
	TotalCount int64 `json:"total_count"`
}

// PomodoroService handles the doro lifecycle: launching, completing,
// deleting, liking, and locating doros on a user's profile timeline.
type PomodoroService struct {
	doroRepo  repository.PomodoroRepository
	relRepo   repository.RelationshipRepository
	userRepo  repository.UserRepository
	publisher *events.Publisher
}

func NewPomodoroService(doroRepo repository.PomodoroRepository, relRepo repository.RelationshipRepository, userRepo repository.UserRepository, publisher *events.Publisher) *PomodoroService {
	return &PomodoroService{doroRepo: doroRepo, relRepo: relRepo, userRepo: userRepo, publisher: publisher}
}

// Launch starts a new doro for the user. LaunchAt defaults to now; a doro is
// born incomplete and only enters feeds and counts once completed.
func (s *PomodoroService) Launch(ctx context.Context, userID uint, task string, launchAt time.Time) (*models.Pomodoro, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "PomodoroService", "Launch")
	defer span.End()

	task = strings.TrimSpace(task)
	if task == "" {
		return nil, models.NewValidationError("task is required")
	}
	if len(task) > maxTaskLength {
		return nil, models.NewValidationError("task is too long")
	}
	if launchAt.IsZero() {
		launchAt = time.Now().UTC()
	}

	doro := &models.Pomodoro{
		UserID:   userID,
		Task:     task,
		LaunchAt: launchAt,
	}
	if err := s.doroRepo.Create(ctx, doro); err != nil {
		return nil, err
	}
	return doro, nil
}

// Complete marks the user's doro as completed, optionally attaching notes and
// an image. Only the owner can complete a doro, and completion is idempotent.
func (s *PomodoroService) Complete(ctx context.Context, userID, doroID uint, notes, imageURL string) (*models.Pomodoro, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "PomodoroService", "Complete")
	defer span.End()

	doro, err := s.doroRepo.GetByID(ctx, doroID, userID)
	if err != nil {
		return nil, err
	}
	if doro.UserID != userID {
		return nil, models.NewForbiddenError("you can only complete your own doros")
	}

	alreadyCompleted := doro.Completed
	doro.Completed = true
	if notes != "" {
		doro.Notes = notes
	}
	if imageURL != "" {
		doro.ImageURL = imageURL
	}
	if err := s.doroRepo.Update(ctx, doro); err != nil {
		return nil, err
	}

	if !alreadyCompleted {
		s.publisher.Publish(ctx, events.TypeDoroCompleted, userID, 0, doro.ID)
	}
	return doro, nil
}

// Get returns a single doro if the viewer is allowed to see it. A doro is
// viewable when the viewer would see it in either feed mode.
func (s *PomodoroService) Get(ctx context.Context, viewerID, doroID uint) (*models.Pomodoro, error) {
	doro, err := s.doroRepo.GetByID(ctx, doroID, viewerID)
	if err != nil {
		return nil, err
	}
	if err := authorizeView(ctx, s.userRepo, s.relRepo, viewerID, doro.UserID); err != nil {
		return nil, err
	}
	return doro, nil
}

// ListByUser returns a page of a user's completed doros, newest launch first,
// after checking the viewer may see that user's timeline.
func (s *PomodoroService) ListByUser(ctx context.Context, viewerID, userID uint, limit, offset int) ([]*models.Pomodoro, error) {
	if err := authorizeView(ctx, s.userRepo, s.relRepo, viewerID, userID); err != nil {
		return nil, err
	}
	return s.doroRepo.GetByUserID(ctx, userID, limit, offset, viewerID)
}

// Delete removes a doro along with its likes and comments. Allowed for the
// owner or an admin.
func (s *PomodoroService) Delete(ctx context.Context, actorID, doroID uint) error {
	ctx, span := observability.TraceServiceMethod(ctx, "PomodoroService", "Delete")
	defer span.End()

	doro, err := s.doroRepo.GetByID(ctx, doroID, actorID)
	if err != nil {
		return err
	}
	if doro.UserID != actorID {
		actor, err := s.userRepo.GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin {
			return models.NewForbiddenError("you can only delete your own doros")
		}
	}
	return s.doroRepo.Delete(ctx, doroID)
}

// Like records the viewer's like on a doro. Liking twice is a no-op.
func (s *PomodoroService) Like(ctx context.Context, viewerID, doroID uint) error {
	doro, err := s.doroRepo.GetByID(ctx, doroID, viewerID)
	if err != nil {
		return err
	}
	if err := authorizeView(ctx, s.userRepo, s.relRepo, viewerID, doro.UserID); err != nil {
		return err
	}

	// A repeated like is a no-op and must not emit a second event.
	already, err := s.doroRepo.IsLiked(ctx, viewerID, doroID)
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	if err := s.doroRepo.Like(ctx, viewerID, doroID); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.TypeDoroLiked, viewerID, doro.UserID, doroID)
	return nil
}

// Unlike removes the viewer's like on a doro if present.
func (s *PomodoroService) Unlike(ctx context.Context, viewerID, doroID uint) error {
	return s.doroRepo.Unlike(ctx, viewerID, doroID)
}

// FindFirstInRange locates the earliest completed doro the user launched in
// [start, end) and computes which page of their timeline it appears on, with
// the timeline ordered newest launch first. It returns nil when there is no
// match, and degrades to nil on lookup failures so callers see "not found"
// rather than an error.
func (s *PomodoroService) FindFirstInRange(ctx context.Context, userID uint, start, end time.Time, pageSize int) *RangeLocation {
	ctx, span := observability.TraceServiceMethod(ctx, "PomodoroService", "FindFirstInRange")
	defer span.End()

	doro, err := s.doroRepo.FirstCompletedInRange(ctx, userID, start, end)
	if err != nil {
		if !repository.IsNotFound(err) {
			middleware.Logger.ErrorContext(ctx, "range lookup failed",
				slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
		}
		return nil
	}

	newerCount, err := s.doroRepo.CountCompletedAfter(ctx, userID, doro.LaunchAt)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "range position count failed",
			slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
		return nil
	}

	total, err := s.doroRepo.CountCompleted(ctx, userID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "range total count failed",
			slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
		return nil
	}

	return &RangeLocation{
		DoroID:     doro.ID,
		PageNumber: feed.PageForNewerCount(newerCount, pageSize),
		TotalCount: total,
	}
}

