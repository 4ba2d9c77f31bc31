// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"crushquest/internal/cache"
	"crushquest/internal/models"
	"crushquest/internal/observability"

	"gorm.io/gorm"
)

// WeeklyCount is one leaderboard row candidate: a user and how many doros
// they completed inside the week window. FollowersOnly rides along so the
// service can apply the visibility rules without a second user query.
type WeeklyCount struct {
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	DisplayName   string `json:"display_name"`
	AvatarURL     string `json:"avatar_url"`
	FollowersOnly bool   `json:"-"`
	Count         int64  `json:"completion_count"`
}

// PomodoroRepository defines the interface for doro data operations
type PomodoroRepository interface {
	Create(ctx context.Context, doro *models.Pomodoro) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Pomodoro, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Pomodoro, error)
	ListRecentCompleted(ctx context.Context, limit int, currentUserID uint) ([]*models.Pomodoro, error)
	Update(ctx context.Context, doro *models.Pomodoro) error
	Delete(ctx context.Context, id uint) error
	FirstCompletedInRange(ctx context.Context, userID uint, start, end time.Time) (*models.Pomodoro, error)
	CountCompletedAfter(ctx context.Context, userID uint, launchAfter time.Time) (int64, error)
	CountCompleted(ctx context.Context, userID uint) (int64, error)
	WeeklyCompletionCounts(ctx context.Context, since time.Time) ([]WeeklyCount, error)
	IsLiked(ctx context.Context, userID, doroID uint) (bool, error)
	Like(ctx context.Context, userID, doroID uint) error
	Unlike(ctx context.Context, userID, doroID uint) error
}

// pomodoroRepository implements PomodoroRepository
type pomodoroRepository struct {
	db *gorm.DB
}

// NewPomodoroRepository creates a new doro repository
func NewPomodoroRepository(db *gorm.DB) PomodoroRepository {
	return &pomodoroRepository{db: db}
}

func (r *pomodoroRepository) Create(ctx context.Context, doro *models.Pomodoro) error {
	err := r.db.WithContext(ctx).Create(doro).Error
	if err == nil {
		cache.InvalidateFeeds(ctx)
	}
	return err
}

func (r *pomodoroRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Pomodoro, error) {
	var doro models.Pomodoro
	err := r.applyDoroDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		First(&doro, id).Error
	if err != nil {
		return nil, err
	}
	return &doro, nil
}

func (r *pomodoroRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Pomodoro, error) {
	var doros []*models.Pomodoro
	err := r.applyDoroDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ? AND completed = ?", userID, true).
		Order("launch_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&doros).Error
	return doros, err
}

// ListRecentCompleted returns the newest completed doros ordered by launch_at
// descending, with the author's followers_only flag joined. This is the feed
// assembler's candidate window; visibility filtering happens above.
//
// COALESCE is the single normalization point for legacy NULL followers_only
// values: everything above this query sees a plain bool.
func (r *pomodoroRepository) ListRecentCompleted(ctx context.Context, limit int, currentUserID uint) ([]*models.Pomodoro, error) {
	ctx, span := observability.TraceQuery(ctx, "pomodoros", "ListRecentCompleted")
	defer span.End()

	var doros []*models.Pomodoro
	db := r.db.WithContext(ctx)
	sel := r.detailColumns(currentUserID) + ", COALESCE(users.followers_only, false) AS author_followers_only"
	if currentUserID != 0 {
		db = db.Select(sel+", EXISTS(SELECT 1 FROM likes WHERE likes.pomodoro_id = pomodoros.id AND likes.user_id = ?) as liked", currentUserID)
	} else {
		db = db.Select(sel)
	}
	err := db.
		Joins("JOIN users ON users.id = pomodoros.user_id AND users.deleted_at IS NULL").
		Preload("User").
		Where("pomodoros.completed = ?", true).
		Order("pomodoros.launch_at DESC").
		Limit(limit).
		Find(&doros).Error
	return doros, err
}

func (r *pomodoroRepository) Update(ctx context.Context, doro *models.Pomodoro) error {
	if err := r.db.WithContext(ctx).Save(doro).Error; err != nil {
		return err
	}
	cache.InvalidateDoro(ctx, doro.ID)
	cache.InvalidateFeeds(ctx)
	return nil
}

// Delete removes a doro together with its likes and comments in one
// transaction. Likes are hard-deleted; the doro and comments follow the
// usual soft-delete convention.
func (r *pomodoroRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("pomodoro_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pomodoro_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Pomodoro{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateDoro(ctx, id)
	cache.InvalidateFeeds(ctx)
	return nil
}

// FirstCompletedInRange returns the earliest completed doro by the user whose
// launch_at falls inside [start, end], or gorm.ErrRecordNotFound.
func (r *pomodoroRepository) FirstCompletedInRange(ctx context.Context, userID uint, start, end time.Time) (*models.Pomodoro, error) {
	var doro models.Pomodoro
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed = ? AND launch_at >= ? AND launch_at <= ?", userID, true, start, end).
		Order("launch_at ASC").
		First(&doro).Error
	if err != nil {
		return nil, err
	}
	return &doro, nil
}

// CountCompletedAfter counts the user's completed doros launched strictly
// after launchAfter. This is the "newerCount" of the pagination locator.
func (r *pomodoroRepository) CountCompletedAfter(ctx context.Context, userID uint, launchAfter time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pomodoro{}).
		Where("user_id = ? AND completed = ? AND launch_at > ?", userID, true, launchAfter).
		Count(&count).Error
	return count, err
}

func (r *pomodoroRepository) CountCompleted(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pomodoro{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

// WeeklyCompletionCounts groups completed doros launched at or after `since`
// by author. Soft-deleted authors are excluded here; block/follow visibility
// is the leaderboard service's job.
func (r *pomodoroRepository) WeeklyCompletionCounts(ctx context.Context, since time.Time) ([]WeeklyCount, error) {
	ctx, span := observability.TraceQuery(ctx, "pomodoros", "WeeklyCompletionCounts")
	defer span.End()

	var rows []WeeklyCount
	err := r.db.WithContext(ctx).
		Model(&models.Pomodoro{}).
		Select("users.id AS user_id, users.username, users.display_name, users.avatar_url, "+
			"COALESCE(users.followers_only, false) AS followers_only, COUNT(pomodoros.id) AS count").
		Joins("JOIN users ON users.id = pomodoros.user_id AND users.deleted_at IS NULL").
		Where("pomodoros.completed = ? AND pomodoros.launch_at >= ? AND pomodoros.deleted_at IS NULL", true, since).
		Group("users.id, users.username, users.display_name, users.avatar_url, users.followers_only").
		Order("count DESC, user_id ASC").
		Scan(&rows).Error
	return rows, err
}

// detailColumns builds the SELECT list with computed like/comment counts and
// the viewer's liked flag.
func (r *pomodoroRepository) detailColumns(currentUserID uint) string {
	cols := "pomodoros.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.pomodoro_id = pomodoros.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.pomodoro_id = pomodoros.id) as likes_count"
	if currentUserID != 0 {
		return cols
	}
	return cols + ", false as liked"
}

// applyDoroDetails adds subqueries to fetch counts and liked status in a single query.
func (r *pomodoroRepository) applyDoroDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select(r.detailColumns(currentUserID)+
			", EXISTS(SELECT 1 FROM likes WHERE likes.pomodoro_id = pomodoros.id AND likes.user_id = ?) as liked", currentUserID)
	}
	return db.Select(r.detailColumns(0))
}

func (r *pomodoroRepository) IsLiked(ctx context.Context, userID, doroID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND pomodoro_id = ?", userID, doroID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *pomodoroRepository) Like(ctx context.Context, userID, doroID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING keeps the like idempotent under
	// double-taps and races.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, pomodoro_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, pomodoro_id) DO NOTHING`,
		userID, doroID,
	)
	if result.Error == nil {
		cache.InvalidateDoro(ctx, doroID)
	}
	return result.Error
}

func (r *pomodoroRepository) Unlike(ctx context.Context, userID, doroID uint) error {
	// Hard delete the like record (not soft delete)
	err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND pomodoro_id = ?", userID, doroID).
		Delete(&models.Like{}).Error
	if err == nil {
		cache.InvalidateDoro(ctx, doroID)
	}
	return err
}

// IsNotFound reports whether err is the store's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
