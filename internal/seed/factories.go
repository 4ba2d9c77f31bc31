// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"crushquest/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:    gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		DisplayName: gofakeit.Name(),
		AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildDoro constructs a doro for the given user without persisting it.
// Launch times are spread over the past MaxDays for a realistic timeline.
func (f *Factory) BuildDoro(user *models.User, overrides ...func(*models.Pomodoro)) *models.Pomodoro {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}

	daysBack := f.rnd.Intn(maxDays)
	hoursBack := f.rnd.Intn(24)
	minsBack := f.rnd.Intn(60)
	launchAt := time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	doro := &models.Pomodoro{
		UserID:    user.ID,
		Task:      gofakeit.Sentence(5),
		LaunchAt:  launchAt,
		Completed: f.rnd.Float32() < 0.8,
	}
	if doro.Completed {
		doro.Notes = gofakeit.Sentence(8)
		if f.rnd.Float32() < 0.3 {
			doro.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		}
	}

	for _, override := range overrides {
		override(doro)
	}
	return doro
}

// CreateDoro constructs and persists a sample doro for the given user.
func (f *Factory) CreateDoro(user *models.User, overrides ...func(*models.Pomodoro)) (*models.Pomodoro, error) {
	doro := f.BuildDoro(user, overrides...)
	if err := f.db.Create(doro).Error; err != nil {
		return nil, err
	}
	return doro, nil
}

// CreateDorosBatch persists multiple doros in a single DB call.
func (f *Factory) CreateDorosBatch(doros []*models.Pomodoro) error {
	if len(doros) == 0 {
		return nil
	}
	return f.db.Create(&doros).Error
}

// CreateComment constructs and persists a sample comment on the provided
// doro authored by the provided user.
func (f *Factory) CreateComment(user *models.User, doro *models.Pomodoro, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:    gofakeit.Sentence(8),
		UserID:     user.ID,
		PomodoroID: doro.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from `user` on `doro`.
func (f *Factory) CreateLike(user *models.User, doro *models.Pomodoro) error {
	like := &models.Like{
		UserID:     user.ID,
		PomodoroID: doro.ID,
	}
	return f.db.Create(like).Error
}

// CreateFollow persists a follow edge from follower to followee.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	follow := &models.Follow{
		FollowerID: follower.ID,
		FolloweeID: followee.ID,
	}
	return f.db.Create(follow).Error
}

// CreateBlock persists a block edge from blocker to blocked.
func (f *Factory) CreateBlock(blocker, blocked *models.User) error {
	block := &models.Block{
		BlockerID: blocker.ID,
		BlockedID: blocked.ID,
	}
	return f.db.Create(block).Error
}
