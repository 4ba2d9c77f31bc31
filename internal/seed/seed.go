// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"crushquest/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumDoros    int
	ShouldClean bool
	SkipBcrypt  bool
	MaxDays     int
}

// Seed populates the database with a social mesh of users, follow and block
// edges, doros, likes, and comments.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d doros...", opts.NumUsers, opts.NumDoros)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	if err := createFollowMesh(f, users); err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}

	doros, err := createDoros(f, users, opts.NumDoros)
	if err != nil {
		return fmt.Errorf("failed to create doros: %w", err)
	}
	log.Printf("%d doros created", len(doros))

	if err := createEngagement(f, users, doros); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, pomodoros, follows, blocks, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a few fixed accounts so dev logins stay predictable.
	if count >= 3 {
		fixed := []string{"ada", "linus", "test"}
		for i, name := range fixed {
			name := name
			followersOnly := i == 1 // one of the fixed users keeps a private timeline
			user, err := f.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
				u.FollowersOnly = followersOnly
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser(func(u *models.User) {
			// Roughly a fifth of seeded users are followers-only, so feed
			// filtering is visible in dev data.
			u.FollowersOnly = f.rnd.Float32() < 0.2
		})
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// createFollowMesh gives each user a handful of follows plus the occasional
// block, so visibility rules have real edges to chew on.
func createFollowMesh(f *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}

	for _, user := range users {
		follows := f.rnd.Intn(6) + 1
		for j := 0; j < follows; j++ {
			target := users[f.rnd.Intn(len(users))]
			if target.ID == user.ID {
				continue
			}
			// Duplicate edges hit the unique index; ignore them.
			_ = f.CreateFollow(user, target)
		}

		if f.rnd.Float32() < 0.05 {
			target := users[f.rnd.Intn(len(users))]
			if target.ID != user.ID {
				_ = f.CreateBlock(user, target)
			}
		}
	}
	return nil
}

func createDoros(f *Factory, users []*models.User, count int) ([]*models.Pomodoro, error) {
	doros := make([]*models.Pomodoro, 0, count)
	batch := make([]*models.Pomodoro, 0, 100)

	for i := 0; i < count; i++ {
		user := users[f.rnd.Intn(len(users))]
		batch = append(batch, f.BuildDoro(user))

		if len(batch) == cap(batch) {
			if err := f.CreateDorosBatch(batch); err != nil {
				return nil, err
			}
			doros = append(doros, batch...)
			batch = batch[:0]
		}
	}
	if err := f.CreateDorosBatch(batch); err != nil {
		return nil, err
	}
	doros = append(doros, batch...)

	return doros, nil
}

func createEngagement(f *Factory, users []*models.User, doros []*models.Pomodoro) error {
	for _, doro := range doros {
		if !doro.Completed {
			continue
		}

		likes := f.rnd.Intn(5)
		for j := 0; j < likes; j++ {
			user := users[f.rnd.Intn(len(users))]
			if user.ID != doro.UserID {
				_ = f.CreateLike(user, doro)
			}
		}

		if f.rnd.Float32() < 0.3 {
			user := users[f.rnd.Intn(len(users))]
			if _, err := f.CreateComment(user, doro); err != nil {
				return err
			}
		}
	}
	return nil
}
