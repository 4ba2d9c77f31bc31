// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Pomodoro represents one work session ("doro"). A doro is created when the
// user launches a timer and becomes feed-eligible only once Completed is set.
type Pomodoro struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"user"`
	LaunchAt time.Time `gorm:"not null;index" json:"launch_at"`
	Task     string    `gorm:"not null" json:"task"`
	Notes    string    `gorm:"type:text" json:"notes"`
	ImageURL string    `json:"image_url"`
	Completed bool     `gorm:"not null;default:false;index" json:"completed"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this doro (computed)
	Liked bool `gorm:"->" json:"liked"`
	// AuthorFollowersOnly carries the author's visibility flag when joined by
	// the feed query. NULL values are normalized to false in the repository.
	AuthorFollowersOnly bool           `gorm:"->" json:"-"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Pomodoro) TableName() string {
	return "pomodoros"
}
