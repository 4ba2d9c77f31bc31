// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user in the Crush Quest application.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"unique;not null" json:"username"`
	Email       string `gorm:"unique;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	// FollowersOnly restricts this user's doros to followers in the global
	// feed. The column is NOT NULL with a false default; rows migrated from
	// before the column existed are normalized at the query boundary.
	FollowersOnly bool           `gorm:"not null;default:false" json:"followers_only"`
	IsAdmin       bool           `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Pomodoros     []Pomodoro     `gorm:"foreignKey:UserID" json:"pomodoros,omitempty"`
}
