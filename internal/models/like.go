package models

import "time"

// Like represents a user's like on a doro.
// The combination of UserID and PomodoroID must be unique.
type Like struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_like_user_doro" json:"user_id"`
	PomodoroID uint      `gorm:"not null;uniqueIndex:idx_like_user_doro" json:"pomodoro_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	User     User     `gorm:"foreignKey:UserID" json:"user"`
	Pomodoro Pomodoro `gorm:"foreignKey:PomodoroID" json:"pomodoro"`
}
