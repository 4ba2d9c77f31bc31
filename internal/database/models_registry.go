package database

import "crushquest/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Pomodoro{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Block{},
	}
}
