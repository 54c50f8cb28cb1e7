package database

import (
	"roomly/internal/hotels"
	"roomly/internal/rooms"
	"roomly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&hotels.Hotel{},
		&rooms.Room{},
	)
}
