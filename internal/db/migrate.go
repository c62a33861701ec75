package db

import (
	"github.com/pfrederiksen/football-ical/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Team{},
		&models.FeedSnapshot{},
	)
}
