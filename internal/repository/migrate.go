package repository

import "gorm.io/gorm"

// AutoMigrate creates or upgrades every table the repositories use. Local
// development and tests run this against sqlite; Postgres gets the same
// schema on server start.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&projectModel{},
		&photoModel{},
		&annotationModel{},
		&diaryEntryModel{},
	)
}
