package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the per-environment sqlite store and keeps the
// schema updated via AutoMigrate.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&RosterEntry{}, &Customization{}); err != nil {
		return nil, err
	}
	return db, nil
}
