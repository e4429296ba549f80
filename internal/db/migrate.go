package db

import (
	"signally/internal/docstore"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}
	return db.Gorm.AutoMigrate(
		&docstore.DocumentRow{},
	)
}
