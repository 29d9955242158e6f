// Package database owns the SQLite connection and schema migration.
//
// Entity-specific operations live in the subpackages:
//
//	database/books      - book upserts and lookups
//	database/highlights - highlight upserts, secondary-index queries, favourites
//	database/progress   - the singleton import progress record
package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quotescroll/quotescroll/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func New(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Highlight{},
		&entities.ImportProgress{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ClearAll wipes books, highlights and the import progress record.
// Used by the "start over" flow when the user disconnects their account.
func (d *Database) ClearAll() error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entities.Highlight{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&entities.Book{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&entities.ImportProgress{}).Error
	})
}
