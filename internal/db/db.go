package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/daylog/internal/models"
)

// MemoryDSN opens a private in-memory database
const MemoryDSN = ":memory:"

// OpenOptions controls how the database is opened
type OpenOptions struct {
	Debug             bool     // log every SQL statement
	DefaultCategories []string // seeded when the categories table is empty
}

// Open sets up the database connection, runs migrations and seeds the
// default categories
func Open(path string, opts OpenOptions) (*gorm.DB, error) {
	if path != MemoryDSN {
		// Ensure the directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	gormLogger := logger.Default.LogMode(logger.Silent) // Quiet by default
	if opts.Debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite has a single writer; one connection also keeps :memory: databases alive
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	defaults := opts.DefaultCategories
	if defaults == nil {
		defaults = models.DefaultCategories
	}
	if err := seedCategories(db, defaults); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	return db, nil
}

// runMigrations creates/updates the database schema
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Session{},
		&models.Entry{},
		&models.Category{},
	)
}

// seedCategories inserts names only into an empty categories table
func seedCategories(db *gorm.DB, names []string) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, name := range names {
		if err := db.Create(&models.Category{Name: name, Active: true}).Error; err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
