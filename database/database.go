package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"roster/models"
)

// Init connects to PostgreSQL and migrates the schema.
func Init(dsn, logLevel string) (*gorm.DB, error) {
	return Open(postgres.Open(dsn), logLevel)
}

// Open connects through dialector and migrates the schema.
func Open(dialector gorm.Dialector, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(ParseLogLevel(logLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Season{},
		&models.Player{},
		&models.Coach{},
		&models.PlayerAssignment{},
		&models.CoachAssignment{},
		&models.Parent{},
		&models.ParentPlayerConnection{},
		&models.Invite{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// ParseLogLevel maps silent, error, warn and info to gorm log levels.
// Anything else is treated as warn.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
