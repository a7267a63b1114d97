package models

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// Dialector picks the gorm dialect for the configured driver.
func (c DatabaseConfig) Dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverMySQL, "":
		return mysql.Open(c.DSN), nil
	case DriverPostgres:
		return postgres.Open(c.DSN), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
}

// InitDB opens the database mirror and migrates the booking tables
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	dialector, err := config.Dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&User{},
		&Doctor{},
		&Appointment{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
