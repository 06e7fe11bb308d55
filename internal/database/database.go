package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/config"
)

// New opens a GORM connection to Postgres with pooling configured.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func New(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if config.IsDevelopment() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Printf("Connected to database at %s:%s as user %s", cfg.DBHost, cfg.DBPort, cfg.DBUser)
	return db, nil
}

// HealthCheck probes the database outside GORM, through database/sql.
func HealthCheck(ctx context.Context, cfg *config.Config) error {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}
