package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/justsurfingit/job-tracker/internal/config"
	"github.com/justsurfingit/job-tracker/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotConfigured = errors.New("DATABASE_URL is not set")

// Connect opens the gorm handle without pinging. A server that starts while
// the database is down keeps running on the fallback store; the Monitor
// notices when the database comes back.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, ErrNotConfigured
	}

	// NowFunc stamps UTC, same as the fallback store.
	gormCfg := &gorm.Config{
		Logger:               newLogger(),
		DisableAutomaticPing: true,
		NowFunc:              func() time.Time { return time.Now().UTC() },
	}

	switch cfg.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// One connection keeps ":memory:" databases from splitting per conn.
		sqlDB.SetMaxOpenConns(1)
		log.Println("Database handle ready (sqlite)")
		return db, nil
	case "postgres", "":
		pgCfg, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		// Bound the dial so an unreachable host fails fast instead of stalling requests.
		pgCfg.ConnectTimeout = cfg.PingTimeout

		sqlDB := stdlib.OpenDB(*pgCfg)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		log.Println("Database handle ready (postgres)")
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Migrate creates or updates the tables.
func Migrate(db *gorm.DB) error {
	log.Println("Running Migrations...")
	return db.AutoMigrate(&models.User{}, &models.Job{})
}

func newLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             1500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
