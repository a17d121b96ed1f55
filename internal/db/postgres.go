// Package db opens the relational store and keeps its schema current.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gokatarajesh/trivia-api/db/migrations"
	"github.com/gokatarajesh/trivia-api/internal/config"
)

const slowQueryThreshold = 200 * time.Millisecond

// Open connects gorm to Postgres and applies pool limits from config.
func Open(ctx context.Context, cfg config.Postgres, logger zerolog.Logger) (*gorm.DB, error) {
	dbLogger := logger.With().Str("component", "gorm").Logger()
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.New(&dbLogger, gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return gdb, nil
}

// Ping checks that the store answers.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migration commands accepted by Migrate.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

// Migrate runs a goose command against the embedded migrations.
func Migrate(ctx context.Context, sqlDB *sql.DB, command string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName("goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	switch command {
	case MigrateUp:
		return goose.UpContext(ctx, sqlDB, ".")
	case MigrateDown:
		return goose.DownContext(ctx, sqlDB, ".")
	case MigrateStatus:
		return goose.StatusContext(ctx, sqlDB, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}
