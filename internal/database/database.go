package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Aidin1998/qrmenu/internal/config"
	"github.com/Aidin1998/qrmenu/pkg/metrics"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database and applies pool settings.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(cfg.LogLevel)),
		PrepareStmt:    cfg.Driver == "postgres",
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// a single long lived connection: sqlite has one writer and an
		// in-memory database lives as long as its connection
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
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

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks that the database answers within ctx.
func Ping(ctx context.Context, sqlDB *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

// CollectPoolMetrics publishes pool statistics every interval until ctx is done.
func CollectPoolMetrics(ctx context.Context, sqlDB *sql.DB, label string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		RecordPoolStats(sqlDB, label)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RecordPoolStats publishes the current pool statistics once.
func RecordPoolStats(sqlDB *sql.DB, label string) {
	stats := sqlDB.Stats()
	metrics.DBOpenConns.WithLabelValues(label).Set(float64(stats.OpenConnections))
	metrics.DBIdleConns.WithLabelValues(label).Set(float64(stats.Idle))
	metrics.DBInUseConns.WithLabelValues(label).Set(float64(stats.InUse))
}
