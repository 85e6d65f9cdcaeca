package database

import (
	"fmt"
	"time"

	"fraudBench/domain"
	"fraudBench/pkg/config"
	"fraudBench/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	maxConnectAttempts = 5
	connectRetryDelay  = 3 * time.Second
)

// InitPostgres connects to Postgres with a bounded retry loop and migrates
// the schema. Startup fails once the attempts are exhausted.
func InitPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	var (
		db  *gorm.DB
		err error
	)
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}

		logger.Warn("Database connection failed, retrying",
			"attempt", attempt, "max_attempts", maxConnectAttempts, "error", err)
		if attempt < maxConnectAttempts {
			time.Sleep(connectRetryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxConnectAttempts, err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Score{},
		&domain.QuotaRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
