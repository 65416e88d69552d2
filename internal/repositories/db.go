// Package repositories provides the data access layer. It handles all
// database operations and data persistence logic.
package repositories

import (
	"errors"
	"log"
	"time"

	"reclaim/internal/config"
	"reclaim/internal/models"
	"reclaim/internal/repositories/cache"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the global database instance used across the application.
var DB *gorm.DB

// CacheService is the shared Redis-backed cache and counter service.
var CacheService *cache.CacheService

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("record not found")

// InitDB initializes the Postgres connection, runs migrations and connects
// Redis. TranslateError is enabled so unique constraint violations surface as
// gorm.ErrDuplicatedKey; claim code collision retry depends on it.
func InitDB() error {
	dsn := "host=" + config.GetEnv("DB_HOST", "localhost") +
		" user=" + config.GetEnv("DB_USER", "postgres") +
		" password=" + config.GetEnv("DB_PASSWORD", "postgres") +
		" dbname=" + config.GetEnv("DB_NAME", "reclaim") +
		" port=" + config.GetEnv("DB_PORT", "5432") +
		" sslmode=" + config.GetEnv("DB_SSLMODE", "disable")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return err
	}
	DB = db

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(config.GetIntEnv("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetMaxOpenConns(config.GetIntEnv("DB_MAX_OPEN_CONNS", 100))
	sqlDB.SetConnMaxLifetime(config.GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour))
	sqlDB.SetConnMaxIdleTime(config.GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute))

	redisCfg := &cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	}
	CacheService = cache.NewCacheService(cache.NewRedisClient(redisCfg), 24*time.Hour)

	if err := DB.AutoMigrate(
		&models.Receipt{},
		&models.MerchantRule{},
		&models.Claim{},
		&models.VerificationAttempt{},
	); err != nil {
		return err
	}

	// Partial unique index enforcing at most one active claim per receipt.
	// AutoMigrate cannot express a predicate index, so it is created here.
	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_claims_receipt_active
		 ON claims (receipt_id)
		 WHERE state IN ('issued', 'verified') AND deleted_at IS NULL`,
	).Error; err != nil {
		return err
	}

	log.Println("database initialized")
	return nil
}

// CloseDB closes the Postgres and Redis connections.
func CloseDB() {
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("failed to close database connection: %v", err)
			}
		}
	}
	if CacheService != nil {
		if err := CacheService.Close(); err != nil {
			log.Printf("failed to close redis connection: %v", err)
		}
	}
}
