package repository

import (
	"fmt"

	"github.com/stylefeed/stylefeed/internal/config"
	"github.com/stylefeed/stylefeed/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	*gorm.DB
}

func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	dsn := cfg.DSN()

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	return &Database{db}, nil
}

func (db *Database) AutoMigrate() error {
	if err := db.DB.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Friendship{},
		&models.Wardrobe{},
		&models.Item{},
		&models.Outfit{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
	); err != nil {
		return err
	}

	// At most one active (non-rejected) edge per unordered pair. The check in
	// FriendshipService.SendRequest is read-then-insert and racy on its own;
	// this index makes the second insert fail.
	return db.DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_friendships_active_pair
		 ON friendships (pair_key) WHERE status <> 'rejected'`,
	).Error
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
