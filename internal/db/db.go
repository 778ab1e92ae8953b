package db

import (
	"context"
	"fmt"
	"time"

	"civicos/internal/config"
	"civicos/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL using the configured DSN.
func Open(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: NewLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info().Msg("database connection established")
	return db, nil
}

// Migrate creates or updates every table, including the unique indexes that
// enforce one vote, signature, like or follow per user and target.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Politician{},
		&models.Bill{},
		&models.PoliticianStatement{},
		&models.PoliticianPosition{},
		&models.PoliticianVote{},
		&models.PoliticianFollow{},
		&models.Vote{},
		&models.Petition{},
		&models.PetitionSignature{},
		&models.UserActivity{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Info().Msg("database migration completed")
	return nil
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// NewLogger routes gorm's slow-query and error logs through zerolog at warn.
// At debug level every statement is traced, and logged at debug.
func NewLogger() logger.Interface {
	level := logger.Warn
	w := gormWriter{level: zerolog.WarnLevel}
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		level = logger.Info
		w.level = zerolog.DebugLevel
	}
	return logger.New(w, logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

type gormWriter struct {
	level zerolog.Level
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	log.WithLevel(w.level).Str("component", "gorm").Msgf(format, args...)
}
