package database

import (
	"fmt"

	"github.com/KanwarHamza/emotion-detection/internal/config"
	"github.com/KanwarHamza/emotion-detection/internal/logging"
	"github.com/KanwarHamza/emotion-detection/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(log *zap.Logger) error {
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logging.NewGormLogger(log),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established successfully.")
	return runMigrations(log)
}

func runMigrations(log *zap.Logger) error {
	if err := DB.AutoMigrate(&models.SessionRecord{}); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	log.Info("Database migrations completed successfully.")
	return nil
}
