package database

import (
	"fmt"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/config"
	logging "github.com/bait0ngxaxa/survey-sub000/server/internal/logging"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init opens the configured database and runs migrations.
func Init(log *zap.Logger, dbConf config.DatabaseConfig) error {
	dialector, err := dialectorFor(dbConf)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormLogger(log),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established successfully.", zap.String("driver", dbConf.Driver))
	return runMigrations(log)
}

func dialectorFor(dbConf config.DatabaseConfig) (gorm.Dialector, error) {
	switch dbConf.Driver {
	case "", "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dbConf.DBName), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbConf.Driver)
	}
}

func runMigrations(log *zap.Logger) error {
	if err := DB.AutoMigrate(&models.Submission{}); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	log.Info("Database migrations completed successfully.")

	draftIndex := `CREATE INDEX IF NOT EXISTS idx_submissions_drafts ON submissions (is_complete, updated_at);`
	if err := DB.Exec(draftIndex).Error; err != nil {
		return fmt.Errorf("failed to create draft index on submissions: %w", err)
	}
	log.Info("Custom indexes ensured successfully.")
	return nil
}
