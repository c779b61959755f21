package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	"github.com/dancorreia-swe/medwaster-achievements/internal/domain/activity"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
	"github.com/dancorreia-swe/medwaster-achievements/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "medwaster", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	return AutoMigrate(s.db)
}

// AutoMigrate is shared with the test helpers so both paths create the same
// schema.
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&achievements.Achievement{},
		&achievements.AchievementEvent{},
		&achievements.UserAchievement{},
		&achievements.AchievementHistoryEntry{},
		&achievements.AchievementStat{},

		&activity.TrailProgress{},
		&activity.ArticleRead{},
		&activity.QuestionAttempt{},
		&activity.ArticleBookmark{},
	)
}
