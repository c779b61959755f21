package app

import (
	"gorm.io/gorm"

	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
	"github.com/dancorreia-swe/medwaster-achievements/internal/services"
)

type Services struct {
	Evaluator     services.ProgressEvaluator
	Engine        services.EngineService
	Trackers      *services.TrackerService
	Notifications services.NotificationService
	Catalog       services.CatalogService
	Replay        services.ReplayService
	Stats         services.StatsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	var publisher services.UnlockPublisher
	if cfg.RedisAddr != "" {
		p, err := services.NewRedisUnlockPublisher(log)
		if err != nil {
			// Realtime fanout is best effort, the engine runs without it.
			log.Warn("redis unlock publisher unavailable", "error", err)
		} else {
			publisher = p
		}
	}

	evaluator := services.NewProgressEvaluator(db, log, r.UserAchievement, r.Aggregates)
	engine := services.NewEngineService(db, log, r.Achievement, r.Event, r.UserAchievement, r.History, evaluator, publisher)

	return Services{
		Evaluator:     evaluator,
		Engine:        engine,
		Trackers:      services.NewTrackerService(engine),
		Notifications: services.NewNotificationService(db, log, r.UserAchievement),
		Catalog:       services.NewCatalogService(db, log, r.Achievement),
		Replay:        services.NewReplayService(db, log, r.Event, r.UserAchievement, engine),
		Stats:         services.NewStatsService(db, log, r.Achievement, r.UserAchievement, r.Stat),
	}, nil
}
