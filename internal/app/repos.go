package app

import (
	"gorm.io/gorm"

	achvrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/achievements"
	activityrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/activity"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

type Repos struct {
	Achievement     achvrepo.AchievementRepo
	Event           achvrepo.EventRepo
	UserAchievement achvrepo.UserAchievementRepo
	History         achvrepo.HistoryRepo
	Stat            achvrepo.StatRepo
	Aggregates      activityrepo.AggregateRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Achievement:     achvrepo.NewAchievementRepo(db, log),
		Event:           achvrepo.NewEventRepo(db, log),
		UserAchievement: achvrepo.NewUserAchievementRepo(db, log),
		History:         achvrepo.NewHistoryRepo(db, log),
		Stat:            achvrepo.NewStatRepo(db, log),
		Aggregates:      activityrepo.NewAggregateRepo(db, log),
	}
}
