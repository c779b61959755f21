package services

import (
	"testing"

	"gorm.io/gorm"

	achvrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/achievements"
	activityrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/activity"
	"github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/testutil"
)

// harness wires the full service stack over a rollback-isolated transaction.
type harness struct {
	tx         *gorm.DB
	catalogRp  achvrepo.AchievementRepo
	events     achvrepo.EventRepo
	progress   achvrepo.UserAchievementRepo
	history    achvrepo.HistoryRepo
	statRp     achvrepo.StatRepo
	aggregates activityrepo.AggregateRepo

	evaluator ProgressEvaluator
	engine    EngineService
	trackers  *TrackerService
	notify    NotificationService
	catalog   CatalogService
	replay    ReplayService
	stats     StatsService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)

	h := &harness{tx: tx}
	h.catalogRp = achvrepo.NewAchievementRepo(tx, log)
	h.events = achvrepo.NewEventRepo(tx, log)
	h.progress = achvrepo.NewUserAchievementRepo(tx, log)
	h.history = achvrepo.NewHistoryRepo(tx, log)
	h.statRp = achvrepo.NewStatRepo(tx, log)
	h.aggregates = activityrepo.NewAggregateRepo(tx, log)

	h.evaluator = NewProgressEvaluator(tx, log, h.progress, h.aggregates)
	h.engine = NewEngineService(tx, log, h.catalogRp, h.events, h.progress, h.history, h.evaluator, nil)
	h.trackers = NewTrackerService(h.engine)
	h.notify = NewNotificationService(tx, log, h.progress)
	h.catalog = NewCatalogService(tx, log, h.catalogRp)
	h.replay = NewReplayService(tx, log, h.events, h.progress, h.engine)
	h.stats = NewStatsService(tx, log, h.catalogRp, h.progress, h.statRp)
	return h
}
