package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	achvrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/achievements"
	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

// StatsService recomputes the per-achievement aggregates on demand. There is
// no scheduler in this layer; an admin route or operational script drives it.
type StatsService interface {
	Recompute(ctx context.Context) (int, error)
	List(ctx context.Context) ([]*achv.AchievementStat, error)
}

type statsService struct {
	db       *gorm.DB
	log      *logger.Logger
	catalog  achvrepo.AchievementRepo
	progress achvrepo.UserAchievementRepo
	stats    achvrepo.StatRepo
}

func NewStatsService(db *gorm.DB, baseLog *logger.Logger, catalog achvrepo.AchievementRepo, progress achvrepo.UserAchievementRepo, stats achvrepo.StatRepo) StatsService {
	return &statsService{
		db:       db,
		log:      baseLog.With("service", "StatsService"),
		catalog:  catalog,
		progress: progress,
		stats:    stats,
	}
}

func (s *statsService) Recompute(ctx context.Context) (int, error) {
	var all []*achv.Achievement
	for page := 1; ; page++ {
		batch, err := s.catalog.List(ctx, nil, page, 100)
		if err != nil {
			return 0, err
		}
		all = append(all, batch...)
		if len(batch) < 100 {
			break
		}
	}

	// Achievements are independent; recompute them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, a := range all {
		a := a
		g.Go(func() error {
			total, unlocked, avg, err := s.progress.StatsForAchievement(gctx, nil, a.ID)
			if err != nil {
				return err
			}
			pct := 0.0
			if total > 0 {
				pct = float64(unlocked) / float64(total) * 100
			}
			return s.stats.Upsert(gctx, nil, &achv.AchievementStat{
				AchievementID:      a.ID,
				TotalUsers:         total,
				UnlockedCount:      unlocked,
				UnlockedPercentage: pct,
				AverageProgress:    avg,
				LastCalculatedAt:   time.Now().UTC(),
			})
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	s.log.Info("achievement stats recomputed", "achievements", len(all))
	return len(all), nil
}

func (s *statsService) List(ctx context.Context) ([]*achv.AchievementStat, error) {
	return s.stats.List(ctx, nil)
}
