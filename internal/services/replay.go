package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	achvrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/achievements"
	pkgerrors "github.com/dancorreia-swe/medwaster-achievements/internal/pkg/errors"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

type ReplaySummary struct {
	EventsReplayed int      `json:"events_replayed"`
	Unlocked       int      `json:"unlocked"`
	Errors         []string `json:"errors,omitempty"`
}

// ReplayService re-runs the processing pipeline over a user's historical
// events, oldest first. Already-unlocked achievements early-exit, so a replay
// only fills in progress that was missed (new definitions, past failures).
type ReplayService interface {
	Recalculate(ctx context.Context, userID uuid.UUID) (*ReplaySummary, error)
}

type replayService struct {
	db       *gorm.DB
	log      *logger.Logger
	events   achvrepo.EventRepo
	progress achvrepo.UserAchievementRepo
	engine   EngineService
}

func NewReplayService(db *gorm.DB, baseLog *logger.Logger, events achvrepo.EventRepo, progress achvrepo.UserAchievementRepo, engine EngineService) ReplayService {
	return &replayService{
		db:       db,
		log:      baseLog.With("service", "ReplayService"),
		events:   events,
		progress: progress,
		engine:   engine,
	}
}

func (s *replayService) Recalculate(ctx context.Context, userID uuid.UUID) (*ReplaySummary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	log := s.log.With("user_id", userID)

	events, err := s.events.ListByUserAsc(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	log.Info("recalculating achievements", "events", len(events))

	summary := &ReplaySummary{}
	for _, event := range events {
		summary.EventsReplayed++
		if err := s.engine.ProcessEvent(ctx, event); err != nil {
			log.Warn("replay of event failed", "event_id", event.ID, "error", err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", event.ID, err))
		}
	}

	unlocked, err := s.progress.ListUnlocked(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count unlocked: %w", err)
	}
	summary.Unlocked = len(unlocked)
	return summary, nil
}
