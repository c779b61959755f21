package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	achvrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/achievements"
	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	pkgerrors "github.com/dancorreia-swe/medwaster-achievements/internal/pkg/errors"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

type NotificationStats struct {
	TotalUnlocked    int     `json:"total_unlocked"`
	Notified         int     `json:"notified"`
	NotNotified      int     `json:"not_notified"`
	Viewed           int     `json:"viewed"`
	Claimed          int     `json:"claimed"`
	NotificationRate float64 `json:"notification_rate"`
}

// NotificationService is the bookkeeping of whether/when an unlock was
// surfaced to, viewed by, and claimed by the user. Timestamps are written
// once: marking an already-marked achievement is a no-op, so the first
// notified/viewed/claimed time survives repeats.
type NotificationService interface {
	GetUnnotified(ctx context.Context, userID uuid.UUID) ([]*achv.UserAchievement, error)
	MarkNotified(ctx context.Context, userID, achievementID uuid.UUID) error
	MarkViewed(ctx context.Context, userID, achievementID uuid.UUID) error
	MarkClaimed(ctx context.Context, userID, achievementID uuid.UUID) error
	GetStats(ctx context.Context, userID uuid.UUID) (*NotificationStats, error)
}

type notificationService struct {
	db       *gorm.DB
	log      *logger.Logger
	progress achvrepo.UserAchievementRepo
}

func NewNotificationService(db *gorm.DB, baseLog *logger.Logger, progress achvrepo.UserAchievementRepo) NotificationService {
	return &notificationService{
		db:       db,
		log:      baseLog.With("service", "NotificationService"),
		progress: progress,
	}
}

func (s *notificationService) GetUnnotified(ctx context.Context, userID uuid.UUID) ([]*achv.UserAchievement, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	return s.progress.ListUnlockedUnnotified(ctx, nil, userID)
}

func (s *notificationService) MarkNotified(ctx context.Context, userID, achievementID uuid.UUID) error {
	return s.mark(ctx, userID, achievementID, s.progress.MarkNotified)
}

func (s *notificationService) MarkViewed(ctx context.Context, userID, achievementID uuid.UUID) error {
	return s.mark(ctx, userID, achievementID, s.progress.MarkViewed)
}

func (s *notificationService) MarkClaimed(ctx context.Context, userID, achievementID uuid.UUID) error {
	return s.mark(ctx, userID, achievementID, s.progress.MarkClaimed)
}

func (s *notificationService) mark(
	ctx context.Context,
	userID, achievementID uuid.UUID,
	write func(context.Context, *gorm.DB, uuid.UUID, uuid.UUID, time.Time) (bool, error),
) error {
	// Existence first, so a missing row is NotFound rather than a silent
	// zero-row update.
	if _, err := s.progress.GetByUserAndAchievement(ctx, nil, userID, achievementID); err != nil {
		return err
	}
	_, err := write(ctx, nil, userID, achievementID, time.Now().UTC())
	return err
}

func (s *notificationService) GetStats(ctx context.Context, userID uuid.UUID) (*NotificationStats, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	unlocked, err := s.progress.ListUnlocked(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	stats := &NotificationStats{TotalUnlocked: len(unlocked)}
	for _, ua := range unlocked {
		if ua.NotifiedAt != nil {
			stats.Notified++
		}
		if ua.ViewedAt != nil {
			stats.Viewed++
		}
		if ua.ClaimedAt != nil {
			stats.Claimed++
		}
	}
	stats.NotNotified = stats.TotalUnlocked - stats.Notified
	if stats.TotalUnlocked > 0 {
		stats.NotificationRate = float64(stats.Notified) / float64(stats.TotalUnlocked) * 100
	}
	return stats, nil
}
