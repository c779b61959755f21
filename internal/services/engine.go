package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	achvrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/achievements"
	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	pkgerrors "github.com/dancorreia-swe/medwaster-achievements/internal/pkg/errors"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

// eventTriggerMap is the process-wide constant mapping from reported activity
// events to the trigger families they can move. Unmapped event types make the
// pipeline a no-op.
var eventTriggerMap = map[achv.EventType][]achv.TriggerType{
	achv.EventFirstLogin:            {achv.TriggerFirstLogin},
	achv.EventOnboardingComplete:    {achv.TriggerOnboardingComplete},
	achv.EventLoginStreak:           {achv.TriggerLoginStreak},
	achv.EventTrailCompleted:        {achv.TriggerCompleteTrails, achv.TriggerCompleteTrailsPerfect, achv.TriggerCompleteSpecificTrail},
	achv.EventTrailContentCompleted: {achv.TriggerCompleteTrails},
	achv.EventArticleRead:           {achv.TriggerReadArticlesCount, achv.TriggerReadCategoryComplete, achv.TriggerReadSpecificArticle},
	achv.EventQuestionAnswered:      {achv.TriggerQuestionsAnswered, achv.TriggerQuestionAccuracyRate},
	achv.EventQuizCompleted:         {achv.TriggerCompleteQuizCount},
	achv.EventCertificateEarned:     {achv.TriggerFirstCertificate, achv.TriggerCertificateHighScore},
	achv.EventBookmarkCreated:       {achv.TriggerBookmarkArticlesCount},
}

type EngineService interface {
	// TrackEvent appends the event to the log and synchronously processes it.
	// Evaluation failures are recorded on the event, never returned; the only
	// error surfaced to the caller is a failure to insert the event itself.
	TrackEvent(ctx context.Context, userID uuid.UUID, eventType achv.EventType, eventData map[string]interface{}) (*achv.AchievementEvent, error)
	// ProcessEvent runs the evaluation pipeline for an existing event row.
	// It is safe to re-run on historical events (replay).
	ProcessEvent(ctx context.Context, event *achv.AchievementEvent) error

	GetEvent(ctx context.Context, id uuid.UUID) (*achv.AchievementEvent, error)
	GetUserAchievements(ctx context.Context, userID uuid.UUID) ([]*achv.UserAchievement, error)
	GetRecentlyUnlocked(ctx context.Context, userID uuid.UUID, limit int) ([]*achv.AchievementHistoryEntry, error)
}

type engineService struct {
	db        *gorm.DB
	log       *logger.Logger
	catalog   achvrepo.AchievementRepo
	events    achvrepo.EventRepo
	progress  achvrepo.UserAchievementRepo
	history   achvrepo.HistoryRepo
	evaluator ProgressEvaluator
	publisher UnlockPublisher
}

func NewEngineService(
	db *gorm.DB,
	baseLog *logger.Logger,
	catalog achvrepo.AchievementRepo,
	events achvrepo.EventRepo,
	progress achvrepo.UserAchievementRepo,
	history achvrepo.HistoryRepo,
	evaluator ProgressEvaluator,
	publisher UnlockPublisher,
) EngineService {
	return &engineService{
		db:        db,
		log:       baseLog.With("service", "EngineService"),
		catalog:   catalog,
		events:    events,
		progress:  progress,
		history:   history,
		evaluator: evaluator,
		publisher: publisher,
	}
}

func (s *engineService) TrackEvent(ctx context.Context, userID uuid.UUID, eventType achv.EventType, eventData map[string]interface{}) (*achv.AchievementEvent, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id required", pkgerrors.ErrInvalidArgument)
	}
	if !eventType.Valid() {
		return nil, fmt.Errorf("%w: unknown event type %q", pkgerrors.ErrInvalidArgument, eventType)
	}
	if eventData == nil {
		eventData = map[string]interface{}{}
	}

	event, err := s.events.Create(ctx, nil, &achv.AchievementEvent{
		UserID:    userID,
		EventType: eventType,
		EventData: eventData,
		Processed: false,
	})
	if err != nil {
		return nil, fmt.Errorf("record event: %w", err)
	}

	if err := s.ProcessEvent(ctx, event); err != nil {
		// Bookkeeping failed on top of whatever went wrong during
		// evaluation; the event row stays unprocessed for a later replay.
		s.log.Error("event processing bookkeeping failed",
			"event_id", event.ID, "event_type", eventType, "error", err)
	}

	return s.events.GetByID(ctx, nil, event.ID)
}

func (s *engineService) ProcessEvent(ctx context.Context, event *achv.AchievementEvent) error {
	if event == nil {
		return pkgerrors.ErrInvalidArgument
	}
	log := s.log.With("event_id", event.ID, "event_type", event.EventType, "user_id", event.UserID)

	outcome := achvrepo.EventOutcome{}

	candidates, err := s.relevantAchievements(ctx, event.EventType)
	if err != nil {
		outcome.Errors = append(outcome.Errors, err.Error())
		return s.events.MarkProcessed(ctx, nil, event.ID, outcome)
	}

	for _, a := range candidates {
		outcome.Evaluated++

		result, err := s.evaluator.Evaluate(ctx, nil, event.UserID, a, event.EventData)
		if err != nil {
			// One broken definition must not starve the rest of the batch.
			log.Warn("achievement evaluation failed", "achievement", a.Slug, "error", err)
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: %v", a.Slug, err))
			continue
		}

		if result.Progressed {
			outcome.Progressed = append(outcome.Progressed, a.ID)
		}
		if result.Unlocked {
			if err := s.unlock(ctx, event, a); err != nil {
				log.Warn("achievement unlock failed", "achievement", a.Slug, "error", err)
				outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: %v", a.Slug, err))
				continue
			}
			outcome.Unlocked = append(outcome.Unlocked, a.ID)
		} else if result.Progressed && s.publisher != nil {
			s.publisher.PublishProgress(ctx, event.UserID, a, result.NewValue)
		}
	}

	log.Debug("event processed",
		"evaluated", outcome.Evaluated,
		"progressed", len(outcome.Progressed),
		"unlocked", len(outcome.Unlocked),
		"errors", len(outcome.Errors))

	return s.events.MarkProcessed(ctx, nil, event.ID, outcome)
}

func (s *engineService) relevantAchievements(ctx context.Context, eventType achv.EventType) ([]*achv.Achievement, error) {
	triggerTypes := eventTriggerMap[eventType]
	if len(triggerTypes) == 0 {
		return nil, nil
	}
	return s.catalog.ListActiveByTriggerTypes(ctx, nil, triggerTypes)
}

// unlock performs the one-time transition: flip the progress row, write the
// history entry. Both happen in one transaction so concurrent events for the
// same (user, achievement) cannot double-record the unlock.
func (s *engineService) unlock(ctx context.Context, event *achv.AchievementEvent, a *achv.Achievement) error {
	now := time.Now().UTC()
	userID := event.UserID
	eventData := event.EventData

	triggerEvent := string(event.EventType)
	if v, ok := eventData["eventType"].(string); ok && v != "" {
		triggerEvent = v
	}
	if triggerEvent == "" {
		triggerEvent = "unknown"
	}

	snapshot, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("snapshot achievement: %w", err)
	}

	var wrote bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.progress.MarkUnlocked(ctx, tx, userID, a.ID, now); err != nil {
			return err
		}
		w, err := s.history.Insert(ctx, tx, &achv.AchievementHistoryEntry{
			UserID:              userID,
			AchievementID:       a.ID,
			TriggerEvent:        triggerEvent,
			TriggerData:         eventData,
			AchievementSnapshot: snapshot,
			RewardsGranted:      a.Rewards,
			UnlockedAt:          now,
		})
		if err != nil {
			return err
		}
		wrote = w
		return nil
	})
	if err != nil {
		return err
	}

	if wrote {
		s.log.Info("achievement unlocked", "achievement", a.Slug, "user_id", userID)
		if s.publisher != nil {
			s.publisher.PublishUnlocked(ctx, userID, a)
		}
	}
	return nil
}

func (s *engineService) GetEvent(ctx context.Context, id uuid.UUID) (*achv.AchievementEvent, error) {
	return s.events.GetByID(ctx, nil, id)
}

func (s *engineService) GetUserAchievements(ctx context.Context, userID uuid.UUID) ([]*achv.UserAchievement, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	return s.progress.ListByUser(ctx, nil, userID)
}

func (s *engineService) GetRecentlyUnlocked(ctx context.Context, userID uuid.UUID, limit int) ([]*achv.AchievementHistoryEntry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	return s.history.ListRecentByUser(ctx, nil, userID, limit)
}
