package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	activityrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/activity"
	achvrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/achievements"
	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	pkgerrors "github.com/dancorreia-swe/medwaster-achievements/internal/pkg/errors"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

// EvalResult is the outcome of evaluating one achievement against one event.
type EvalResult struct {
	Progressed bool
	Unlocked   bool
	NewValue   float64
}

type ProgressEvaluator interface {
	// Evaluate computes the new progress value for (user, achievement) given
	// the event payload, persists it, and reports whether the value moved
	// forward and whether the unlock threshold was crossed.
	Evaluate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, a *achv.Achievement, eventData map[string]interface{}) (EvalResult, error)
}

type progressEvaluator struct {
	db         *gorm.DB
	log        *logger.Logger
	progress   achvrepo.UserAchievementRepo
	aggregates activityrepo.AggregateRepo
}

func NewProgressEvaluator(db *gorm.DB, baseLog *logger.Logger, progress achvrepo.UserAchievementRepo, aggregates activityrepo.AggregateRepo) ProgressEvaluator {
	return &progressEvaluator{
		db:         db,
		log:        baseLog.With("service", "ProgressEvaluator"),
		progress:   progress,
		aggregates: aggregates,
	}
}

// TargetValue derives the unlock target from a trigger spec: count, then
// streakDays, then accuracyPercentage, defaulting to 1 for simple milestones.
func TargetValue(spec achv.TriggerSpec) float64 {
	if spec.Conditions.Count > 0 {
		return float64(spec.Conditions.Count)
	}
	if spec.Conditions.StreakDays > 0 {
		return float64(spec.Conditions.StreakDays)
	}
	if spec.Conditions.AccuracyPercentage > 0 {
		return spec.Conditions.AccuracyPercentage
	}
	return 1
}

func (e *progressEvaluator) Evaluate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, a *achv.Achievement, eventData map[string]interface{}) (EvalResult, error) {
	if a == nil || userID == uuid.Nil {
		return EvalResult{}, pkgerrors.ErrInvalidArgument
	}
	spec := a.Trigger.Data()

	row, err := e.progress.GetByUserAndAchievement(ctx, tx, userID, a.ID)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		row, err = e.progress.CreateIfAbsent(ctx, tx, &achv.UserAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			CurrentValue:  0,
			TargetValue:   TargetValue(spec),
		})
	}
	if err != nil {
		return EvalResult{}, fmt.Errorf("load progress: %w", err)
	}

	// Replayed events for an already unlocked achievement are a no-op.
	if row.IsUnlocked {
		return EvalResult{}, nil
	}

	newValue, err := e.calculateValue(ctx, tx, userID, spec, row.CurrentValue, eventData)
	if err != nil {
		return EvalResult{}, fmt.Errorf("calculate progress: %w", err)
	}

	// TargetValue is fixed at creation; a later definition edit never moves
	// the goalposts for rows that already exist.
	target := row.TargetValue
	if target <= 0 {
		target = 1
	}
	pct := math.Min(newValue/target*100, 100)

	// Strictly-greater comparison against the pre-update stored value: a
	// value that stays the same does not count as progress.
	result := EvalResult{
		Progressed: newValue > row.CurrentValue,
		Unlocked:   pct >= 100,
		NewValue:   newValue,
	}

	// Persisted even when nothing progressed so the percentage stays
	// consistent with the stored value.
	if err := e.progress.UpdateProgress(ctx, tx, userID, a.ID, newValue, pct); err != nil {
		return EvalResult{}, fmt.Errorf("persist progress: %w", err)
	}
	return result, nil
}

func (e *progressEvaluator) calculateValue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, spec achv.TriggerSpec, currentValue float64, eventData map[string]interface{}) (float64, error) {
	switch spec.Type {
	case achv.TriggerFirstLogin, achv.TriggerOnboardingComplete, achv.TriggerFirstCertificate:
		return 1, nil

	case achv.TriggerCompleteTrails:
		n, err := e.aggregates.CountCompletedTrails(ctx, tx, userID)
		return float64(n), err

	case achv.TriggerReadArticlesCount:
		n, err := e.aggregates.CountReadArticles(ctx, tx, userID)
		return float64(n), err

	case achv.TriggerQuestionsAnswered:
		n, err := e.aggregates.CountAttemptedQuestions(ctx, tx, userID)
		return float64(n), err

	case achv.TriggerQuestionAccuracyRate:
		minimum := spec.Conditions.MinimumQuestions
		if minimum <= 0 {
			minimum = 1
		}
		total, correct, err := e.aggregates.QuestionAccuracy(ctx, tx, userID)
		if err != nil {
			return 0, err
		}
		if total < minimum {
			return 0, nil
		}
		accuracy := float64(correct) / float64(total) * 100
		return math.Round(accuracy*100) / 100, nil

	case achv.TriggerLoginStreak:
		return numberField(eventData, "currentStreak"), nil

	default:
		// Unknown or not-yet-coded trigger types take a generic increment so
		// a new definition still makes visible progress.
		return currentValue + 1, nil
	}
}

// numberField reads a numeric payload key; JSON decoding yields float64 but
// directly constructed payloads may carry ints.
func numberField(data map[string]interface{}, key string) float64 {
	if data == nil {
		return 0
	}
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
