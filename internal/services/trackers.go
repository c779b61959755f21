package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
)

// TrackerService is the convenience surface collaborators call instead of raw
// TrackEvent: one method per activity kind, each fixing the event type and
// shaping the payload.
type TrackerService struct {
	engine EngineService
}

func NewTrackerService(engine EngineService) *TrackerService {
	return &TrackerService{engine: engine}
}

func (t *TrackerService) track(ctx context.Context, userID uuid.UUID, eventType achv.EventType, data map[string]interface{}) (*achv.AchievementEvent, error) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["eventType"] = string(eventType)
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	return t.engine.TrackEvent(ctx, userID, eventType, data)
}

func (t *TrackerService) FirstLogin(ctx context.Context, userID uuid.UUID) (*achv.AchievementEvent, error) {
	return t.track(ctx, userID, achv.EventFirstLogin, nil)
}

func (t *TrackerService) OnboardingComplete(ctx context.Context, userID uuid.UUID) (*achv.AchievementEvent, error) {
	return t.track(ctx, userID, achv.EventOnboardingComplete, nil)
}

func (t *TrackerService) LoginStreak(ctx context.Context, userID uuid.UUID, currentStreak int) (*achv.AchievementEvent, error) {
	return t.track(ctx, userID, achv.EventLoginStreak, map[string]interface{}{
		"currentStreak": currentStreak,
	})
}

func (t *TrackerService) TrailCompleted(ctx context.Context, userID, trailID uuid.UUID, score float64, perfectScore bool) (*achv.AchievementEvent, error) {
	return t.track(ctx, userID, achv.EventTrailCompleted, map[string]interface{}{
		"trailId":      trailID.String(),
		"score":        score,
		"perfectScore": perfectScore,
	})
}

func (t *TrackerService) ArticleRead(ctx context.Context, userID, articleID uuid.UUID, categoryID *uuid.UUID) (*achv.AchievementEvent, error) {
	data := map[string]interface{}{
		"articleId": articleID.String(),
	}
	if categoryID != nil {
		data["categoryId"] = categoryID.String()
	}
	return t.track(ctx, userID, achv.EventArticleRead, data)
}

func (t *TrackerService) QuestionAnswered(ctx context.Context, userID, questionID uuid.UUID, isCorrect bool) (*achv.AchievementEvent, error) {
	return t.track(ctx, userID, achv.EventQuestionAnswered, map[string]interface{}{
		"questionId": questionID.String(),
		"isCorrect":  isCorrect,
	})
}

func (t *TrackerService) QuizCompleted(ctx context.Context, userID, quizID uuid.UUID, score, totalQuestions int) (*achv.AchievementEvent, error) {
	data := map[string]interface{}{
		"quizId":         quizID.String(),
		"score":          score,
		"totalQuestions": totalQuestions,
	}
	if totalQuestions > 0 {
		data["percentage"] = float64(score) / float64(totalQuestions) * 100
	}
	return t.track(ctx, userID, achv.EventQuizCompleted, data)
}

func (t *TrackerService) CertificateEarned(ctx context.Context, userID, certificateID uuid.UUID, score float64) (*achv.AchievementEvent, error) {
	return t.track(ctx, userID, achv.EventCertificateEarned, map[string]interface{}{
		"certificateId": certificateID.String(),
		"score":         score,
	})
}

func (t *TrackerService) BookmarkCreated(ctx context.Context, userID, articleID uuid.UUID) (*achv.AchievementEvent, error) {
	return t.track(ctx, userID, achv.EventBookmarkCreated, map[string]interface{}{
		"articleId": articleID.String(),
	})
}
