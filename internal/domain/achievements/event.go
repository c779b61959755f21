package achievements

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventType is the category of user activity reported to the engine. It is
// distinct from TriggerType; the engine maps one onto the other.
type EventType string

const (
	EventFirstLogin            EventType = "first_login"
	EventOnboardingComplete    EventType = "onboarding_complete"
	EventLoginStreak           EventType = "login_streak"
	EventTrailCompleted        EventType = "trail_completed"
	EventTrailContentCompleted EventType = "trail_content_completed"
	EventArticleRead           EventType = "article_read"
	EventQuestionAnswered      EventType = "question_answered"
	EventQuizCompleted         EventType = "quiz_completed"
	EventCertificateEarned     EventType = "certificate_earned"
	EventBookmarkCreated       EventType = "bookmark_created"
)

func (e EventType) Valid() bool {
	switch e {
	case EventFirstLogin, EventOnboardingComplete, EventLoginStreak,
		EventTrailCompleted, EventTrailContentCompleted, EventArticleRead,
		EventQuestionAnswered, EventQuizCompleted, EventCertificateEarned,
		EventBookmarkCreated:
		return true
	}
	return false
}

// AchievementEvent is the append-only log of every tracked activity event and
// the outcome of processing it. Rows are mutated exactly once, when processing
// completes, and never deleted; the log is the audit trail and replay source.
type AchievementEvent struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	EventType EventType         `gorm:"column:event_type;not null;index" json:"event_type"`
	EventData datatypes.JSONMap `gorm:"column:event_data" json:"event_data"`

	Processed   bool       `gorm:"not null;default:false;index" json:"processed"`
	ProcessedAt *time.Time `gorm:"column:processed_at" json:"processed_at,omitempty"`

	AchievementsEvaluated  int                            `gorm:"not null;default:0" json:"achievements_evaluated"`
	AchievementsProgressed datatypes.JSONSlice[uuid.UUID] `json:"achievements_progressed"`
	AchievementsUnlocked   datatypes.JSONSlice[uuid.UUID] `json:"achievements_unlocked"`
	Errors                 datatypes.JSONSlice[string]    `json:"errors,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (AchievementEvent) TableName() string { return "achievement_event" }

func (e *AchievementEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
