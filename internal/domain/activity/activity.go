// Package activity holds the collaborator-owned tables the evaluator's
// aggregate queries read. The engine never writes them; trails, wiki and
// question subsystems do.
package activity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrailProgress struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;index:idx_user_trail,unique,priority:1" json:"user_id"`
	TrailID      uuid.UUID `gorm:"type:uuid;not null;index:idx_user_trail,unique,priority:2" json:"trail_id"`
	IsCompleted  bool      `gorm:"not null;default:false;index" json:"is_completed"`
	Score        float64   `gorm:"not null;default:0" json:"score"`
	PerfectScore bool      `gorm:"not null;default:false" json:"perfect_score"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (TrailProgress) TableName() string { return "user_trail_progress" }

func (tp *TrailProgress) BeforeCreate(tx *gorm.DB) error {
	if tp.ID == uuid.Nil {
		tp.ID = uuid.New()
	}
	return nil
}

type ArticleRead struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ArticleID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"article_id"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
}

func (ArticleRead) TableName() string { return "user_article_read" }

func (ar *ArticleRead) BeforeCreate(tx *gorm.DB) error {
	if ar.ID == uuid.Nil {
		ar.ID = uuid.New()
	}
	return nil
}

type QuestionAttempt struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (QuestionAttempt) TableName() string { return "user_question_attempt" }

func (qa *QuestionAttempt) BeforeCreate(tx *gorm.DB) error {
	if qa.ID == uuid.Nil {
		qa.ID = uuid.New()
	}
	return nil
}

type ArticleBookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;index:idx_user_bookmark,unique,priority:1" json:"user_id"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_bookmark,unique,priority:2" json:"article_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ArticleBookmark) TableName() string { return "user_article_bookmark" }

func (ab *ArticleBookmark) BeforeCreate(tx *gorm.DB) error {
	if ab.ID == uuid.Nil {
		ab.ID = uuid.New()
	}
	return nil
}
