package activity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	act "github.com/dancorreia-swe/medwaster-achievements/internal/domain/activity"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

// AggregateRepo answers the exact-count questions the progress evaluator asks
// of the trails, wiki and questions subsystems. Counts are exact as of call
// time; no caching.
type AggregateRepo interface {
	CountCompletedTrails(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error)
	CountReadArticles(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error)
	CountAttemptedQuestions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error)
	// QuestionAccuracy returns distinct questions attempted and how many
	// attempts were correct.
	QuestionAccuracy(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (total, correct int, err error)
}

type aggregateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAggregateRepo(db *gorm.DB, baseLog *logger.Logger) AggregateRepo {
	return &aggregateRepo{db: db, log: baseLog.With("repo", "AggregateRepo")}
}

func (r *aggregateRepo) CountCompletedTrails(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return 0, nil
	}
	var n int64
	err := t.WithContext(ctx).Model(&act.TrailProgress{}).
		Distinct("trail_id").
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&n).Error
	return int(n), err
}

func (r *aggregateRepo) CountReadArticles(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return 0, nil
	}
	var n int64
	err := t.WithContext(ctx).Model(&act.ArticleRead{}).
		Distinct("article_id").
		Where("user_id = ?", userID).
		Count(&n).Error
	return int(n), err
}

func (r *aggregateRepo) CountAttemptedQuestions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return 0, nil
	}
	var n int64
	err := t.WithContext(ctx).Model(&act.QuestionAttempt{}).
		Distinct("question_id").
		Where("user_id = ?", userID).
		Count(&n).Error
	return int(n), err
}

func (r *aggregateRepo) QuestionAccuracy(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return 0, 0, nil
	}
	var row struct {
		Total   int64
		Correct *int64
	}
	err := t.WithContext(ctx).Model(&act.QuestionAttempt{}).
		Select(
			"COUNT(DISTINCT question_id) AS total, "+
				"SUM(CASE WHEN is_correct THEN 1 ELSE 0 END) AS correct").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	correct := 0
	if row.Correct != nil {
		correct = int(*row.Correct)
	}
	return int(row.Total), correct, nil
}
