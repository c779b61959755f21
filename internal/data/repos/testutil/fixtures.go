package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	act "github.com/dancorreia-swe/medwaster-achievements/internal/domain/activity"
)

func SeedAchievement(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string, spec achv.TriggerSpec) *achv.Achievement {
	tb.Helper()
	a := &achv.Achievement{
		ID:          uuid.New(),
		Slug:        slug,
		Name:        slug,
		Description: "seeded",
		Category:    achv.CategoryGeneral,
		Difficulty:  achv.DifficultyBronze,
		Status:      achv.StatusActive,
		Visibility:  achv.VisibilityPublic,
		Trigger:     datatypes.NewJSONType(spec),
		Badge:       datatypes.NewJSONType(achv.Badge{Type: "icon", Value: "trophy", Color: "#fbbf24"}),
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return a
}

func SeedTrailCompleted(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, perfect bool) *act.TrailProgress {
	tb.Helper()
	tp := &act.TrailProgress{
		ID:           uuid.New(),
		UserID:       userID,
		TrailID:      uuid.New(),
		IsCompleted:  true,
		Score:        100,
		PerfectScore: perfect,
	}
	if err := tx.WithContext(ctx).Create(tp).Error; err != nil {
		tb.Fatalf("seed trail progress: %v", err)
	}
	return tp
}

func SeedArticleRead(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *act.ArticleRead {
	tb.Helper()
	ar := &act.ArticleRead{
		ID:        uuid.New(),
		UserID:    userID,
		ArticleID: uuid.New(),
	}
	if err := tx.WithContext(ctx).Create(ar).Error; err != nil {
		tb.Fatalf("seed article read: %v", err)
	}
	return ar
}

func SeedQuestionAttempt(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, correct bool) *act.QuestionAttempt {
	tb.Helper()
	qa := &act.QuestionAttempt{
		ID:         uuid.New(),
		UserID:     userID,
		QuestionID: uuid.New(),
		IsCorrect:  correct,
	}
	if err := tx.WithContext(ctx).Create(qa).Error; err != nil {
		tb.Fatalf("seed question attempt: %v", err)
	}
	return qa
}

func SeedBookmark(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *act.ArticleBookmark {
	tb.Helper()
	ab := &act.ArticleBookmark{
		ID:        uuid.New(),
		UserID:    userID,
		ArticleID: uuid.New(),
	}
	if err := tx.WithContext(ctx).Create(ab).Error; err != nil {
		tb.Fatalf("seed bookmark: %v", err)
	}
	return ab
}
