package achievements

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/testutil"
	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
)

func TestEventRepo_MarkProcessed(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewEventRepo(tx, testutil.Logger(t))

	userID := uuid.New()
	event, err := repo.Create(ctx, tx, &achv.AchievementEvent{
		UserID:    userID,
		EventType: achv.EventArticleRead,
		EventData: map[string]interface{}{"articleId": uuid.NewString()},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if event.Processed {
		t.Fatalf("expected fresh event to be unprocessed")
	}

	progressed := uuid.New()
	unlocked := uuid.New()
	if err := repo.MarkProcessed(ctx, tx, event.ID, EventOutcome{
		Evaluated:  3,
		Progressed: []uuid.UUID{progressed},
		Unlocked:   []uuid.UUID{unlocked},
		Errors:     []string{"slow-achievement: boom"},
	}); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, event.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Processed || got.ProcessedAt == nil {
		t.Fatalf("expected processed event, got %+v", got)
	}
	if got.AchievementsEvaluated != 3 {
		t.Fatalf("expected 3 evaluated, got %d", got.AchievementsEvaluated)
	}
	if len(got.AchievementsProgressed) != 1 || got.AchievementsProgressed[0] != progressed {
		t.Fatalf("unexpected progressed list %+v", got.AchievementsProgressed)
	}
	if len(got.AchievementsUnlocked) != 1 || got.AchievementsUnlocked[0] != unlocked {
		t.Fatalf("unexpected unlocked list %+v", got.AchievementsUnlocked)
	}
	if len(got.Errors) != 1 {
		t.Fatalf("expected one recorded error, got %+v", got.Errors)
	}
}

func TestEventRepo_ListByUserAsc(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewEventRepo(tx, testutil.Logger(t))

	userID := uuid.New()
	types := []achv.EventType{achv.EventFirstLogin, achv.EventArticleRead, achv.EventTrailCompleted}
	for _, et := range types {
		if _, err := repo.Create(ctx, tx, &achv.AchievementEvent{
			UserID:    userID,
			EventType: et,
			EventData: map[string]interface{}{},
		}); err != nil {
			t.Fatalf("Create(%s): %v", et, err)
		}
	}
	// Another user's events must not leak in.
	if _, err := repo.Create(ctx, tx, &achv.AchievementEvent{
		UserID:    uuid.New(),
		EventType: achv.EventFirstLogin,
		EventData: map[string]interface{}{},
	}); err != nil {
		t.Fatalf("Create other user: %v", err)
	}

	events, err := repo.ListByUserAsc(ctx, tx, userID)
	if err != nil {
		t.Fatalf("ListByUserAsc: %v", err)
	}
	if len(events) != len(types) {
		t.Fatalf("expected %d events, got %d", len(types), len(events))
	}
	for i, et := range types {
		if events[i].EventType != et {
			t.Fatalf("expected %s at index %d, got %s", et, i, events[i].EventType)
		}
	}
}
