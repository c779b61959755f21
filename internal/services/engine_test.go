package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/testutil"
	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	pkgerrors "github.com/dancorreia-swe/medwaster-achievements/internal/pkg/errors"
)

func TestTrackEvent_ValidatesInput(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	if _, err := h.engine.TrackEvent(ctx, uuid.Nil, achv.EventFirstLogin, nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil user, got %v", err)
	}
	if _, err := h.engine.TrackEvent(ctx, uuid.New(), achv.EventType("made_up"), nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown event type, got %v", err)
	}
}

func TestTrackEvent_NoCandidates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	event, err := h.engine.TrackEvent(ctx, uuid.New(), achv.EventQuizCompleted, map[string]interface{}{"score": 8})
	if err != nil {
		t.Fatalf("TrackEvent: %v", err)
	}
	if !event.Processed {
		t.Fatalf("expected event marked processed")
	}
	if event.AchievementsEvaluated != 0 {
		t.Fatalf("expected no evaluations, got %d", event.AchievementsEvaluated)
	}
}

func TestTrackEvent_ProgressThenUnlock(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	a := testutil.SeedAchievement(t, ctx, h.tx, "trail-pair", achv.TriggerSpec{
		Type:       achv.TriggerCompleteTrails,
		Conditions: achv.TriggerConditions{Count: 2},
	})
	userID := uuid.New()

	// First completed trail: halfway there.
	testutil.SeedTrailCompleted(t, ctx, h.tx, userID, false)
	event, err := h.engine.TrackEvent(ctx, userID, achv.EventTrailCompleted, map[string]interface{}{
		"eventType": "trail_completed",
	})
	if err != nil {
		t.Fatalf("first TrackEvent: %v", err)
	}
	if event.AchievementsEvaluated != 1 {
		t.Fatalf("expected 1 evaluation, got %d", event.AchievementsEvaluated)
	}
	if len(event.AchievementsProgressed) != 1 || event.AchievementsProgressed[0] != a.ID {
		t.Fatalf("expected progress on %s, got %+v", a.ID, event.AchievementsProgressed)
	}
	if len(event.AchievementsUnlocked) != 0 {
		t.Fatalf("unexpected unlock: %+v", event.AchievementsUnlocked)
	}

	row, err := h.progress.GetByUserAndAchievement(ctx, h.tx, userID, a.ID)
	if err != nil {
		t.Fatalf("GetByUserAndAchievement: %v", err)
	}
	if row.CurrentValue != 1 || row.ProgressPercentage != 50 {
		t.Fatalf("expected 1/2 at 50%%, got %+v", row)
	}

	// Second completed trail: threshold crossed.
	testutil.SeedTrailCompleted(t, ctx, h.tx, userID, false)
	event, err = h.engine.TrackEvent(ctx, userID, achv.EventTrailCompleted, map[string]interface{}{
		"eventType": "trail_completed",
	})
	if err != nil {
		t.Fatalf("second TrackEvent: %v", err)
	}
	if len(event.AchievementsUnlocked) != 1 || event.AchievementsUnlocked[0] != a.ID {
		t.Fatalf("expected unlock of %s, got %+v", a.ID, event.AchievementsUnlocked)
	}

	row, err = h.progress.GetByUserAndAchievement(ctx, h.tx, userID, a.ID)
	if err != nil {
		t.Fatalf("reload progress: %v", err)
	}
	if !row.IsUnlocked || row.ProgressPercentage != 100 || row.UnlockedAt == nil {
		t.Fatalf("expected unlocked row, got %+v", row)
	}

	entries, err := h.engine.GetRecentlyUnlocked(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetRecentlyUnlocked: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	if entries[0].TriggerEvent != "trail_completed" {
		t.Fatalf("unexpected trigger event %q", entries[0].TriggerEvent)
	}
	if len(entries[0].AchievementSnapshot) == 0 {
		t.Fatalf("expected achievement snapshot on history entry")
	}
}

func TestTrackEvent_UnlockIsOneTime(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	testutil.SeedAchievement(t, ctx, h.tx, "trail-single", achv.TriggerSpec{
		Type:       achv.TriggerCompleteTrails,
		Conditions: achv.TriggerConditions{Count: 1},
	})
	userID := uuid.New()
	testutil.SeedTrailCompleted(t, ctx, h.tx, userID, false)

	if _, err := h.engine.TrackEvent(ctx, userID, achv.EventTrailCompleted, map[string]interface{}{"eventType": "trail_completed"}); err != nil {
		t.Fatalf("first TrackEvent: %v", err)
	}

	// A later event for the same trigger family must not re-unlock.
	testutil.SeedTrailCompleted(t, ctx, h.tx, userID, false)
	event, err := h.engine.TrackEvent(ctx, userID, achv.EventTrailCompleted, map[string]interface{}{"eventType": "trail_completed"})
	if err != nil {
		t.Fatalf("second TrackEvent: %v", err)
	}
	if len(event.AchievementsUnlocked) != 0 {
		t.Fatalf("expected no second unlock, got %+v", event.AchievementsUnlocked)
	}

	entries, err := h.engine.GetRecentlyUnlocked(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetRecentlyUnlocked: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history must stay at one entry, got %d", len(entries))
	}
}

func TestTrackEvent_PartialPercentage(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	a := testutil.SeedAchievement(t, ctx, h.tx, "reader-three", achv.TriggerSpec{
		Type:       achv.TriggerReadArticlesCount,
		Conditions: achv.TriggerConditions{Count: 3},
	})
	userID := uuid.New()
	testutil.SeedArticleRead(t, ctx, h.tx, userID)
	testutil.SeedArticleRead(t, ctx, h.tx, userID)

	if _, err := h.engine.TrackEvent(ctx, userID, achv.EventArticleRead, map[string]interface{}{"eventType": "article_read"}); err != nil {
		t.Fatalf("TrackEvent: %v", err)
	}

	row, err := h.progress.GetByUserAndAchievement(ctx, h.tx, userID, a.ID)
	if err != nil {
		t.Fatalf("GetByUserAndAchievement: %v", err)
	}
	if row.CurrentValue != 2 {
		t.Fatalf("expected current value 2, got %v", row.CurrentValue)
	}
	want := 2.0 / 3.0 * 100
	if diff := row.ProgressPercentage - want; diff > 0.0001 || diff < -0.0001 {
		t.Fatalf("expected ~%.4f%%, got %v", want, row.ProgressPercentage)
	}
}

func TestGetUserAchievements_PreloadsDefinitions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	testutil.SeedAchievement(t, ctx, h.tx, "listed-one", achv.TriggerSpec{Type: achv.TriggerFirstLogin})
	userID := uuid.New()

	if _, err := h.engine.TrackEvent(ctx, userID, achv.EventFirstLogin, map[string]interface{}{"eventType": "first_login"}); err != nil {
		t.Fatalf("TrackEvent: %v", err)
	}

	rows, err := h.engine.GetUserAchievements(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserAchievements: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].Achievement == nil || rows[0].Achievement.Slug != "listed-one" {
		t.Fatalf("expected preloaded achievement, got %+v", rows[0].Achievement)
	}
	if !rows[0].IsUnlocked {
		t.Fatalf("milestone should unlock on first event")
	}
}

func TestTrackEvent_HistoryFallsBackToEventType(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	testutil.SeedAchievement(t, ctx, h.tx, "trail-first", achv.TriggerSpec{
		Type:       achv.TriggerCompleteTrails,
		Conditions: achv.TriggerConditions{Count: 1},
	})
	userID := uuid.New()
	testutil.SeedTrailCompleted(t, ctx, h.tx, userID, false)

	// Raw payload without the tracker-stamped eventType key; the history
	// entry should fall back to the event's own type, not "unknown".
	event, err := h.engine.TrackEvent(ctx, userID, achv.EventTrailCompleted, map[string]interface{}{
		"trailId": uuid.New().String(),
	})
	if err != nil {
		t.Fatalf("TrackEvent: %v", err)
	}
	if len(event.AchievementsUnlocked) != 1 {
		t.Fatalf("expected one unlock, got %+v", event.AchievementsUnlocked)
	}

	entries, err := h.engine.GetRecentlyUnlocked(ctx, userID, 5)
	if err != nil {
		t.Fatalf("GetRecentlyUnlocked: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	if entries[0].TriggerEvent != string(achv.EventTrailCompleted) {
		t.Fatalf("expected trigger event %q, got %q", achv.EventTrailCompleted, entries[0].TriggerEvent)
	}
}
