package achievements

import (
	"context"
	"testing"
	"time"

	"github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/testutil"
	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
)

func TestStatRepo_UpsertReplacesExisting(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewStatRepo(tx, testutil.Logger(t))

	a := testutil.SeedAchievement(t, ctx, tx, "stat-upsert", achv.TriggerSpec{Type: achv.TriggerFirstLogin})

	if err := repo.Upsert(ctx, tx, &achv.AchievementStat{
		AchievementID:      a.ID,
		TotalUsers:         10,
		UnlockedCount:      2,
		UnlockedPercentage: 20,
		AverageProgress:    35,
		LastCalculatedAt:   time.Now().UTC(),
	}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	if err := repo.Upsert(ctx, tx, &achv.AchievementStat{
		AchievementID:      a.ID,
		TotalUsers:         12,
		UnlockedCount:      6,
		UnlockedPercentage: 50,
		AverageProgress:    61.5,
		LastCalculatedAt:   time.Now().UTC(),
	}); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	got, err := repo.GetByAchievement(ctx, tx, a.ID)
	if err != nil {
		t.Fatalf("GetByAchievement: %v", err)
	}
	if got.TotalUsers != 12 || got.UnlockedCount != 6 || got.UnlockedPercentage != 50 {
		t.Fatalf("expected second snapshot to win, got %+v", got)
	}

	all, err := repo.List(ctx, tx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) == 0 {
		t.Fatalf("expected at least one stat row")
	}
}
