package achievements

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/testutil"
	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	pkgerrors "github.com/dancorreia-swe/medwaster-achievements/internal/pkg/errors"
)

func TestAchievementRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewAchievementRepo(tx, testutil.Logger(t))

	row, err := repo.Create(ctx, tx, &achv.Achievement{
		Slug:        "trail-novice",
		Name:        "Trail Novice",
		Description: "Complete your first trail",
		Category:    achv.CategoryTrails,
		Difficulty:  achv.DifficultyBronze,
		Status:      achv.StatusActive,
		Visibility:  achv.VisibilityPublic,
		Trigger: datatypes.NewJSONType(achv.TriggerSpec{
			Type:       achv.TriggerCompleteTrails,
			Conditions: achv.TriggerConditions{Count: 1},
		}),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if row.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}

	got, err := repo.GetByID(ctx, tx, row.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Slug != "trail-novice" {
		t.Fatalf("unexpected slug %q", got.Slug)
	}
	spec := got.Trigger.Data()
	if spec.Type != achv.TriggerCompleteTrails || spec.Conditions.Count != 1 {
		t.Fatalf("trigger spec did not round-trip: %+v", spec)
	}

	byName, err := repo.GetByName(ctx, tx, "Trail Novice")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if byName.ID != row.ID {
		t.Fatalf("GetByName returned wrong row")
	}

	if _, err := repo.GetByName(ctx, tx, "No Such Achievement"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAchievementRepo_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewAchievementRepo(tx, testutil.Logger(t))

	a := testutil.SeedAchievement(t, ctx, tx, "to-update", achv.TriggerSpec{Type: achv.TriggerFirstLogin})

	if err := repo.Update(ctx, tx, a.ID, map[string]interface{}{
		"name":   "Renamed",
		"status": achv.StatusInactive,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, tx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Renamed" || got.Status != achv.StatusInactive {
		t.Fatalf("update did not apply: %+v", got)
	}

	if err := repo.Delete(ctx, tx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, a.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Update(ctx, tx, a.ID, map[string]interface{}{"name": "x"}); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating deleted row, got %v", err)
	}
}

func TestAchievementRepo_ListActiveByTriggerTypes(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewAchievementRepo(tx, testutil.Logger(t))

	trails := testutil.SeedAchievement(t, ctx, tx, "active-trails", achv.TriggerSpec{
		Type:       achv.TriggerCompleteTrails,
		Conditions: achv.TriggerConditions{Count: 3},
	})
	testutil.SeedAchievement(t, ctx, tx, "active-articles", achv.TriggerSpec{
		Type:       achv.TriggerReadArticlesCount,
		Conditions: achv.TriggerConditions{Count: 10},
	})

	// Inactive definitions are never candidates.
	drafted := testutil.SeedAchievement(t, ctx, tx, "drafted-trails", achv.TriggerSpec{
		Type:       achv.TriggerCompleteTrails,
		Conditions: achv.TriggerConditions{Count: 9},
	})
	if err := repo.Update(ctx, tx, drafted.ID, map[string]interface{}{"status": achv.StatusDraft}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.ListActiveByTriggerTypes(ctx, tx, []achv.TriggerType{
		achv.TriggerCompleteTrails,
		achv.TriggerCompleteTrailsPerfect,
	})
	if err != nil {
		t.Fatalf("ListActiveByTriggerTypes: %v", err)
	}
	if len(got) != 1 || got[0].ID != trails.ID {
		t.Fatalf("expected only the active trails achievement, got %+v", got)
	}
}
