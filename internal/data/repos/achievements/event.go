package achievements

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	pkgerrors "github.com/dancorreia-swe/medwaster-achievements/internal/pkg/errors"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

// EventOutcome is written back onto an event row exactly once, when
// processing finishes.
type EventOutcome struct {
	Evaluated  int
	Progressed []uuid.UUID
	Unlocked   []uuid.UUID
	Errors     []string
}

type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *achv.AchievementEvent) (*achv.AchievementEvent, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*achv.AchievementEvent, error)
	// ListByUserAsc returns every event of a user in processing order; the
	// replay path depends on the ascending order.
	ListByUserAsc(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*achv.AchievementEvent, error)
	MarkProcessed(ctx context.Context, tx *gorm.DB, id uuid.UUID, outcome EventOutcome) error
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (r *eventRepo) Create(ctx context.Context, tx *gorm.DB, row *achv.AchievementEvent) (*achv.AchievementEvent, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *eventRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*achv.AchievementEvent, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	var row achv.AchievementEvent
	err := t.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *eventRepo) ListByUserAsc(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*achv.AchievementEvent, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*achv.AchievementEvent
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventRepo) MarkProcessed(ctx context.Context, tx *gorm.DB, id uuid.UUID, outcome EventOutcome) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return pkgerrors.ErrInvalidArgument
	}
	now := time.Now().UTC()
	fields := map[string]interface{}{
		"processed":               true,
		"processed_at":            now,
		"achievements_evaluated":  outcome.Evaluated,
		"achievements_progressed": datatypes.NewJSONSlice(emptyIfNil(outcome.Progressed)),
		"achievements_unlocked":   datatypes.NewJSONSlice(emptyIfNil(outcome.Unlocked)),
	}
	if len(outcome.Errors) > 0 {
		fields["errors"] = datatypes.NewJSONSlice(outcome.Errors)
	}
	res := t.WithContext(ctx).Model(&achv.AchievementEvent{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func emptyIfNil(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
