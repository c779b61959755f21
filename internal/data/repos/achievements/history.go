package achievements

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	pkgerrors "github.com/dancorreia-swe/medwaster-achievements/internal/pkg/errors"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

type HistoryRepo interface {
	// Insert appends the unlock record. The unique (user_id, achievement_id)
	// index plus DoNothing guarantees at most one entry per pair even under
	// concurrent processing; the bool reports whether this call wrote it.
	Insert(ctx context.Context, tx *gorm.DB, row *achv.AchievementHistoryEntry) (bool, error)
	ListRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*achv.AchievementHistoryEntry, error)
	GetByUserAndAchievement(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (*achv.AchievementHistoryEntry, error)
}

type historyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	return &historyRepo{db: db, log: baseLog.With("repo", "HistoryRepo")}
}

func (r *historyRepo) Insert(ctx context.Context, tx *gorm.DB, row *achv.AchievementHistoryEntry) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil || row.AchievementID == uuid.Nil {
		return false, pkgerrors.ErrInvalidArgument
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *historyRepo) ListRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*achv.AchievementHistoryEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*achv.AchievementHistoryEntry
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 5
	}
	if err := t.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *historyRepo) GetByUserAndAchievement(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (*achv.AchievementHistoryEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || achievementID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	var row achv.AchievementHistoryEntry
	err := t.WithContext(ctx).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
