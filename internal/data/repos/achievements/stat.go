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

type StatRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *achv.AchievementStat) error
	List(ctx context.Context, tx *gorm.DB) ([]*achv.AchievementStat, error)
	GetByAchievement(ctx context.Context, tx *gorm.DB, achievementID uuid.UUID) (*achv.AchievementStat, error)
}

type statRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatRepo(db *gorm.DB, baseLog *logger.Logger) StatRepo {
	return &statRepo{db: db, log: baseLog.With("repo", "StatRepo")}
}

func (r *statRepo) Upsert(ctx context.Context, tx *gorm.DB, row *achv.AchievementStat) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.AchievementID == uuid.Nil {
		return pkgerrors.ErrInvalidArgument
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "achievement_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_users",
				"unlocked_count",
				"unlocked_percentage",
				"average_progress",
				"last_calculated_at",
			}),
		}).
		Create(row).Error
}

func (r *statRepo) List(ctx context.Context, tx *gorm.DB) ([]*achv.AchievementStat, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*achv.AchievementStat
	if err := t.WithContext(ctx).Order("unlocked_percentage DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *statRepo) GetByAchievement(ctx context.Context, tx *gorm.DB, achievementID uuid.UUID) (*achv.AchievementStat, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if achievementID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	var row achv.AchievementStat
	err := t.WithContext(ctx).Where("achievement_id = ?", achievementID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}
