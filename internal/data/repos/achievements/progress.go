package achievements

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	pkgerrors "github.com/dancorreia-swe/medwaster-achievements/internal/pkg/errors"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

type UserAchievementRepo interface {
	GetByUserAndAchievement(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (*achv.UserAchievement, error)
	// CreateIfAbsent inserts the row unless one already exists for the
	// (user, achievement) pair, then returns the stored row either way. The
	// unique index makes concurrent first events converge on one row.
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, row *achv.UserAchievement) (*achv.UserAchievement, error)
	UpdateProgress(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, currentValue, progressPercentage float64) error
	// MarkUnlocked flips is_unlocked only when it is still false; the bool
	// reports whether this call performed the transition.
	MarkUnlocked(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, at time.Time) (bool, error)

	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*achv.UserAchievement, error)
	ListUnlockedUnnotified(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*achv.UserAchievement, error)
	ListUnlocked(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*achv.UserAchievement, error)

	// Set-if-null notification lifecycle writes; the bool reports whether the
	// timestamp was written by this call.
	MarkNotified(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, at time.Time) (bool, error)
	MarkViewed(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, at time.Time) (bool, error)
	MarkClaimed(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, at time.Time) (bool, error)

	StatsForAchievement(ctx context.Context, tx *gorm.DB, achievementID uuid.UUID) (totalUsers, unlockedCount int, averageProgress float64, err error)
}

type userAchievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	return &userAchievementRepo{db: db, log: baseLog.With("repo", "UserAchievementRepo")}
}

func (r *userAchievementRepo) GetByUserAndAchievement(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (*achv.UserAchievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || achievementID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	var row achv.UserAchievement
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

func (r *userAchievementRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, row *achv.UserAchievement) (*achv.UserAchievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil || row.AchievementID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	err := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserAndAchievement(ctx, t, row.UserID, row.AchievementID)
}

func (r *userAchievementRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, currentValue, progressPercentage float64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Model(&achv.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Updates(map[string]interface{}{
			"current_value":       currentValue,
			"progress_percentage": progressPercentage,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (r *userAchievementRepo) MarkUnlocked(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, at time.Time) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Model(&achv.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ? AND is_unlocked = ?", userID, achievementID, false).
		Updates(map[string]interface{}{
			"is_unlocked":         true,
			"unlocked_at":         at,
			"progress_percentage": 100.0,
			"updated_at":          at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userAchievementRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*achv.UserAchievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*achv.UserAchievement
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userAchievementRepo) ListUnlockedUnnotified(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*achv.UserAchievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*achv.UserAchievement
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ? AND is_unlocked = ? AND notified_at IS NULL", userID, true).
		Order("unlocked_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userAchievementRepo) ListUnlocked(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*achv.UserAchievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*achv.UserAchievement
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ? AND is_unlocked = ?", userID, true).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userAchievementRepo) MarkNotified(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, at time.Time) (bool, error) {
	return r.setIfNull(ctx, tx, userID, achievementID, "notified_at", at)
}

func (r *userAchievementRepo) MarkViewed(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, at time.Time) (bool, error) {
	return r.setIfNull(ctx, tx, userID, achievementID, "viewed_at", at)
}

func (r *userAchievementRepo) MarkClaimed(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, at time.Time) (bool, error) {
	return r.setIfNull(ctx, tx, userID, achievementID, "claimed_at", at)
}

func (r *userAchievementRepo) setIfNull(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, column string, at time.Time) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || achievementID == uuid.Nil {
		return false, pkgerrors.ErrInvalidArgument
	}
	res := t.WithContext(ctx).Model(&achv.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ? AND "+column+" IS NULL", userID, achievementID).
		Updates(map[string]interface{}{
			column:       at,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userAchievementRepo) StatsForAchievement(ctx context.Context, tx *gorm.DB, achievementID uuid.UUID) (int, int, float64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if achievementID == uuid.Nil {
		return 0, 0, 0, pkgerrors.ErrInvalidArgument
	}
	var row struct {
		TotalUsers      int64
		UnlockedCount   int64
		AverageProgress *float64
	}
	err := t.WithContext(ctx).Model(&achv.UserAchievement{}).
		Select(
			"COUNT(*) AS total_users, "+
				"SUM(CASE WHEN is_unlocked THEN 1 ELSE 0 END) AS unlocked_count, "+
				"AVG(progress_percentage) AS average_progress").
		Where("achievement_id = ?", achievementID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, 0, err
	}
	avg := 0.0
	if row.AverageProgress != nil {
		avg = *row.AverageProgress
	}
	return int(row.TotalUsers), int(row.UnlockedCount), avg, nil
}
