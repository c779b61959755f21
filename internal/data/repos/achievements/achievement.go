package achievements

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	pkgerrors "github.com/dancorreia-swe/medwaster-achievements/internal/pkg/errors"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

type AchievementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *achv.Achievement) (*achv.Achievement, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*achv.Achievement, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*achv.Achievement, error)
	List(ctx context.Context, tx *gorm.DB, page, pageSize int) ([]*achv.Achievement, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	// ListActiveByTriggerTypes returns active achievements whose trigger type
	// is in the given set. Trigger specs live in a JSON column, so rows are
	// filtered after the status scan; the catalog is small.
	ListActiveByTriggerTypes(ctx context.Context, tx *gorm.DB, types []achv.TriggerType) ([]*achv.Achievement, error)
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return &achievementRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (r *achievementRepo) Create(ctx context.Context, tx *gorm.DB, row *achv.Achievement) (*achv.Achievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *achievementRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*achv.Achievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	var row achv.Achievement
	err := t.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *achievementRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*achv.Achievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var row achv.Achievement
	err := t.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *achievementRepo) List(ctx context.Context, tx *gorm.DB, page, pageSize int) ([]*achv.Achievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 100 {
		pageSize = 100
	}
	var out []*achv.Achievement
	err := t.WithContext(ctx).
		Order("display_order ASC, created_at ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *achievementRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(fields) == 0 {
		return pkgerrors.ErrInvalidArgument
	}
	fields["updated_at"] = time.Now().UTC()
	res := t.WithContext(ctx).Model(&achv.Achievement{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (r *achievementRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return pkgerrors.ErrInvalidArgument
	}
	res := t.WithContext(ctx).Where("id = ?", id).Delete(&achv.Achievement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (r *achievementRepo) ListActiveByTriggerTypes(ctx context.Context, tx *gorm.DB, types []achv.TriggerType) ([]*achv.Achievement, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(types) == 0 {
		return []*achv.Achievement{}, nil
	}
	var active []*achv.Achievement
	err := t.WithContext(ctx).
		Where("status = ?", achv.StatusActive).
		Find(&active).Error
	if err != nil {
		return nil, err
	}
	wanted := make(map[achv.TriggerType]struct{}, len(types))
	for _, tt := range types {
		wanted[tt] = struct{}{}
	}
	out := make([]*achv.Achievement, 0, len(active))
	for _, a := range active {
		if _, ok := wanted[a.Trigger.Data().Type]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}
