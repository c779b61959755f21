package achievements

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserAchievement is the per-(user, achievement) progress record, created
// lazily on the first relevant event and owned exclusively by the engine.
// TargetValue is fixed at creation and never recalculated from a changed
// definition. IsUnlocked transitions false->true exactly once, and the
// notification timestamps transition nil->set only.
type UserAchievement struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index;index:idx_user_achievement,unique,priority:1" json:"user_id"`
	AchievementID uuid.UUID    `gorm:"type:uuid;not null;index;index:idx_user_achievement,unique,priority:2" json:"achievement_id"`
	Achievement   *Achievement `gorm:"constraint:OnDelete:CASCADE;foreignKey:AchievementID;references:ID" json:"achievement,omitempty"`

	CurrentValue       float64 `gorm:"not null;default:0" json:"current_value"`
	TargetValue        float64 `gorm:"not null" json:"target_value"`
	ProgressPercentage float64 `gorm:"not null;default:0" json:"progress_percentage"`

	IsUnlocked bool       `gorm:"not null;default:false;index" json:"is_unlocked"`
	UnlockedAt *time.Time `gorm:"column:unlocked_at;index" json:"unlocked_at,omitempty"`

	NotifiedAt *time.Time `gorm:"column:notified_at" json:"notified_at,omitempty"`
	ViewedAt   *time.Time `gorm:"column:viewed_at" json:"viewed_at,omitempty"`
	ClaimedAt  *time.Time `gorm:"column:claimed_at" json:"claimed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserAchievement) TableName() string { return "user_achievement" }

func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	if ua.ID == uuid.Nil {
		ua.ID = uuid.New()
	}
	return nil
}
