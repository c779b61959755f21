package achievements

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AchievementHistoryEntry is written exactly once at the moment of unlock and
// never mutated. AchievementSnapshot preserves the definition as it stood when
// the unlock happened, even if an administrator later edits it.
type AchievementHistoryEntry struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index;index:idx_history_user_achievement,unique,priority:1" json:"user_id"`
	AchievementID uuid.UUID    `gorm:"type:uuid;not null;index;index:idx_history_user_achievement,unique,priority:2" json:"achievement_id"`
	Achievement   *Achievement `gorm:"constraint:OnDelete:CASCADE;foreignKey:AchievementID;references:ID" json:"achievement,omitempty"`

	TriggerEvent string            `gorm:"column:trigger_event;not null" json:"trigger_event"`
	TriggerData  datatypes.JSONMap `gorm:"column:trigger_data" json:"trigger_data"`

	AchievementSnapshot datatypes.JSON `gorm:"column:achievement_snapshot" json:"achievement_snapshot"`
	// Rewards granting is future work; recorded for when it lands.
	RewardsGranted datatypes.JSONMap `gorm:"column:rewards_granted" json:"rewards_granted,omitempty"`

	UnlockedAt time.Time `gorm:"column:unlocked_at;not null;index" json:"unlocked_at"`
}

func (AchievementHistoryEntry) TableName() string { return "achievement_history" }

func (h *AchievementHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// AchievementStat is a per-achievement aggregate recomputed on demand.
type AchievementStat struct {
	AchievementID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"achievement_id"`
	TotalUsers         int       `gorm:"not null;default:0" json:"total_users"`
	UnlockedCount      int       `gorm:"not null;default:0" json:"unlocked_count"`
	UnlockedPercentage float64   `gorm:"not null;default:0" json:"unlocked_percentage"`
	AverageProgress    float64   `gorm:"not null;default:0" json:"average_progress"`
	LastCalculatedAt   time.Time `gorm:"not null" json:"last_calculated_at"`
}

func (AchievementStat) TableName() string { return "achievement_stat" }
