package achievements

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryTrails        Category = "trails"
	CategoryWiki          Category = "wiki"
	CategoryQuestions     Category = "questions"
	CategoryCertification Category = "certification"
	CategoryEngagement    Category = "engagement"
	CategorySocial        Category = "social"
	CategoryGeneral       Category = "general"
)

type Difficulty string

const (
	DifficultyBronze   Difficulty = "bronze"
	DifficultySilver   Difficulty = "silver"
	DifficultyGold     Difficulty = "gold"
	DifficultyPlatinum Difficulty = "platinum"
	DifficultyDiamond  Difficulty = "diamond"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusArchived Status = "archived"
)

type Visibility string

const (
	VisibilityPublic Visibility = "public"
	// Secret achievements are hidden from listings until earned. They still
	// progress and unlock silently; visibility only affects presentation.
	VisibilitySecret Visibility = "secret"
)

// Badge is the visual configuration rendered by the front ends.
type Badge struct {
	Type            string `json:"type,omitempty"` // "icon" | "image" | "svg"
	Value           string `json:"value,omitempty"`
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Animation       string `json:"animation,omitempty"`
}

type Achievement struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Slug            string     `gorm:"not null;uniqueIndex" json:"slug"`
	Name            string     `gorm:"not null" json:"name"`
	Description     string     `gorm:"not null" json:"description"`
	LongDescription string     `json:"long_description,omitempty"`
	Category        Category   `gorm:"not null;index" json:"category"`
	Difficulty      Difficulty `gorm:"not null;default:bronze" json:"difficulty"`
	Status          Status     `gorm:"not null;default:draft;index" json:"status"`
	Visibility      Visibility `gorm:"not null;default:public" json:"visibility"`

	// Trigger is immutable during evaluation; only administrators edit it.
	Trigger datatypes.JSONType[TriggerSpec] `gorm:"not null" json:"trigger"`
	Badge   datatypes.JSONType[Badge]       `json:"badge"`
	// Rewards granting is future work; the payload is carried but never acted on.
	Rewards datatypes.JSONMap `json:"rewards,omitempty"`

	DisplayOrder int `gorm:"not null;default:0;index" json:"display_order"`

	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Achievement) TableName() string { return "achievement" }

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
