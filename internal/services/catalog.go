package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	achvrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/achievements"
	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	pkgerrors "github.com/dancorreia-swe/medwaster-achievements/internal/pkg/errors"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

type CreateAchievementInput struct {
	Slug            string                 `json:"slug"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	LongDescription string                 `json:"long_description,omitempty"`
	Category        achv.Category          `json:"category"`
	Difficulty      achv.Difficulty        `json:"difficulty,omitempty"`
	Status          achv.Status            `json:"status,omitempty"`
	Visibility      achv.Visibility        `json:"visibility,omitempty"`
	Trigger         achv.TriggerSpec       `json:"trigger"`
	Badge           achv.Badge             `json:"badge,omitempty"`
	Rewards         map[string]interface{} `json:"rewards,omitempty"`
	DisplayOrder    int                    `json:"display_order,omitempty"`
	CreatedBy       string                 `json:"created_by,omitempty"`
}

type UpdateAchievementInput struct {
	Name            *string           `json:"name,omitempty"`
	Description     *string           `json:"description,omitempty"`
	LongDescription *string           `json:"long_description,omitempty"`
	Category        *achv.Category    `json:"category,omitempty"`
	Difficulty      *achv.Difficulty  `json:"difficulty,omitempty"`
	Status          *achv.Status      `json:"status,omitempty"`
	Visibility      *achv.Visibility  `json:"visibility,omitempty"`
	Trigger         *achv.TriggerSpec `json:"trigger,omitempty"`
	Badge           *achv.Badge       `json:"badge,omitempty"`
	DisplayOrder    *int              `json:"display_order,omitempty"`
	UpdatedBy       string            `json:"updated_by,omitempty"`
}

// CatalogService is the administrator-facing CRUD over achievement
// definitions. The engine only ever reads the catalog.
type CatalogService interface {
	List(ctx context.Context, page, pageSize int) ([]*achv.Achievement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*achv.Achievement, error)
	Create(ctx context.Context, input CreateAchievementInput) (*achv.Achievement, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateAchievementInput) (*achv.Achievement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	db      *gorm.DB
	log     *logger.Logger
	catalog achvrepo.AchievementRepo
}

func NewCatalogService(db *gorm.DB, baseLog *logger.Logger, catalog achvrepo.AchievementRepo) CatalogService {
	return &catalogService{
		db:      db,
		log:     baseLog.With("service", "CatalogService"),
		catalog: catalog,
	}
}

func (s *catalogService) List(ctx context.Context, page, pageSize int) ([]*achv.Achievement, error) {
	return s.catalog.List(ctx, nil, page, pageSize)
}

func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*achv.Achievement, error) {
	return s.catalog.GetByID(ctx, nil, id)
}

func (s *catalogService) Create(ctx context.Context, input CreateAchievementInput) (*achv.Achievement, error) {
	if strings.TrimSpace(input.Slug) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: slug and name required", pkgerrors.ErrInvalidArgument)
	}
	if input.Trigger.Type == "" {
		return nil, fmt.Errorf("%w: trigger type required", pkgerrors.ErrInvalidArgument)
	}
	if taken, err := s.isNameTaken(ctx, input.Name, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: achievement name already taken", pkgerrors.ErrConflict)
	}

	row := &achv.Achievement{
		Slug:            strings.TrimSpace(input.Slug),
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		LongDescription: input.LongDescription,
		Category:        input.Category,
		Difficulty:      orDefault(input.Difficulty, achv.DifficultyBronze),
		Status:          orDefault(input.Status, achv.StatusDraft),
		Visibility:      orDefault(input.Visibility, achv.VisibilityPublic),
		Trigger:         datatypes.NewJSONType(input.Trigger),
		Badge:           datatypes.NewJSONType(input.Badge),
		Rewards:         input.Rewards,
		DisplayOrder:    input.DisplayOrder,
		CreatedBy:       input.CreatedBy,
	}
	return s.catalog.Create(ctx, nil, row)
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, input UpdateAchievementInput) (*achv.Achievement, error) {
	existing, err := s.catalog.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil && *input.Name != existing.Name {
		if taken, err := s.isNameTaken(ctx, *input.Name, id); err != nil {
			return nil, err
		} else if taken {
			return nil, fmt.Errorf("%w: achievement name already taken", pkgerrors.ErrConflict)
		}
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.LongDescription != nil {
		fields["long_description"] = *input.LongDescription
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.Difficulty != nil {
		fields["difficulty"] = *input.Difficulty
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.Visibility != nil {
		fields["visibility"] = *input.Visibility
	}
	if input.Trigger != nil {
		fields["trigger"] = datatypes.NewJSONType(*input.Trigger)
	}
	if input.Badge != nil {
		fields["badge"] = datatypes.NewJSONType(*input.Badge)
	}
	if input.DisplayOrder != nil {
		fields["display_order"] = *input.DisplayOrder
	}
	if input.UpdatedBy != "" {
		fields["updated_by"] = input.UpdatedBy
	}
	if len(fields) == 0 {
		return existing, nil
	}

	if err := s.catalog.Update(ctx, nil, id, fields); err != nil {
		return nil, err
	}
	return s.catalog.GetByID(ctx, nil, id)
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.catalog.Delete(ctx, nil, id)
}

func (s *catalogService) isNameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	existing, err := s.catalog.GetByName(ctx, nil, name)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != excludeID, nil
}

func orDefault[T ~string](v, def T) T {
	if v == "" {
		return def
	}
	return v
}
