package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hus-nain/portfolio-go/internal/model"
	"github.com/hus-nain/portfolio-go/internal/store"
)

// SkillService manages the skill collection.
type SkillService struct {
	queries *store.Queries
}

// NewSkillService creates a SkillService.
func NewSkillService(db *sql.DB) *SkillService {
	return &SkillService{queries: store.New(db)}
}

// List returns all skills ordered by position, newest first within a position.
func (s *SkillService) List(ctx context.Context) ([]model.Skill, error) {
	return s.queries.ListSkills(ctx)
}

// GetByID returns one skill.
func (s *SkillService) GetByID(ctx context.Context, id int64) (model.Skill, error) {
	skill, err := s.queries.GetSkillByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Skill{}, ErrNotFound
	}
	return skill, err
}

// CreateSkillInput holds the fields for a new skill. Items is comma-joined.
type CreateSkillInput struct {
	Name     string
	Items    string
	Position int64
}

// Create validates input, pre-checks name uniqueness, and inserts the skill.
func (s *SkillService) Create(ctx context.Context, input CreateSkillInput) (model.Skill, error) {
	fields := fieldErrors{}
	fields.requireNonEmpty("name", input.Name, "Name is required")
	fields.requireNonEmpty("items", input.Items, "Items are required")
	if err := fields.toError(); err != nil {
		return model.Skill{}, err
	}

	count, err := s.queries.CountSkillsByName(ctx, input.Name)
	if err != nil {
		return model.Skill{}, fmt.Errorf("checking name: %w", err)
	}
	if count > 0 {
		return model.Skill{}, ErrDuplicateName
	}

	skill, err := s.queries.CreateSkill(ctx, store.CreateSkillParams{
		Name:     input.Name,
		Items:    SplitList(input.Items),
		Position: input.Position,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.Skill{}, ErrDuplicateName
		}
		return model.Skill{}, fmt.Errorf("creating skill: %w", err)
	}
	return skill, nil
}

// UpdateSkillInput holds partial fields for an update.
type UpdateSkillInput struct {
	Name     *string
	Items    *string
	Position *int64
}

// Update applies the provided fields to an existing skill. A name change is
// re-checked for uniqueness against all other skills.
func (s *SkillService) Update(ctx context.Context, id int64, input UpdateSkillInput) (model.Skill, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return model.Skill{}, err
	}

	params := store.UpdateSkillParams{
		ID:       current.ID,
		Name:     current.Name,
		Items:    current.Items,
		Position: current.Position,
	}

	if input.Name != nil {
		fields := fieldErrors{}
		fields.requireNonEmpty("name", *input.Name, "Name is required")
		if err := fields.toError(); err != nil {
			return model.Skill{}, err
		}
		if *input.Name != current.Name {
			count, err := s.queries.CountSkillsByNameExcluding(ctx, *input.Name, current.ID)
			if err != nil {
				return model.Skill{}, fmt.Errorf("checking name: %w", err)
			}
			if count > 0 {
				return model.Skill{}, ErrDuplicateName
			}
		}
		params.Name = *input.Name
	}
	if input.Items != nil {
		params.Items = SplitList(*input.Items)
	}
	if input.Position != nil {
		params.Position = *input.Position
	}

	updated, err := s.queries.UpdateSkill(ctx, params)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Skill{}, ErrDuplicateName
		}
		if errors.Is(err, sql.ErrNoRows) {
			return model.Skill{}, ErrNotFound
		}
		return model.Skill{}, fmt.Errorf("updating skill: %w", err)
	}
	return updated, nil
}

// Delete removes a skill.
func (s *SkillService) Delete(ctx context.Context, id int64) error {
	if err := s.queries.DeleteSkill(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting skill: %w", err)
	}
	return nil
}
