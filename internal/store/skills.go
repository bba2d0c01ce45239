package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/hus-nain/portfolio-go/internal/model"
)

const skillColumns = `id, name, items, position, created_at, updated_at`

func scanSkill(row interface{ Scan(...any) error }) (model.Skill, error) {
	var s model.Skill
	var items string
	err := row.Scan(&s.ID, &s.Name, &items, &s.Position, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Skill{}, err
	}
	s.Items = unmarshalList(items)
	return s, nil
}

// ListSkills returns all skills ordered by position ascending, then most
// recently created first.
func (q *Queries) ListSkills(ctx context.Context) ([]model.Skill, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+skillColumns+` FROM skills
		ORDER BY position ASC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := []model.Skill{}
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// GetSkillByID returns the skill with the given ID.
func (q *Queries) GetSkillByID(ctx context.Context, id int64) (model.Skill, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = ?`, id)
	return scanSkill(row)
}

// CountSkillsByName returns how many skills carry the given name.
func (q *Queries) CountSkillsByName(ctx context.Context, name string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM skills WHERE name = ?`, name).Scan(&count)
	return count, err
}

// CountSkillsByNameExcluding returns how many skills other than excludeID
// carry the given name.
func (q *Queries) CountSkillsByNameExcluding(ctx context.Context, name string, excludeID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM skills WHERE name = ? AND id != ?`, name, excludeID).Scan(&count)
	return count, err
}

// CreateSkillParams holds the fields for a new skill.
type CreateSkillParams struct {
	Name     string
	Items    []string
	Position int64
}

// CreateSkill inserts a new skill and returns it.
func (q *Queries) CreateSkill(ctx context.Context, arg CreateSkillParams) (model.Skill, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO skills (name, items, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Name, marshalList(arg.Items), arg.Position, now, now)
	if err != nil {
		return model.Skill{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Skill{}, err
	}
	return q.GetSkillByID(ctx, id)
}

// UpdateSkillParams holds the full field set written by UpdateSkill.
type UpdateSkillParams struct {
	ID       int64
	Name     string
	Items    []string
	Position int64
}

// UpdateSkill overwrites a skill row and returns the updated record.
func (q *Queries) UpdateSkill(ctx context.Context, arg UpdateSkillParams) (model.Skill, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE skills SET name = ?, items = ?, position = ?, updated_at = ? WHERE id = ?`,
		arg.Name, marshalList(arg.Items), arg.Position, time.Now().UTC(), arg.ID)
	if err != nil {
		return model.Skill{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Skill{}, err
	}
	if affected == 0 {
		return model.Skill{}, sql.ErrNoRows
	}
	return q.GetSkillByID(ctx, arg.ID)
}

// DeleteSkill removes a skill row. Returns sql.ErrNoRows if absent.
func (q *Queries) DeleteSkill(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM skills WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
