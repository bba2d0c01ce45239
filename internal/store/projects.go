package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/hus-nain/portfolio-go/internal/model"
)

const projectColumns = `id, title, slug, description, tech, image, image_asset_id,
	demo_url, github_url, category, status, featured, position, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (model.Project, error) {
	var p model.Project
	var tech string
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &tech, &p.Image,
		&p.ImageAssetID, &p.DemoURL, &p.GithubURL, &p.Category, &p.Status,
		&p.Featured, &p.Position, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Project{}, err
	}
	p.Tech = unmarshalList(tech)
	return p, nil
}

func (q *Queries) queryProjects(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ListProjects returns all projects ordered by position ascending, then most
// recently created first.
func (q *Queries) ListProjects(ctx context.Context) ([]model.Project, error) {
	return q.queryProjects(ctx, `SELECT `+projectColumns+` FROM projects
		ORDER BY position ASC, created_at DESC`)
}

// ListFeaturedProjects returns featured projects in the same order as
// ListProjects.
func (q *Queries) ListFeaturedProjects(ctx context.Context) ([]model.Project, error) {
	return q.queryProjects(ctx, `SELECT `+projectColumns+` FROM projects
		WHERE featured = 1 ORDER BY position ASC, created_at DESC`)
}

// GetProjectBySlug returns the project with the given slug.
func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (model.Project, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = ?`, slug)
	return scanProject(row)
}

// GetProjectByID returns the project with the given ID.
func (q *Queries) GetProjectByID(ctx context.Context, id int64) (model.Project, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// CountProjectsBySlug returns how many projects carry the given slug.
func (q *Queries) CountProjectsBySlug(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// CountProjectsBySlugExcluding returns how many projects other than excludeID
// carry the given slug.
func (q *Queries) CountProjectsBySlugExcluding(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&count)
	return count, err
}

// CreateProjectParams holds the fields for a new project.
type CreateProjectParams struct {
	Title        string
	Slug         string
	Description  string
	Tech         []string
	Image        string
	ImageAssetID string
	DemoURL      string
	GithubURL    string
	Category     string
	Status       string
	Featured     bool
	Position     int64
}

// CreateProject inserts a new project and returns it.
func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (model.Project, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `INSERT INTO projects
		(title, slug, description, tech, image, image_asset_id, demo_url, github_url,
		 category, status, featured, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Description, marshalList(arg.Tech), arg.Image,
		arg.ImageAssetID, arg.DemoURL, arg.GithubURL, arg.Category, arg.Status,
		arg.Featured, arg.Position, now, now)
	if err != nil {
		return model.Project{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Project{}, err
	}
	return q.GetProjectByID(ctx, id)
}

// UpdateProjectParams holds the full field set written by UpdateProject.
// Partial-update merging happens in the service layer before the write.
type UpdateProjectParams struct {
	ID           int64
	Title        string
	Slug         string
	Description  string
	Tech         []string
	Image        string
	ImageAssetID string
	DemoURL      string
	GithubURL    string
	Category     string
	Status       string
	Featured     bool
	Position     int64
}

// UpdateProject overwrites a project row and returns the updated record.
func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (model.Project, error) {
	res, err := q.db.ExecContext(ctx, `UPDATE projects SET
		title = ?, slug = ?, description = ?, tech = ?, image = ?, image_asset_id = ?,
		demo_url = ?, github_url = ?, category = ?, status = ?, featured = ?,
		position = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Slug, arg.Description, marshalList(arg.Tech), arg.Image,
		arg.ImageAssetID, arg.DemoURL, arg.GithubURL, arg.Category, arg.Status,
		arg.Featured, arg.Position, time.Now().UTC(), arg.ID)
	if err != nil {
		return model.Project{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Project{}, err
	}
	if affected == 0 {
		return model.Project{}, sql.ErrNoRows
	}
	return q.GetProjectByID(ctx, arg.ID)
}

// DeleteProject removes a project row. Returns sql.ErrNoRows if absent.
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
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
