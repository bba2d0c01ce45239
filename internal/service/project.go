package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hus-nain/portfolio-go/internal/imagehost"
	"github.com/hus-nain/portfolio-go/internal/imaging"
	"github.com/hus-nain/portfolio-go/internal/model"
	"github.com/hus-nain/portfolio-go/internal/store"
	"github.com/hus-nain/portfolio-go/internal/util"
)

// ProjectService manages the project collection and its remote image assets.
type ProjectService struct {
	queries *store.Queries
	images  imagehost.Client
}

// NewProjectService creates a ProjectService.
func NewProjectService(db *sql.DB, images imagehost.Client) *ProjectService {
	return &ProjectService{queries: store.New(db), images: images}
}

// List returns all projects ordered by position, newest first within a
// position.
func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	return s.queries.ListProjects(ctx)
}

// ListFeatured returns the featured subset in the same relative order.
func (s *ProjectService) ListFeatured(ctx context.Context) ([]model.Project, error) {
	return s.queries.ListFeaturedProjects(ctx)
}

// GetBySlug returns one project by slug.
func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (model.Project, error) {
	project, err := s.queries.GetProjectBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	return project, err
}

// GetByID returns one project by ID.
func (s *ProjectService) GetByID(ctx context.Context, id int64) (model.Project, error) {
	project, err := s.queries.GetProjectByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	return project, err
}

// CreateProjectInput holds the fields submitted for a new project. Tech is
// comma-joined, as the admin UI serializes its tag list. Image is the raw
// uploaded file, if any.
type CreateProjectInput struct {
	Title       string
	Description string
	Tech        string
	Category    string
	Status      string
	DemoURL     string
	GithubURL   string
	Featured    bool
	Position    int64
	Image       []byte
}

// Create validates input, derives the slug, uploads the image if present, and
// inserts the project. A project created with status Live must carry an
// image; this is enforced at creation only.
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (model.Project, error) {
	fields := fieldErrors{}
	fields.requireNonEmpty("title", input.Title, "Title is required")
	fields.requireNonEmpty("description", input.Description, "Description is required")
	fields.requireNonEmpty("tech", input.Tech, "Technologies are required")
	fields.requireNonEmpty("category", input.Category, "Category is required")

	status := input.Status
	if status == "" {
		status = model.StatusLive
	}
	if !model.IsValidProjectStatus(status) {
		fields["status"] = "Unknown status"
	}

	if status == model.StatusLive && len(input.Image) == 0 {
		fields["image"] = "Image is required for Live projects"
	}

	slug := util.Slugify(input.Title)
	if _, ok := fields["title"]; !ok && slug == "" {
		fields["title"] = "Title must contain letters or digits"
	}

	if err := fields.toError(); err != nil {
		return model.Project{}, err
	}

	count, err := s.queries.CountProjectsBySlug(ctx, slug)
	if err != nil {
		return model.Project{}, fmt.Errorf("checking slug: %w", err)
	}
	if count > 0 {
		return model.Project{}, ErrDuplicateSlug
	}

	var asset imagehost.Asset
	if len(input.Image) > 0 {
		asset, err = s.uploadProjectImage(ctx, input.Image)
		if err != nil {
			return model.Project{}, err
		}
	}

	project, err := s.queries.CreateProject(ctx, store.CreateProjectParams{
		Title:        input.Title,
		Slug:         slug,
		Description:  input.Description,
		Tech:         SplitList(input.Tech),
		Image:        asset.URL,
		ImageAssetID: asset.ID,
		DemoURL:      input.DemoURL,
		GithubURL:    input.GithubURL,
		Category:     input.Category,
		Status:       status,
		Featured:     input.Featured,
		Position:     input.Position,
	})
	if err != nil {
		// The uploaded asset has no owner if the insert loses the race;
		// release it rather than orphan it.
		imagehost.DestroyQuietly(ctx, s.images, asset.ID)
		if isUniqueViolation(err) {
			return model.Project{}, ErrDuplicateSlug
		}
		return model.Project{}, fmt.Errorf("creating project: %w", err)
	}

	return project, nil
}

// UpdateProjectInput holds partial fields for an update. Nil pointers leave
// the current value untouched; a non-empty Image replaces the remote asset.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	Tech        *string
	Category    *string
	Status      *string
	DemoURL     *string
	GithubURL   *string
	Featured    *bool
	Position    *int64
	Image       []byte
}

// Update applies the provided fields to an existing project. A title change
// recomputes the slug and re-checks uniqueness against all other projects.
func (s *ProjectService) Update(ctx context.Context, id int64, input UpdateProjectInput) (model.Project, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return model.Project{}, err
	}

	params := store.UpdateProjectParams{
		ID:           current.ID,
		Title:        current.Title,
		Slug:         current.Slug,
		Description:  current.Description,
		Tech:         current.Tech,
		Image:        current.Image,
		ImageAssetID: current.ImageAssetID,
		DemoURL:      current.DemoURL,
		GithubURL:    current.GithubURL,
		Category:     current.Category,
		Status:       current.Status,
		Featured:     current.Featured,
		Position:     current.Position,
	}

	if input.Title != nil {
		fields := fieldErrors{}
		fields.requireNonEmpty("title", *input.Title, "Title is required")
		if err := fields.toError(); err != nil {
			return model.Project{}, err
		}

		slug := util.Slugify(*input.Title)
		if slug == "" {
			return model.Project{}, &ValidationError{Fields: map[string]string{
				"title": "Title must contain letters or digits",
			}}
		}
		if slug != current.Slug {
			count, err := s.queries.CountProjectsBySlugExcluding(ctx, slug, current.ID)
			if err != nil {
				return model.Project{}, fmt.Errorf("checking slug: %w", err)
			}
			if count > 0 {
				return model.Project{}, ErrDuplicateSlug
			}
		}
		params.Title = *input.Title
		params.Slug = slug
	}
	if input.Description != nil {
		params.Description = *input.Description
	}
	if input.Tech != nil {
		params.Tech = SplitList(*input.Tech)
	}
	if input.Category != nil {
		params.Category = *input.Category
	}
	if input.Status != nil {
		if !model.IsValidProjectStatus(*input.Status) {
			return model.Project{}, &ValidationError{Fields: map[string]string{
				"status": "Unknown status",
			}}
		}
		params.Status = *input.Status
	}
	if input.DemoURL != nil {
		params.DemoURL = *input.DemoURL
	}
	if input.GithubURL != nil {
		params.GithubURL = *input.GithubURL
	}
	if input.Featured != nil {
		params.Featured = *input.Featured
	}
	if input.Position != nil {
		params.Position = *input.Position
	}

	if len(input.Image) > 0 {
		asset, err := s.uploadReplacementImage(ctx, current.ImageAssetID, input.Image)
		if err != nil {
			return model.Project{}, err
		}
		params.Image = asset.URL
		params.ImageAssetID = asset.ID
	}

	updated, err := s.queries.UpdateProject(ctx, params)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Project{}, ErrDuplicateSlug
		}
		if errors.Is(err, sql.ErrNoRows) {
			return model.Project{}, ErrNotFound
		}
		return model.Project{}, fmt.Errorf("updating project: %w", err)
	}
	return updated, nil
}

// Delete removes a project, first issuing a best-effort delete of its remote
// image asset. Asset deletion failure never blocks record deletion.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	imagehost.DestroyQuietly(ctx, s.images, current.ImageAssetID)

	if err := s.queries.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func (s *ProjectService) uploadProjectImage(ctx context.Context, data []byte) (imagehost.Asset, error) {
	bounded, err := imaging.Bound(data)
	if err != nil {
		return imagehost.Asset{}, &ValidationError{Fields: map[string]string{
			"image": "File is not a supported image",
		}}
	}
	return s.images.Upload(ctx, bounded, imagehost.FolderProjects, imagehost.ProjectTransformation)
}

func (s *ProjectService) uploadReplacementImage(ctx context.Context, oldAssetID string, data []byte) (imagehost.Asset, error) {
	bounded, err := imaging.Bound(data)
	if err != nil {
		return imagehost.Asset{}, &ValidationError{Fields: map[string]string{
			"image": "File is not a supported image",
		}}
	}
	return imagehost.Replace(ctx, s.images, oldAssetID, bounded, imagehost.FolderProjects, imagehost.ProjectTransformation)
}
