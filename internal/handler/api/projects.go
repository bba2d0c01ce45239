package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hus-nain/portfolio-go/internal/service"
)

// ListProjects handles GET /api/projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, projects)
}

// ListFeaturedProjects handles GET /api/projects/featured.
func (h *Handler) ListFeaturedProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.ListFeatured(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, projects)
}

// GetProject handles GET /api/projects/{slug}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, project)
}

// CreateProject handles POST /api/projects. The request is a multipart form
// with an optional "image" file part.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r) {
		return
	}

	image, err := formFile(r, "image")
	if err != nil {
		writeFileError(w, "image", err)
		return
	}

	input := service.CreateProjectInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Tech:        r.FormValue("tech"),
		Category:    r.FormValue("category"),
		Status:      r.FormValue("status"),
		DemoURL:     r.FormValue("demo_url"),
		GithubURL:   r.FormValue("github_url"),
		Featured:    parseBool(r.FormValue("featured")),
		Image:       image,
	}
	if position := r.FormValue("order"); position != "" {
		value, err := strconv.ParseInt(position, 10, 64)
		if err != nil {
			WriteValidationError(w, map[string]string{"order": "Order must be a whole number"})
			return
		}
		input.Position = value
	}

	project, err := h.projects.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, project)
}

// UpdateProject handles PUT /api/projects/{id}. Only submitted fields are
// applied; everything else keeps its stored value.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}

	if !parseMultipart(w, r) {
		return
	}

	image, err := formFile(r, "image")
	if err != nil {
		writeFileError(w, "image", err)
		return
	}

	input := service.UpdateProjectInput{
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Tech:        formValue(r, "tech"),
		Category:    formValue(r, "category"),
		Status:      formValue(r, "status"),
		DemoURL:     formValue(r, "demo_url"),
		GithubURL:   formValue(r, "github_url"),
		Image:       image,
	}
	if featured := formValue(r, "featured"); featured != nil {
		value := parseBool(*featured)
		input.Featured = &value
	}
	if position := formValue(r, "order"); position != nil {
		value, err := strconv.ParseInt(*position, 10, 64)
		if err != nil {
			WriteValidationError(w, map[string]string{"order": "Order must be a whole number"})
			return
		}
		input.Position = &value
	}

	project, err := h.projects.Update(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, project)
}

// DeleteProject handles DELETE /api/projects/{id}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, map[string]string{"message": "Project removed"})
}
