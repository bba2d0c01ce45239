package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hus-nain/portfolio-go/internal/middleware"
	"github.com/hus-nain/portfolio-go/internal/model"
	"github.com/hus-nain/portfolio-go/internal/render"
	"github.com/hus-nain/portfolio-go/internal/service"
)

// maxFormUploadSize bounds multipart admin form bodies.
const maxFormUploadSize = 10 << 20 // 10 MB

// DashboardData is the view model for the admin dashboard.
type DashboardData struct {
	ProjectCount int
	SkillCount   int
	Projects     []model.Project
}

// Dashboard handles GET /admin.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}
	skills, err := h.skills.List(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}

	flash, flashType := flashFromQuery(r)
	h.renderPage(w, r, "admin/dashboard", render.TemplateData{
		Title:     "Dashboard",
		User:      middleware.GetUser(r),
		Flash:     flash,
		FlashType: flashType,
		Data: DashboardData{
			ProjectCount: len(projects),
			SkillCount:   len(skills),
			Projects:     projects,
		},
	})
}

// AdminProjects handles GET /admin/projects.
func (h *Handler) AdminProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}

	flash, flashType := flashFromQuery(r)
	h.renderPage(w, r, "admin/projects", render.TemplateData{
		Title:     "Projects",
		User:      middleware.GetUser(r),
		Flash:     flash,
		FlashType: flashType,
		Data:      projects,
	})
}

// ProjectFormData is the view model for the project create/edit form.
type ProjectFormData struct {
	Project  model.Project
	Statuses []string
	IsEdit   bool
}

// AdminProjectNew handles GET /admin/projects/new.
func (h *Handler) AdminProjectNew(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "admin/project_form", render.TemplateData{
		Title: "New project",
		User:  middleware.GetUser(r),
		Data: ProjectFormData{
			Project:  model.Project{Status: model.StatusLive},
			Statuses: model.ProjectStatuses,
		},
	})
}

// AdminProjectCreate handles POST /admin/projects. HTML forms can't send
// PUT, so the admin panel uses POST throughout.
func (h *Handler) AdminProjectCreate(w http.ResponseWriter, r *http.Request) {
	input, image, err := h.parseProjectForm(r)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.renderProjectFormError(w, r, projectFromCreateInput(input), false, err)
			return
		}
		http.Redirect(w, r, "/admin/projects?flash=error", http.StatusSeeOther)
		return
	}
	input.Image = image

	if _, err := h.projects.Create(r.Context(), input); err != nil {
		h.renderProjectFormError(w, r, projectFromCreateInput(input), false, err)
		return
	}

	http.Redirect(w, r, "/admin/projects?flash=created", http.StatusSeeOther)
}

// AdminProjectEdit handles GET /admin/projects/{id}/edit.
func (h *Handler) AdminProjectEdit(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProjectParam(w, r)
	if !ok {
		return
	}

	h.renderPage(w, r, "admin/project_form", render.TemplateData{
		Title: "Edit project",
		User:  middleware.GetUser(r),
		Data: ProjectFormData{
			Project:  project,
			Statuses: model.ProjectStatuses,
			IsEdit:   true,
		},
	})
}

// AdminProjectUpdate handles POST /admin/projects/{id}. The whole form is
// submitted, so every field overwrites; an empty file input leaves the
// stored image untouched.
func (h *Handler) AdminProjectUpdate(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProjectParam(w, r)
	if !ok {
		return
	}

	input, image, err := h.parseProjectForm(r)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			merged := projectFromCreateInput(input)
			merged.ID = project.ID
			h.renderProjectFormError(w, r, merged, true, err)
			return
		}
		http.Redirect(w, r, "/admin/projects?flash=error", http.StatusSeeOther)
		return
	}

	update := service.UpdateProjectInput{
		Title:       &input.Title,
		Description: &input.Description,
		Tech:        &input.Tech,
		Category:    &input.Category,
		Status:      &input.Status,
		DemoURL:     &input.DemoURL,
		GithubURL:   &input.GithubURL,
		Featured:    &input.Featured,
		Position:    &input.Position,
		Image:       image,
	}

	if _, err := h.projects.Update(r.Context(), project.ID, update); err != nil {
		merged := projectFromCreateInput(input)
		merged.ID = project.ID
		h.renderProjectFormError(w, r, merged, true, err)
		return
	}

	http.Redirect(w, r, "/admin/projects?flash=saved", http.StatusSeeOther)
}

// AdminProjectDelete handles POST /admin/projects/{id}/delete.
func (h *Handler) AdminProjectDelete(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProjectParam(w, r)
	if !ok {
		return
	}

	if err := h.projects.Delete(r.Context(), project.ID); err != nil {
		h.renderServerError(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/projects?flash=deleted", http.StatusSeeOther)
}

// AdminSkills handles GET /admin/skills.
func (h *Handler) AdminSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skills.List(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}

	flash, flashType := flashFromQuery(r)
	h.renderPage(w, r, "admin/skills", render.TemplateData{
		Title:     "Skills",
		User:      middleware.GetUser(r),
		Flash:     flash,
		FlashType: flashType,
		Data:      skills,
	})
}

// SkillFormData is the view model for the skill create/edit form.
type SkillFormData struct {
	Skill  model.Skill
	Items  string
	IsEdit bool
}

// AdminSkillNew handles GET /admin/skills/new.
func (h *Handler) AdminSkillNew(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "admin/skill_form", render.TemplateData{
		Title: "New skill",
		User:  middleware.GetUser(r),
		Data:  SkillFormData{},
	})
}

// AdminSkillCreate handles POST /admin/skills.
func (h *Handler) AdminSkillCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin/skills?flash=error", http.StatusSeeOther)
		return
	}

	input := service.CreateSkillInput{
		Name:  r.FormValue("name"),
		Items: r.FormValue("items"),
	}
	if position := r.FormValue("order"); position != "" {
		value, err := strconv.ParseInt(position, 10, 64)
		if err != nil {
			verr := &service.ValidationError{Fields: map[string]string{"order": "Order must be a whole number"}}
			h.renderSkillFormError(w, r, model.Skill{Name: input.Name}, input.Items, false, verr)
			return
		}
		input.Position = value
	}

	if _, err := h.skills.Create(r.Context(), input); err != nil {
		h.renderSkillFormError(w, r, model.Skill{Name: input.Name, Position: input.Position}, input.Items, false, err)
		return
	}

	http.Redirect(w, r, "/admin/skills?flash=created", http.StatusSeeOther)
}

// AdminSkillEdit handles GET /admin/skills/{id}/edit.
func (h *Handler) AdminSkillEdit(w http.ResponseWriter, r *http.Request) {
	skill, ok := h.loadSkillParam(w, r)
	if !ok {
		return
	}

	h.renderPage(w, r, "admin/skill_form", render.TemplateData{
		Title: "Edit skill",
		User:  middleware.GetUser(r),
		Data: SkillFormData{
			Skill:  skill,
			Items:  joinItems(skill.Items),
			IsEdit: true,
		},
	})
}

// AdminSkillUpdate handles POST /admin/skills/{id}.
func (h *Handler) AdminSkillUpdate(w http.ResponseWriter, r *http.Request) {
	skill, ok := h.loadSkillParam(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin/skills?flash=error", http.StatusSeeOther)
		return
	}

	name := r.FormValue("name")
	items := r.FormValue("items")
	update := service.UpdateSkillInput{Name: &name, Items: &items}
	if position := r.FormValue("order"); position != "" {
		value, err := strconv.ParseInt(position, 10, 64)
		if err != nil {
			verr := &service.ValidationError{Fields: map[string]string{"order": "Order must be a whole number"}}
			merged := skill
			merged.Name = name
			h.renderSkillFormError(w, r, merged, items, true, verr)
			return
		}
		update.Position = &value
	}

	if _, err := h.skills.Update(r.Context(), skill.ID, update); err != nil {
		merged := skill
		merged.Name = name
		h.renderSkillFormError(w, r, merged, items, true, err)
		return
	}

	http.Redirect(w, r, "/admin/skills?flash=saved", http.StatusSeeOther)
}

// AdminSkillDelete handles POST /admin/skills/{id}/delete.
func (h *Handler) AdminSkillDelete(w http.ResponseWriter, r *http.Request) {
	skill, ok := h.loadSkillParam(w, r)
	if !ok {
		return
	}

	if err := h.skills.Delete(r.Context(), skill.ID); err != nil {
		h.renderServerError(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/skills?flash=deleted", http.StatusSeeOther)
}

// AdminProfile handles GET /admin/profile.
func (h *Handler) AdminProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profile.Get(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}

	flash, flashType := flashFromQuery(r)
	h.renderPage(w, r, "admin/profile", render.TemplateData{
		Title:     "Profile",
		User:      middleware.GetUser(r),
		Flash:     flash,
		FlashType: flashType,
		Data:      profile,
	})
}

// AdminProfileUpdate handles POST /admin/profile. Multipart; an empty
// picture input keeps the stored picture.
func (h *Handler) AdminProfileUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormUploadSize); err != nil {
		http.Redirect(w, r, "/admin/profile?flash=error", http.StatusSeeOther)
		return
	}

	picture, err := readFormFile(r, "picture")
	if err != nil {
		if errors.Is(err, errFormFileTooLarge) {
			h.renderProfileFormError(w, r, map[string]string{"picture": "File exceeds the 10 MB upload limit"})
			return
		}
		http.Redirect(w, r, "/admin/profile?flash=error", http.StatusSeeOther)
		return
	}

	name := r.FormValue("name")
	title := r.FormValue("title")
	subtitle := r.FormValue("subtitle")
	bio := r.FormValue("bio")
	contactEmail := r.FormValue("contact_email")
	github := r.FormValue("github")
	linkedin := r.FormValue("linkedin")
	twitter := r.FormValue("twitter")
	website := r.FormValue("website")
	instagram := r.FormValue("instagram")

	_, err = h.profile.Update(r.Context(), service.UpdateProfileInput{
		Name:         &name,
		Title:        &title,
		Subtitle:     &subtitle,
		Bio:          &bio,
		ContactEmail: &contactEmail,
		Github:       &github,
		Linkedin:     &linkedin,
		Twitter:      &twitter,
		Website:      &website,
		Instagram:    &instagram,
		Picture:      picture,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.renderProfileFormError(w, r, verr.Fields)
			return
		}
		h.renderServerError(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/profile?flash=saved", http.StatusSeeOther)
}

// renderProfileFormError re-renders the profile form with field errors.
func (h *Handler) renderProfileFormError(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	profile, err := h.profile.Get(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	h.renderPage(w, r, "admin/profile", render.TemplateData{
		Title:  "Profile",
		User:   middleware.GetUser(r),
		Errors: fields,
		Data:   profile,
	})
}

// AdminResumeUpload handles POST /admin/profile/resume.
func (h *Handler) AdminResumeUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormUploadSize); err != nil {
		http.Redirect(w, r, "/admin/profile?flash=error", http.StatusSeeOther)
		return
	}

	resume, err := readFormFile(r, "resume")
	if err != nil || len(resume) == 0 {
		http.Redirect(w, r, "/admin/profile?flash=error", http.StatusSeeOther)
		return
	}

	if _, err := h.profile.UploadResume(r.Context(), resume); err != nil {
		h.renderServerError(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/profile?flash=saved", http.StatusSeeOther)
}

// parseProjectForm parses the shared project form fields. A
// *service.ValidationError return carries field errors for re-rendering the
// form; any other error means the form could not be read at all.
func (h *Handler) parseProjectForm(r *http.Request) (service.CreateProjectInput, []byte, error) {
	if err := r.ParseMultipartForm(maxFormUploadSize); err != nil {
		return service.CreateProjectInput{}, nil, err
	}

	input := service.CreateProjectInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Tech:        r.FormValue("tech"),
		Category:    r.FormValue("category"),
		Status:      r.FormValue("status"),
		DemoURL:     r.FormValue("demo_url"),
		GithubURL:   r.FormValue("github_url"),
		Featured:    r.FormValue("featured") != "",
	}
	if position := r.FormValue("order"); position != "" {
		value, err := strconv.ParseInt(position, 10, 64)
		if err != nil {
			return input, nil, &service.ValidationError{Fields: map[string]string{"order": "Order must be a whole number"}}
		}
		input.Position = value
	}

	image, err := readFormFile(r, "image")
	if err != nil {
		if errors.Is(err, errFormFileTooLarge) {
			return input, nil, &service.ValidationError{Fields: map[string]string{"image": "File exceeds the 10 MB upload limit"}}
		}
		return input, nil, err
	}

	return input, image, nil
}

// renderProjectFormError re-renders the project form with field errors.
func (h *Handler) renderProjectFormError(w http.ResponseWriter, r *http.Request, project model.Project, isEdit bool, err error) {
	fields, ok := formErrors(err)
	if !ok {
		h.renderServerError(w, r, err)
		return
	}

	title := "New project"
	if isEdit {
		title = "Edit project"
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	h.renderPage(w, r, "admin/project_form", render.TemplateData{
		Title:  title,
		User:   middleware.GetUser(r),
		Errors: fields,
		Data: ProjectFormData{
			Project:  project,
			Statuses: model.ProjectStatuses,
			IsEdit:   isEdit,
		},
	})
}

// renderSkillFormError re-renders the skill form with field errors.
func (h *Handler) renderSkillFormError(w http.ResponseWriter, r *http.Request, skill model.Skill, items string, isEdit bool, err error) {
	fields, ok := formErrors(err)
	if !ok {
		h.renderServerError(w, r, err)
		return
	}

	title := "New skill"
	if isEdit {
		title = "Edit skill"
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	h.renderPage(w, r, "admin/skill_form", render.TemplateData{
		Title:  title,
		User:   middleware.GetUser(r),
		Errors: fields,
		Data: SkillFormData{
			Skill:  skill,
			Items:  items,
			IsEdit: isEdit,
		},
	})
}

// formErrors converts service errors to template field errors.
func formErrors(err error) (map[string]string, bool) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Fields, true
	case errors.Is(err, service.ErrDuplicateSlug):
		return map[string]string{"title": "A project with this name already exists"}, true
	case errors.Is(err, service.ErrDuplicateName):
		return map[string]string{"name": "A skill with this name already exists"}, true
	}
	return nil, false
}

// loadProjectParam loads the project named by the {id} URL parameter.
func (h *Handler) loadProjectParam(w http.ResponseWriter, r *http.Request) (model.Project, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.NotFound(w, r)
		return model.Project{}, false
	}

	project, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.NotFound(w, r)
		} else {
			h.renderServerError(w, r, err)
		}
		return model.Project{}, false
	}
	return project, true
}

// loadSkillParam loads the skill named by the {id} URL parameter.
func (h *Handler) loadSkillParam(w http.ResponseWriter, r *http.Request) (model.Skill, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.NotFound(w, r)
		return model.Skill{}, false
	}

	skill, err := h.skills.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.NotFound(w, r)
		} else {
			h.renderServerError(w, r, err)
		}
		return model.Skill{}, false
	}
	return skill, true
}

// errFormFileTooLarge reports an upload exceeding maxFormUploadSize.
var errFormFileTooLarge = errors.New("file exceeds upload size limit")

// readFormFile reads an optional uploaded file fully into memory. Returns
// errFormFileTooLarge when the file exceeds maxFormUploadSize.
func readFormFile(r *http.Request, key string) ([]byte, error) {
	file, _, err := r.FormFile(key)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxFormUploadSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxFormUploadSize {
		return nil, errFormFileTooLarge
	}
	return data, nil
}

// projectFromCreateInput rebuilds a Project view from submitted form values
// so a failed submission re-renders with what the user typed.
func projectFromCreateInput(input service.CreateProjectInput) model.Project {
	return model.Project{
		Title:       input.Title,
		Description: input.Description,
		Tech:        service.SplitList(input.Tech),
		Category:    input.Category,
		Status:      input.Status,
		DemoURL:     input.DemoURL,
		GithubURL:   input.GithubURL,
		Featured:    input.Featured,
		Position:    input.Position,
	}
}

// joinItems renders a list back to the comma-separated form representation.
func joinItems(items []string) string {
	return strings.Join(items, ", ")
}
