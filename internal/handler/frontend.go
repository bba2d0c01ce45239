package handler

import (
	"errors"
	"html/template"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/hus-nain/portfolio-go/internal/model"
	"github.com/hus-nain/portfolio-go/internal/render"
	"github.com/hus-nain/portfolio-go/internal/service"
)

// HomeData is the view model for the home page.
type HomeData struct {
	Profile  model.Profile
	Bio      template.HTML
	Featured []model.Project
	Skills   []model.Skill
}

// Home handles GET /.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profile.Get(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}
	featured, err := h.projects.ListFeatured(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}
	skills, err := h.skills.List(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}

	h.renderPage(w, r, "public/home", render.TemplateData{
		Title:   profile.Name,
		Profile: &profile,
		Data: HomeData{
			Profile:  profile,
			Bio:      render.Markdown(profile.Bio),
			Featured: featured,
			Skills:   skills,
		},
	})
}

// ProjectsData is the view model for the projects listing page.
type ProjectsData struct {
	Projects   []model.Project
	Categories []string
}

// Projects handles GET /projects. Category filtering, search, and the
// visible-count pagination happen client-side over the full rendered list.
func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}

	h.renderPage(w, r, "public/projects", render.TemplateData{
		Title: "Projects",
		Data: ProjectsData{
			Projects:   projects,
			Categories: distinctCategories(projects),
		},
	})
}

// ProjectDetailData is the view model for a single project page.
type ProjectDetailData struct {
	Project     model.Project
	Description template.HTML
}

// ProjectDetail handles GET /projects/{slug}.
func (h *Handler) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.renderServerError(w, r, err)
		return
	}

	h.renderPage(w, r, "public/project_detail", render.TemplateData{
		Title: project.Title,
		Data: ProjectDetailData{
			Project:     project,
			Description: render.Markdown(project.Description),
		},
	})
}

// Skills handles GET /skills.
func (h *Handler) Skills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skills.List(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}

	h.renderPage(w, r, "public/skills", render.TemplateData{
		Title: "Skills",
		Data:  skills,
	})
}

// ContactData is the view model for the contact page.
type ContactData struct {
	Profile model.Profile
	Name    string
	Email   string
	Message string
}

// ContactForm handles GET /contact.
func (h *Handler) ContactForm(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profile.Get(r.Context())
	if err != nil {
		h.renderServerError(w, r, err)
		return
	}

	flash, flashType := flashFromQuery(r)
	h.renderPage(w, r, "public/contact", render.TemplateData{
		Title:     "Contact",
		Flash:     flash,
		FlashType: flashType,
		Data:      ContactData{Profile: profile},
	})
}

// ContactSubmit handles POST /contact. Validation failures re-render the
// form with the submitted values and field errors.
func (h *Handler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/contact?flash=error", http.StatusSeeOther)
		return
	}

	input := service.ContactInput{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}

	if err := h.contact.Send(r.Context(), input); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			profile, perr := h.profile.Get(r.Context())
			if perr != nil {
				h.renderServerError(w, r, perr)
				return
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			h.renderPage(w, r, "public/contact", render.TemplateData{
				Title:  "Contact",
				Errors: verr.Fields,
				Data: ContactData{
					Profile: profile,
					Name:    input.Name,
					Email:   input.Email,
					Message: input.Message,
				},
			})
			return
		}
		if errors.Is(err, service.ErrMailNotConfigured) {
			http.Redirect(w, r, "/contact?flash=error", http.StatusSeeOther)
			return
		}
		h.renderServerError(w, r, err)
		return
	}

	http.Redirect(w, r, "/contact?flash=sent", http.StatusSeeOther)
}

// distinctCategories returns the sorted set of categories across projects.
func distinctCategories(projects []model.Project) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range projects {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories
}
