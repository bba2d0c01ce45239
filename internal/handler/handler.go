// Package handler provides the server-rendered public site and admin panel.
package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/hus-nain/portfolio-go/internal/imagehost"
	"github.com/hus-nain/portfolio-go/internal/mailer"
	"github.com/hus-nain/portfolio-go/internal/render"
	"github.com/hus-nain/portfolio-go/internal/service"
)

// Handler holds shared dependencies for all page handlers.
type Handler struct {
	renderer *render.Renderer
	projects *service.ProjectService
	skills   *service.SkillService
	profile  *service.ProfileService
	contact  *service.ContactService
}

// New creates a page handler wired to the domain services.
func New(db *sql.DB, renderer *render.Renderer, images imagehost.Client, mail mailer.Mailer) *Handler {
	return &Handler{
		renderer: renderer,
		projects: service.NewProjectService(db, images),
		skills:   service.NewSkillService(db),
		profile:  service.NewProfileService(db, images),
		contact:  service.NewContactService(mail),
	}
}

// renderPage renders a template, falling back to a plain 500 on render failure.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, name string, data render.TemplateData) {
	if err := h.renderer.Render(w, r, name, data); err != nil {
		slog.Error("render error", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// renderServerError renders the error page with a 500 status.
func (h *Handler) renderServerError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("page handler error", "path", r.URL.Path, "error", err)
	w.WriteHeader(http.StatusInternalServerError)
	h.renderPage(w, r, "public/error", render.TemplateData{
		Title: "Something went wrong",
		Data:  "Something went wrong. Please try again later.",
	})
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	h.renderPage(w, r, "public/error", render.TemplateData{
		Title: "Page not found",
		Data:  "The page you are looking for does not exist.",
	})
}

// flashFromQuery maps the flash query parameter set by redirects onto a
// user-facing message.
func flashFromQuery(r *http.Request) (message, flashType string) {
	switch r.URL.Query().Get("flash") {
	case "saved":
		return "Changes saved.", "success"
	case "created":
		return "Created successfully.", "success"
	case "deleted":
		return "Deleted successfully.", "success"
	case "sent":
		return "Your message has been sent.", "success"
	case "error":
		return "Something went wrong. Please try again.", "error"
	}
	return "", ""
}
