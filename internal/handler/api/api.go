// Package api provides the JSON REST API handlers.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hus-nain/portfolio-go/internal/auth"
	"github.com/hus-nain/portfolio-go/internal/imagehost"
	"github.com/hus-nain/portfolio-go/internal/mailer"
	"github.com/hus-nain/portfolio-go/internal/middleware"
	"github.com/hus-nain/portfolio-go/internal/service"
	"github.com/hus-nain/portfolio-go/internal/store"
	"github.com/hus-nain/portfolio-go/internal/version"
)

// maxUploadSize bounds multipart request bodies (images, resumes).
const maxUploadSize = 10 << 20 // 10 MB

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	queries  *store.Queries
	projects *service.ProjectService
	skills   *service.SkillService
	profile  *service.ProfileService
	contact  *service.ContactService
	tokens   *auth.TokenService
	lockout  *middleware.LoginProtection
}

// NewHandler creates a new API handler wired to the domain services.
func NewHandler(db *sql.DB, images imagehost.Client, mail mailer.Mailer, tokens *auth.TokenService, lockout *middleware.LoginProtection) *Handler {
	return &Handler{
		queries:  store.New(db),
		projects: service.NewProjectService(db, images),
		skills:   service.NewSkillService(db),
		profile:  service.NewProfileService(db, images),
		contact:  service.NewContactService(mail),
		tokens:   tokens,
		lockout:  lockout,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any `json:"data,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Data: data})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, nil)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// writeServiceError maps a service-layer error onto the HTTP error envelope.
// Unexpected errors are logged and surfaced as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, "Resource not found")
	case errors.Is(err, service.ErrDuplicateSlug):
		WriteValidationError(w, map[string]string{"slug": "A project with this name already exists"})
	case errors.Is(err, service.ErrDuplicateName):
		WriteValidationError(w, map[string]string{"name": "A skill with this name already exists"})
	case errors.Is(err, service.ErrMailNotConfigured):
		WriteError(w, http.StatusServiceUnavailable, "mail_not_configured", "Contact mail is not configured", nil)
	case errors.Is(err, imagehost.ErrUploadFailed):
		slog.Error("image host request failed", "error", err, "path", r.URL.Path)
		WriteError(w, http.StatusBadGateway, "upload_failed", "Image upload failed", nil)
	default:
		slog.Error("unexpected API error", "error", err, "method", r.Method, "path", r.URL.Path)
		WriteInternalError(w, "Something went wrong")
	}
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: version.Version,
	})
}

// parseIDParam parses the {id} URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// formValue returns a pointer to the form field value, or nil if the field
// was not submitted. Distinguishing absent from empty keeps partial update
// semantics over multipart forms.
func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// errFileTooLarge reports an upload exceeding maxUploadSize.
var errFileTooLarge = errors.New("file exceeds upload size limit")

// formFile reads an optional uploaded file fully into memory.
// Returns nil bytes when the field is absent and errFileTooLarge
// when the file exceeds maxUploadSize.
func formFile(r *http.Request, key string) ([]byte, error) {
	file, _, err := r.FormFile(key)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxUploadSize {
		return nil, errFileTooLarge
	}
	return data, nil
}

// writeFileError maps a formFile failure onto the error envelope.
func writeFileError(w http.ResponseWriter, field string, err error) {
	if errors.Is(err, errFileTooLarge) {
		WriteValidationError(w, map[string]string{field: "File exceeds the 10 MB upload limit"})
		return
	}
	WriteBadRequest(w, "Invalid "+field+" upload")
}

// parseMultipart parses a multipart form request, writing a 400 on failure.
// Returns false if a response was already written.
func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form")
		return false
	}
	return true
}

// parseBool reads a checkbox-style boolean form value.
func parseBool(s string) bool {
	switch s {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
