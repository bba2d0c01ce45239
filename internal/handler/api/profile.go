package api

import (
	"net/http"

	"github.com/hus-nain/portfolio-go/internal/service"
)

// GetProfile handles GET /api/profile. Public; the singleton record is
// created with defaults on first read if the seed has not run.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profile.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, profile)
}

// UpdateProfile handles PUT /api/profile. Multipart form with an optional
// "picture" file part; only submitted fields are applied.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r) {
		return
	}

	picture, err := formFile(r, "picture")
	if err != nil {
		writeFileError(w, "picture", err)
		return
	}

	profile, err := h.profile.Update(r.Context(), service.UpdateProfileInput{
		Name:         formValue(r, "name"),
		Title:        formValue(r, "title"),
		Subtitle:     formValue(r, "subtitle"),
		Bio:          formValue(r, "bio"),
		ContactEmail: formValue(r, "contact_email"),
		Github:       formValue(r, "github"),
		Linkedin:     formValue(r, "linkedin"),
		Twitter:      formValue(r, "twitter"),
		Website:      formValue(r, "website"),
		Instagram:    formValue(r, "instagram"),
		Picture:      picture,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, profile)
}

// UploadResume handles POST /api/profile/resume. Multipart form with a
// required "resume" file part.
func (h *Handler) UploadResume(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r) {
		return
	}

	resume, err := formFile(r, "resume")
	if err != nil {
		writeFileError(w, "resume", err)
		return
	}

	profile, err := h.profile.UploadResume(r.Context(), resume)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, profile)
}
