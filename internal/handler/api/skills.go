package api

import (
	"encoding/json"
	"net/http"

	"github.com/hus-nain/portfolio-go/internal/service"
)

// SkillRequest is the JSON body for creating or updating a skill. Items is a
// comma-separated list, matching the admin form's tag input.
type SkillRequest struct {
	Name  *string `json:"name"`
	Items *string `json:"items"`
	Order *int64  `json:"order"`
}

// ListSkills handles GET /api/skills.
func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skills.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, skills)
}

// GetSkill handles GET /api/skills/{id}.
func (h *Handler) GetSkill(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid skill ID")
		return
	}

	skill, err := h.skills.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, skill)
}

// CreateSkill handles POST /api/skills.
func (h *Handler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var req SkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	input := service.CreateSkillInput{}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Items != nil {
		input.Items = *req.Items
	}
	if req.Order != nil {
		input.Position = *req.Order
	}

	skill, err := h.skills.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, skill)
}

// UpdateSkill handles PUT /api/skills/{id} with partial semantics.
func (h *Handler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid skill ID")
		return
	}

	var req SkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	skill, err := h.skills.Update(r.Context(), id, service.UpdateSkillInput{
		Name:     req.Name,
		Items:    req.Items,
		Position: req.Order,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, skill)
}

// DeleteSkill handles DELETE /api/skills/{id}.
func (h *Handler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid skill ID")
		return
	}

	if err := h.skills.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, map[string]string{"message": "Skill removed"})
}
