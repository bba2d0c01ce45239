package api

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hus-nain/portfolio-go/internal/model"
)

func TestStatus(t *testing.T) {
	env := testSetup(t)

	rec := executeHandler(env.handler.Status, newJSONRequest(t, http.MethodGet, "/api/status", "", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	status := unmarshalData[StatusResponse](t, rec)
	assert.Equal(t, "ok", status.Status)
}

func TestLogin(t *testing.T) {
	env := testSetup(t)
	user := env.createAdminUser(t, "correct horse battery staple")

	t.Run("success", func(t *testing.T) {
		body := `{"email":"admin@example.dev","password":"correct horse battery staple"}`
		rec := executeHandler(env.handler.Login, newJSONRequest(t, http.MethodPost, "/api/auth/login", body, nil))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := unmarshalData[LoginResponse](t, rec)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user.Email, resp.User.Email)
		assert.NotContains(t, rec.Body.String(), "password_hash")
	})

	t.Run("wrong password", func(t *testing.T) {
		body := `{"email":"admin@example.dev","password":"wrong"}`
		rec := executeHandler(env.handler.Login, newJSONRequest(t, http.MethodPost, "/api/auth/login", body, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthorized", unmarshalError(t, rec).Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		body := `{"email":"nobody@example.dev","password":"whatever"}`
		rec := executeHandler(env.handler.Login, newJSONRequest(t, http.MethodPost, "/api/auth/login", body, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := executeHandler(env.handler.Login, newJSONRequest(t, http.MethodPost, "/api/auth/login", `{}`, nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := executeHandler(env.handler.Login, newJSONRequest(t, http.MethodPost, "/api/auth/login", `{not json`, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateProject(t *testing.T) {
	env := testSetup(t)

	t.Run("live with image", func(t *testing.T) {
		project := env.createTestProject(t, "My Cool App", model.StatusLive, true)
		assert.Equal(t, "my-cool-app", project.Slug)
		assert.Equal(t, []string{"Go", "SQLite"}, project.Tech)
		assert.NotEmpty(t, project.Image)
	})

	t.Run("live without image rejected", func(t *testing.T) {
		fields := map[string]string{
			"title":       "Another App",
			"description": "d",
			"tech":        "Go",
			"category":    "Web",
			"status":      model.StatusLive,
		}
		req := newMultipartRequest(t, http.MethodPost, "/api/projects", fields, "", nil, nil)
		rec := executeHandler(env.handler.CreateProject, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		detail := unmarshalError(t, rec)
		assert.Equal(t, "validation_error", detail.Code)
		assert.Contains(t, detail.Details, "image")
	})

	t.Run("duplicate title rejected", func(t *testing.T) {
		fields := map[string]string{
			"title":       "My Cool App",
			"description": "d",
			"tech":        "Go",
			"category":    "Web",
			"status":      model.StatusComingSoon,
		}
		req := newMultipartRequest(t, http.MethodPost, "/api/projects", fields, "", nil, nil)
		rec := executeHandler(env.handler.CreateProject, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, unmarshalError(t, rec).Details, "slug")
	})
}

func TestCreateProjectOversizeImage(t *testing.T) {
	env := testSetup(t)

	fields := map[string]string{
		"title":       "Big Upload",
		"description": "d",
		"tech":        "Go",
		"category":    "Web",
		"status":      model.StatusComingSoon,
	}
	big := bytes.Repeat([]byte{0xff}, 11<<20)
	req := newMultipartRequest(t, http.MethodPost, "/api/projects", fields, "image", big, nil)
	rec := executeHandler(env.handler.CreateProject, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := unmarshalError(t, rec)
	assert.Equal(t, "validation_error", detail.Code)
	assert.Contains(t, detail.Details, "image")
	assert.Empty(t, env.images.calls, "nothing uploaded for rejected file")

	rec = executeHandler(env.handler.ListProjects, newJSONRequest(t, http.MethodGet, "/api/projects", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, unmarshalData[[]model.Project](t, rec))
}

func TestProjectOrderMustBeNumeric(t *testing.T) {
	env := testSetup(t)

	t.Run("create", func(t *testing.T) {
		fields := map[string]string{
			"title":       "Ordered App",
			"description": "d",
			"tech":        "Go",
			"category":    "Web",
			"status":      model.StatusComingSoon,
			"order":       "first",
		}
		req := newMultipartRequest(t, http.MethodPost, "/api/projects", fields, "", nil, nil)
		rec := executeHandler(env.handler.CreateProject, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, unmarshalError(t, rec).Details, "order")
	})

	t.Run("update", func(t *testing.T) {
		created := env.createTestProject(t, "My Cool App", model.StatusComingSoon, false)

		id := fmt.Sprint(created.ID)
		fields := map[string]string{"order": "1.5"}
		req := newMultipartRequest(t, http.MethodPut, "/api/projects/"+id, fields, "", nil, map[string]string{"id": id})
		rec := executeHandler(env.handler.UpdateProject, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, unmarshalError(t, rec).Details, "order")
	})
}

func TestGetProject(t *testing.T) {
	env := testSetup(t)
	created := env.createTestProject(t, "My Cool App", model.StatusComingSoon, false)

	t.Run("found", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodGet, "/api/projects/"+created.Slug, "", map[string]string{"slug": created.Slug})
		rec := executeHandler(env.handler.GetProject, req)

		require.Equal(t, http.StatusOK, rec.Code)
		project := unmarshalData[model.Project](t, rec)
		assert.Equal(t, created.ID, project.ID)
	})

	t.Run("missing", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodGet, "/api/projects/nope", "", map[string]string{"slug": "nope"})
		rec := executeHandler(env.handler.GetProject, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", unmarshalError(t, rec).Code)
	})
}

func TestListProjects(t *testing.T) {
	env := testSetup(t)
	env.createTestProject(t, "First", model.StatusCompleted, false)
	env.createTestProject(t, "Second", model.StatusCompleted, false)

	rec := executeHandler(env.handler.ListProjects, newJSONRequest(t, http.MethodGet, "/api/projects", "", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	projects := unmarshalData[[]model.Project](t, rec)
	assert.Len(t, projects, 2)
}

func TestUpdateProjectPartial(t *testing.T) {
	env := testSetup(t)
	created := env.createTestProject(t, "My Cool App", model.StatusInDevelopment, false)

	id := fmt.Sprint(created.ID)
	fields := map[string]string{"status": model.StatusCompleted}
	req := newMultipartRequest(t, http.MethodPut, "/api/projects/"+id, fields, "", nil, map[string]string{"id": id})
	rec := executeHandler(env.handler.UpdateProject, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	project := unmarshalData[model.Project](t, rec)
	assert.Equal(t, model.StatusCompleted, project.Status)
	assert.Equal(t, created.Title, project.Title)
	assert.Equal(t, created.Tech, project.Tech)
}

func TestUpdateProjectImageReplacement(t *testing.T) {
	env := testSetup(t)
	created := env.createTestProject(t, "My Cool App", model.StatusLive, true)

	id := fmt.Sprint(created.ID)
	req := newMultipartRequest(t, http.MethodPut, "/api/projects/"+id, nil, "image", pngBytes(t), map[string]string{"id": id})
	rec := executeHandler(env.handler.UpdateProject, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	project := unmarshalData[model.Project](t, rec)
	assert.NotEqual(t, created.Image, project.Image)

	// Old remote asset was destroyed before the new upload.
	require.Len(t, env.images.calls, 3)
	assert.Contains(t, env.images.calls[1], "destroy:")
}

func TestDeleteProject(t *testing.T) {
	env := testSetup(t)
	created := env.createTestProject(t, "My Cool App", model.StatusLive, true)

	id := fmt.Sprint(created.ID)
	req := newJSONRequest(t, http.MethodDelete, "/api/projects/"+id, "", map[string]string{"id": id})
	rec := executeHandler(env.handler.DeleteProject, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = executeHandler(env.handler.DeleteProject, newJSONRequest(t, http.MethodDelete, "/api/projects/"+id, "", map[string]string{"id": id}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	t.Run("invalid id", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodDelete, "/api/projects/abc", "", map[string]string{"id": "abc"})
		rec := executeHandler(env.handler.DeleteProject, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSkillEndpoints(t *testing.T) {
	env := testSetup(t)

	rec := executeHandler(env.handler.CreateSkill,
		newJSONRequest(t, http.MethodPost, "/api/skills", `{"name":"Backend","items":"Go, PostgreSQL"}`, nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := unmarshalData[model.Skill](t, rec)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, created.Items)

	t.Run("duplicate name", func(t *testing.T) {
		rec := executeHandler(env.handler.CreateSkill,
			newJSONRequest(t, http.MethodPost, "/api/skills", `{"name":"Backend","items":"Rust"}`, nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, unmarshalError(t, rec).Details, "name")
	})

	t.Run("update items only", func(t *testing.T) {
		id := fmt.Sprint(created.ID)
		rec := executeHandler(env.handler.UpdateSkill,
			newJSONRequest(t, http.MethodPut, "/api/skills/"+id, `{"items":"Go,Rust"}`, map[string]string{"id": id}))
		require.Equal(t, http.StatusOK, rec.Code)
		skill := unmarshalData[model.Skill](t, rec)
		assert.Equal(t, "Backend", skill.Name)
		assert.Equal(t, []string{"Go", "Rust"}, skill.Items)
	})

	t.Run("list", func(t *testing.T) {
		rec := executeHandler(env.handler.ListSkills, newJSONRequest(t, http.MethodGet, "/api/skills", "", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, unmarshalData[[]model.Skill](t, rec), 1)
	})

	t.Run("delete", func(t *testing.T) {
		id := fmt.Sprint(created.ID)
		rec := executeHandler(env.handler.DeleteSkill,
			newJSONRequest(t, http.MethodDelete, "/api/skills/"+id, "", map[string]string{"id": id}))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = executeHandler(env.handler.GetSkill,
			newJSONRequest(t, http.MethodGet, "/api/skills/"+id, "", map[string]string{"id": id}))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProfileEndpoints(t *testing.T) {
	env := testSetup(t)

	t.Run("get returns defaults", func(t *testing.T) {
		rec := executeHandler(env.handler.GetProfile, newJSONRequest(t, http.MethodGet, "/api/profile", "", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		profile := unmarshalData[model.Profile](t, rec)
		assert.NotEmpty(t, profile.Name)
	})

	t.Run("partial update", func(t *testing.T) {
		fields := map[string]string{"bio": "New bio", "github": "https://github.com/someone"}
		req := newMultipartRequest(t, http.MethodPut, "/api/profile", fields, "", nil, nil)
		rec := executeHandler(env.handler.UpdateProfile, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		profile := unmarshalData[model.Profile](t, rec)
		assert.Equal(t, "New bio", profile.Bio)
		assert.Equal(t, "https://github.com/someone", profile.SocialLinks.Github)
	})

	t.Run("picture upload", func(t *testing.T) {
		req := newMultipartRequest(t, http.MethodPut, "/api/profile", nil, "picture", pngBytes(t), nil)
		rec := executeHandler(env.handler.UpdateProfile, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		profile := unmarshalData[model.Profile](t, rec)
		assert.Contains(t, profile.Picture, "https://cdn.example/")
	})

	t.Run("resume upload", func(t *testing.T) {
		req := newMultipartRequest(t, http.MethodPost, "/api/profile/resume", nil, "resume", []byte("%PDF-1.4"), nil)
		rec := executeHandler(env.handler.UploadResume, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		profile := unmarshalData[model.Profile](t, rec)
		assert.NotEmpty(t, profile.ResumeURL)
	})

	t.Run("invalid contact email", func(t *testing.T) {
		fields := map[string]string{"contact_email": "not-an-address"}
		req := newMultipartRequest(t, http.MethodPut, "/api/profile", fields, "", nil, nil)
		rec := executeHandler(env.handler.UpdateProfile, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestContact(t *testing.T) {
	env := testSetup(t)

	t.Run("success", func(t *testing.T) {
		body := `{"name":"Visitor","email":"visitor@example.dev","message":"Hello"}`
		rec := executeHandler(env.handler.Contact, newJSONRequest(t, http.MethodPost, "/api/contact", body, nil))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, env.mail.sent, 1)
		assert.Equal(t, "Visitor", env.mail.sent[0].Name)
	})

	t.Run("validation", func(t *testing.T) {
		rec := executeHandler(env.handler.Contact,
			newJSONRequest(t, http.MethodPost, "/api/contact", `{"email":"bad"}`, nil))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Len(t, env.mail.sent, 1, "no mail sent for invalid submission")
	})

	t.Run("mail not configured", func(t *testing.T) {
		unconfigured := NewHandler(env.db, env.images, nil, env.tokens, nil)
		body := `{"name":"Visitor","email":"visitor@example.dev","message":"Hello"}`
		rec := executeHandler(unconfigured.Contact, newJSONRequest(t, http.MethodPost, "/api/contact", body, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
