package handler

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/hus-nain/portfolio-go/internal/auth"
	"github.com/hus-nain/portfolio-go/internal/imagehost"
	"github.com/hus-nain/portfolio-go/internal/mailer"
	"github.com/hus-nain/portfolio-go/internal/middleware"
	"github.com/hus-nain/portfolio-go/internal/model"
	"github.com/hus-nain/portfolio-go/internal/render"
	"github.com/hus-nain/portfolio-go/internal/service"
	"github.com/hus-nain/portfolio-go/internal/store"
	"github.com/hus-nain/portfolio-go/web"
)

const testTokenSecret = "page-test-token-secret-0123456789abcdef"

// testDB creates an in-memory migrated SQLite database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

// testRenderer parses the real embedded templates so page tests exercise
// the production template set.
func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()

	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)

	renderer, err := render.New(render.Config{TemplatesFS: templates})
	require.NoError(t, err)
	return renderer
}

// fakeImages is an in-memory image host recording calls in order.
type fakeImages struct {
	calls  []string
	nextID int
}

func (f *fakeImages) Upload(_ context.Context, _ []byte, folder, _ string) (imagehost.Asset, error) {
	f.calls = append(f.calls, "upload:"+folder)
	f.nextID++
	return imagehost.Asset{
		URL: fmt.Sprintf("https://cdn.example/%s/%d.png", folder, f.nextID),
		ID:  fmt.Sprintf("%s/%d", folder, f.nextID),
	}, nil
}

func (f *fakeImages) Destroy(_ context.Context, assetID string) error {
	f.calls = append(f.calls, "destroy:"+assetID)
	return nil
}

// fakeMailer captures sent contact messages.
type fakeMailer struct {
	sent []mailer.ContactMessage
}

func (m *fakeMailer) SendContact(_ context.Context, msg mailer.ContactMessage) error {
	m.sent = append(m.sent, msg)
	return nil
}

// pageEnv bundles everything a page handler test needs.
type pageEnv struct {
	db      *sql.DB
	handler *Handler
	auth    *AuthHandler
	images  *fakeImages
	mail    *fakeMailer
	tokens  *auth.TokenService
}

func pageSetup(t *testing.T) *pageEnv {
	t.Helper()

	renderer := testRenderer(t)
	env := &pageEnv{
		db:     testDB(t),
		images: &fakeImages{},
		mail:   &fakeMailer{},
		tokens: auth.NewTokenService(testTokenSecret),
	}
	env.handler = New(env.db, renderer, env.images, env.mail)
	env.auth = NewAuthHandler(env.db, renderer, env.tokens, nil, false)
	return env
}

// createAdmin inserts an admin user with the given password.
func (env *pageEnv) createAdmin(t *testing.T, password string) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user, err := store.New(env.db).CreateUser(context.Background(), store.CreateUserParams{
		Username:     "admin",
		Email:        "admin@example.dev",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	require.NoError(t, err)
	return user
}

// seedProject creates a project directly through the service layer.
func (env *pageEnv) seedProject(t *testing.T, title, category, status string, featured bool) model.Project {
	t.Helper()

	projects := service.NewProjectService(env.db, env.images)
	project, err := projects.Create(context.Background(), service.CreateProjectInput{
		Title:       title,
		Description: "Description of " + title,
		Tech:        "Go, SQLite",
		Category:    category,
		Status:      status,
		Featured:    featured,
		Image:       pngBytes(t),
	})
	require.NoError(t, err)
	return project
}

// seedSkill creates a skill category directly through the service layer.
func (env *pageEnv) seedSkill(t *testing.T, name, items string) model.Skill {
	t.Helper()

	skills := service.NewSkillService(env.db)
	skill, err := skills.Create(context.Background(), service.CreateSkillInput{
		Name:  name,
		Items: items,
	})
	require.NoError(t, err)
	return skill
}

// withUser attaches an authenticated user the way the page guard does.
func withUser(r *http.Request, user model.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))
}

// withURLParams adds chi URL parameters to a request.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newFormRequest builds a urlencoded POST request.
func newFormRequest(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// newMultipartFormRequest builds a multipart POST request with optional file.
func newMultipartFormRequest(t *testing.T, target string, fields map[string]string, fileField, fileName string, fileData []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(fileData))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

// pngBytes encodes a tiny valid PNG for upload fields.
func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
