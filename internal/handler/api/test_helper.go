package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/hus-nain/portfolio-go/internal/auth"
	"github.com/hus-nain/portfolio-go/internal/imagehost"
	"github.com/hus-nain/portfolio-go/internal/mailer"
	"github.com/hus-nain/portfolio-go/internal/model"
	"github.com/hus-nain/portfolio-go/internal/store"
)

const testTokenSecret = "api-test-token-secret-0123456789abcdef"

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

// testEnv bundles everything an API handler test needs.
type testEnv struct {
	db      *sql.DB
	handler *Handler
	images  *fakeImages
	mail    *fakeMailer
	tokens  *auth.TokenService
}

func testSetup(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		db:     testDB(t),
		images: &fakeImages{},
		mail:   &fakeMailer{},
		tokens: auth.NewTokenService(testTokenSecret),
	}
	env.handler = NewHandler(env.db, env.images, env.mail, env.tokens, nil)
	return env
}

// createAdminUser inserts an admin user with the given password.
func (env *testEnv) createAdminUser(t *testing.T, password string) model.User {
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

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates an HTTP request with a JSON body and optional URL params.
func newJSONRequest(t *testing.T, method, path, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newMultipartRequest creates a multipart form request. fileField/fileData
// attach an optional file part.
func newMultipartRequest(t *testing.T, method, path string, fields map[string]string, fileField string, fileData []byte, params map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileField+".png")
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(fileData))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// pngBytes encodes a small valid PNG for upload tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

// executeHandler runs a handler function and returns the recorder.
func executeHandler(handler func(http.ResponseWriter, *http.Request), req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// dataResponse is a generic wrapper for API responses with a "data" field.
type dataResponse[T any] struct {
	Data T `json:"data"`
}

// unmarshalData unmarshals a JSON response body's data field.
func unmarshalData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp dataResponse[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

// unmarshalError unmarshals a JSON error response body.
func unmarshalError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

// createTestProject creates a project through the service layer.
func (env *testEnv) createTestProject(t *testing.T, title, status string, withImage bool) model.Project {
	t.Helper()

	fields := map[string]string{
		"title":       title,
		"description": "Test description",
		"tech":        "Go, SQLite",
		"category":    "Web",
		"status":      status,
	}
	var fileData []byte
	fileField := ""
	if withImage {
		fileField = "image"
		fileData = pngBytes(t)
	}

	req := newMultipartRequest(t, http.MethodPost, "/api/projects", fields, fileField, fileData, nil)
	rec := executeHandler(env.handler.CreateProject, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return unmarshalData[model.Project](t, rec)
}
