package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propcalc/domain"
)

var bearer = []string{"Authorization", "Bearer " + testAdminToken, "Content-Type", "application/json"}

func postInput(title string, status domain.PostStatus) domain.PostInput {
	return domain.PostInput{
		Title:  title,
		Body:   "Cap rate compares **net operating income** to price.",
		Status: status,
	}
}

func TestAdmin_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/admin/posts", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")

	w = env.do(t, http.MethodGet, "/api/admin/posts", nil, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/posts", nil, bearer...)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_DisabledWithoutToken(t *testing.T) {
	env := newTestEnv(t, func(cfg *RouterConfig) { cfg.AdminToken = "" })

	w := env.do(t, http.MethodGet, "/api/admin/posts", nil, "Authorization", "Bearer ")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdmin_PostLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/categories", strings.NewReader(`{"name":"Investing"}`), bearer...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/admin/posts",
		strings.NewReader(`{"title":"BRRRR Basics","body":"Buy, rehab, rent.","category":"investing","tags":["BRRRR"]}`), bearer...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decodeBody[domain.Post](t, w)
	assert.Equal(t, "brrrr-basics", post.Slug)
	assert.Equal(t, domain.PostDraft, post.Status)
	assert.Equal(t, "/api/admin/posts/"+post.ID, w.Header().Get("Location"))

	w = env.do(t, http.MethodGet, "/api/posts/brrrr-basics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPut, "/api/admin/posts/"+post.ID,
		strings.NewReader(`{"title":"BRRRR Basics","body":"Buy, rehab, rent.","status":"published","tags":["BRRRR"]}`), bearer...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	post = decodeBody[domain.Post](t, w)
	require.NotNil(t, post.PublishedAt)

	w = env.do(t, http.MethodGet, "/api/posts/brrrr-basics", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/tags", nil, bearer...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.Tag{{Slug: "brrrr", Name: "BRRRR"}}, decodeBody[[]domain.Tag](t, w))

	w = env.do(t, http.MethodDelete, "/api/admin/posts/"+post.ID, nil, bearer...)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, "/api/admin/posts/"+post.ID, nil, bearer...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_PostValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/posts", strings.NewReader(`{"status":"archived"}`), bearer...)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[errorBody](t, w)
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Details, "title")
	assert.Contains(t, body.Details, "status")

	w = env.do(t, http.MethodPost, "/api/admin/posts", strings.NewReader(`{`), bearer...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_CategoriesAndTags(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/categories", strings.NewReader(`{"name":"Market News"}`), bearer...)
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.do(t, http.MethodPost, "/api/admin/categories", strings.NewReader(`{"name":"Market News"}`), bearer...)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/categories", nil, bearer...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.Category{{Slug: "market-news", Name: "Market News"}}, decodeBody[[]domain.Category](t, w))

	w = env.do(t, http.MethodDelete, "/api/admin/categories/market-news", nil, bearer...)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/tags", strings.NewReader(`{"names":["Flips","flips","1031 Exchange"]}`), bearer...)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, decodeBody[[]domain.Tag](t, w), 2)

	w = env.do(t, http.MethodDelete, "/api/admin/tags/flips", nil, bearer...)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, "/api/admin/tags/flips", nil, bearer...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(uploadFormField, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAdmin_Upload(t *testing.T) {
	env := newTestEnv(t)

	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	body, contentType := multipartBody(t, "pixel.gif", gif)

	w := env.do(t, http.MethodPost, "/api/admin/upload", body,
		"Authorization", "Bearer "+testAdminToken, "Content-Type", contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	file := decodeBody[domain.UploadedFile](t, w)
	assert.True(t, strings.HasPrefix(file.URL, "/uploads/"))
	assert.Equal(t, "image/gif", file.ContentType)

	stored, err := os.ReadFile(filepath.Join(env.uploadDir, file.Name))
	require.NoError(t, err)
	assert.Equal(t, gif, stored)
}

func TestAdmin_UploadNotMountedWithoutStorage(t *testing.T) {
	env := newTestEnv(t, func(cfg *RouterConfig) { cfg.Uploads = nil })

	body, contentType := multipartBody(t, "pixel.gif", []byte("GIF89a"))
	w := env.do(t, http.MethodPost, "/api/admin/upload", body,
		"Authorization", "Bearer "+testAdminToken, "Content-Type", contentType)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/posts", nil, bearer...)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_UploadRejectsText(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, "notes.png", []byte("just some text, not an image"))
	w := env.do(t, http.MethodPost, "/api/admin/upload", body,
		"Authorization", "Bearer "+testAdminToken, "Content-Type", contentType)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/upload", strings.NewReader("plain"),
		"Authorization", "Bearer "+testAdminToken, "Content-Type", "text/plain")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_UploadTooLarge(t *testing.T) {
	env := newTestEnv(t)

	big := append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 2048)...)
	body, contentType := multipartBody(t, "big.gif", big)
	w := env.do(t, http.MethodPost, "/api/admin/upload", body,
		"Authorization", "Bearer "+testAdminToken, "Content-Type", contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody[errorBody](t, w).Details["file"], "byte limit")
}
