package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"propcalc/domain"
	"propcalc/service"
)

const (
	maxPostBody       = 1 << 20
	multipartMemory   = 1 << 20
	multipartOverhead = 1 << 16
	uploadFormField   = "file"
)

// AdminHandler manages blog content and uploads. Routes are mounted behind
// BearerAuth.
type AdminHandler struct {
	blog    *service.BlogService
	uploads *service.UploadService
	logger  *zap.Logger
}

func NewAdminHandler(blog *service.BlogService, uploads *service.UploadService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{blog: blog, uploads: uploads, logger: logger}
}

// ListPosts lists posts of any status; status, category and tag filter.
func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	filter := publishedFilter(r)
	filter.Status = domain.PostStatus(r.URL.Query().Get("status"))

	page, err := h.blog.ListPosts(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, page)
}

func (h *AdminHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.blog.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, post)
}

func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in domain.PostInput
	if err := decodeJSON(w, r, maxPostBody, &in); err != nil {
		badRequest(w, h.logger, "invalid request body")
		return
	}

	post, err := h.blog.CreatePost(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Location", "/api/admin/posts/"+post.ID)
	writeJSON(w, h.logger, http.StatusCreated, post)
}

func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var in domain.PostInput
	if err := decodeJSON(w, r, maxPostBody, &in); err != nil {
		badRequest(w, h.logger, "invalid request body")
		return
	}

	post, err := h.blog.UpdatePost(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, post)
}

func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.blog.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.blog.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, categories)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in domain.Category
	if err := decodeJSON(w, r, maxPostBody, &in); err != nil {
		badRequest(w, h.logger, "invalid request body")
		return
	}

	category, err := h.blog.CreateCategory(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, category)
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.blog.DeleteCategory(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.blog.ListTags(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, tags)
}

func (h *AdminHandler) CreateTags(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Names []string `json:"names"`
	}
	if err := decodeJSON(w, r, maxPostBody, &in); err != nil {
		badRequest(w, h.logger, "invalid request body")
		return
	}

	tags, err := h.blog.CreateTags(r.Context(), in.Names)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, tags)
}

func (h *AdminHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.blog.DeleteTag(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Upload stores one multipart image from the "file" field.
func (h *AdminHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, h.logger, http.StatusRequestEntityTooLarge, errorBody{Error: "file is too large"})
			return
		}
		badRequest(w, h.logger, "request must be multipart/form-data with a file field")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		badRequest(w, h.logger, "missing file field")
		return
	}
	defer file.Close()

	uploaded, err := h.uploads.Save(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, uploaded)
}
