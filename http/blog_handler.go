package http

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"propcalc/domain"
	"propcalc/render"
	"propcalc/service"
)

// BlogHandler serves published posts as pages and JSON.
type BlogHandler struct {
	service  *service.BlogService
	renderer *render.Renderer
	logger   *zap.Logger
}

func NewBlogHandler(svc *service.BlogService, renderer *render.Renderer, logger *zap.Logger) *BlogHandler {
	return &BlogHandler{service: svc, renderer: renderer, logger: logger}
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// publishedFilter reads category, tag, limit and offset from the query. The
// status is always forced to published.
func publishedFilter(r *http.Request) domain.PostFilter {
	q := r.URL.Query()
	return domain.PostFilter{
		Status:   domain.PostPublished,
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
	}
}

func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page")
	if page < 1 {
		page = 1
	}

	filter := publishedFilter(r)
	filter.Limit = h.service.PageSize()
	filter.Offset = (page - 1) * filter.Limit
	result, err := h.service.ListPosts(r.Context(), filter)
	if err != nil {
		h.renderFailure(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.BlogIndex(&buf, result.Posts, page, result.HasMore()); err != nil {
		h.renderFailure(w, r, err)
		return
	}
	writeHTML(w, h.logger, http.StatusOK, &buf)
}

func (h *BlogHandler) Post(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPublishedPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			renderStatus(w, h.renderer, h.logger, http.StatusNotFound, "That post does not exist.")
			return
		}
		h.renderFailure(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.BlogPost(&buf, post); err != nil {
		h.renderFailure(w, r, err)
		return
	}
	writeHTML(w, h.logger, http.StatusOK, &buf)
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListPosts(r.Context(), publishedFilter(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, page)
}

func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPublishedPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, post)
}

func (h *BlogHandler) renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("rendering page", zap.String("path", r.URL.Path), zap.Error(err))
	renderStatus(w, h.renderer, h.logger, http.StatusInternalServerError, "Something went wrong.")
}
