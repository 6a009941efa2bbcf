// Package http wires the site's pages and JSON APIs onto a chi router.
package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"propcalc/render"
	"propcalc/service"
)

// RouterConfig carries the services and settings the router mounts.
type RouterConfig struct {
	Calculators *service.CalculatorService
	AI          *service.AIService
	Blog        *service.BlogService
	Uploads     *service.UploadService
	Renderer    *render.Renderer
	Logger      *zap.Logger

	// ToolLimiter throttles /api/tools/{tool}; nil disables throttling.
	ToolLimiter    *RateLimiter
	AdminToken     string
	UploadsPrefix  string
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	calculators := NewCalculatorHandler(cfg.Calculators, cfg.Renderer, logger)
	tools := NewToolHandler(cfg.AI, logger)
	blog := NewBlogHandler(cfg.Blog, cfg.Renderer, logger)
	admin := NewAdminHandler(cfg.Blog, cfg.Uploads, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeJSON(w, logger, http.StatusNotFound, errorBody{Error: "not found"})
			return
		}
		renderStatus(w, cfg.Renderer, logger, http.StatusNotFound, "Page not found.")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", calculators.Index)
	r.Get("/calculators/{slug}", calculators.Page)
	r.Post("/calculators/{slug}", calculators.Page)

	r.Get("/blog", blog.Index)
	r.Get("/blog/{slug}", blog.Post)

	if cfg.Uploads != nil {
		prefix := "/" + strings.Trim(cfg.UploadsPrefix, "/")
		if prefix == "/" {
			prefix = "/uploads"
		}
		files := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Uploads.Dir())))
		r.Handle(prefix+"/*", noDirListing(files))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/calculators", calculators.List)
		r.Get("/calculators/{slug}", calculators.Get)
		r.Post("/calculators/{slug}", calculators.Evaluate)

		r.Get("/tools", tools.List)
		r.Group(func(r chi.Router) {
			if cfg.ToolLimiter != nil {
				r.Use(RateLimitMiddleware(cfg.ToolLimiter, logger))
			}
			r.Post("/tools/{tool}", tools.Run)
		})

		r.Get("/posts", blog.List)
		r.Get("/posts/{slug}", blog.Get)

		r.Route("/admin", func(r chi.Router) {
			r.Use(BearerAuth(cfg.AdminToken, logger))

			r.Get("/posts", admin.ListPosts)
			r.Post("/posts", admin.CreatePost)
			r.Get("/posts/{id}", admin.GetPost)
			r.Put("/posts/{id}", admin.UpdatePost)
			r.Delete("/posts/{id}", admin.DeletePost)

			r.Get("/categories", admin.ListCategories)
			r.Post("/categories", admin.CreateCategory)
			r.Delete("/categories/{slug}", admin.DeleteCategory)

			r.Get("/tags", admin.ListTags)
			r.Post("/tags", admin.CreateTags)
			r.Delete("/tags/{slug}", admin.DeleteTag)

			if cfg.Uploads != nil {
				r.Post("/upload", admin.Upload)
			}
		})
	})

	return r
}

// noDirListing answers 404 for directory paths instead of an index page.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}
