package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"propcalc/config"
	httpLayer "propcalc/http"
	"propcalc/render"
	"propcalc/repository"
	"propcalc/service"
)

const redisKeyPrefix = "propcalc:"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		logger, err := newLogger(cfg.Logging)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

// closers runs cleanup functions in reverse order.
type closers []func() error

func (c closers) close(logger *zap.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			logger.Warn("closing resource", zap.Error(err))
		}
	}
}

func openCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (repository.CacheRepository, func() error, error) {
	if cfg.Driver != "redis" {
		logger.Info("using in-memory cache")
		return repository.NewMemoryCache(), func() error { return nil }, nil
	}

	cache := repository.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redisKeyPrefix)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		_ = cache.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
	return cache, cache.Close, nil
}

func openBlogRepository(cfg config.BlogConfig, logger *zap.Logger) (repository.BlogRepository, func() error, error) {
	if cfg.Driver != "sqlite" {
		logger.Info("using in-memory blog storage")
		return repository.NewBlogRepositoryMemory(), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating blog data dir: %w", err)
	}
	repo, err := repository.OpenBlogRepositorySQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening blog database: %w", err)
	}
	logger.Info("using sqlite blog storage", zap.String("path", cfg.SQLitePath))
	return repo, repo.Close, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var cleanup closers
	defer cleanup.close(logger)

	cache, closeCache, err := openCache(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	cleanup = append(cleanup, closeCache)

	blogRepo, closeBlog, err := openBlogRepository(cfg.Blog, logger)
	if err != nil {
		return err
	}
	cleanup = append(cleanup, closeBlog)

	calculators, err := newCalculatorService(logger)
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer(cfg.SiteName)
	if err != nil {
		return err
	}

	ai := service.NewAIService(service.AIOptions{
		APIKey:    cfg.AI.APIKey,
		BaseURL:   cfg.AI.BaseURL,
		Model:     cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   cfg.AI.Timeout,
		CacheTTL:  cfg.Cache.TTL,
	}, cache, logger)
	if !ai.Enabled() {
		logger.Warn("AI tools disabled: OPENAI_API_KEY is not set")
	}
	if cfg.Admin.Token == "" {
		logger.Warn("admin API disabled: PROPCALC_ADMIN_TOKEN is not set")
	}

	limiter := httpLayer.NewRateLimiter(cfg.AI.RateLimit, time.Minute)
	cleanup = append(cleanup, func() error { limiter.Stop(); return nil })

	handler := httpLayer.NewRouter(httpLayer.RouterConfig{
		Calculators:    calculators,
		AI:             ai,
		Blog:           service.NewBlogService(blogRepo, cfg.Blog.PageSize, logger),
		Uploads:        service.NewUploadService(cfg.Uploads.Dir, cfg.Uploads.PublicPrefix, cfg.Uploads.MaxBytes, logger),
		Renderer:       renderer,
		Logger:         logger,
		ToolLimiter:    limiter,
		AdminToken:     cfg.Admin.Token,
		UploadsPrefix:  cfg.Uploads.PublicPrefix,
		RequestTimeout: cfg.Server.WriteTimeout,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout + 5*time.Second,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr), zap.String("version", version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}
