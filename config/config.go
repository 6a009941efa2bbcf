// Package config loads the site configuration from an optional YAML file,
// then applies environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "propcalc"

var (
	ErrMissingAddr       = errors.New("server.addr is required")
	ErrInvalidTimeout    = errors.New("server timeouts must be positive")
	ErrInvalidLogLevel   = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat  = errors.New("logging.format must be 'json' or 'console'")
	ErrInvalidCache      = errors.New("cache.driver must be 'memory' or 'redis'")
	ErrMissingRedisAddr  = errors.New("cache.redis_addr is required when cache.driver is 'redis'")
	ErrInvalidBlogDriver = errors.New("blog.driver must be 'memory' or 'sqlite'")
	ErrMissingSQLitePath = errors.New("blog.sqlite_path is required when blog.driver is 'sqlite'")
	ErrInvalidRateLimit  = errors.New("ai.rate_limit must be at least 1")
	ErrInvalidAITimeout  = errors.New("ai.timeout must be positive")
	ErrMissingUploadDir  = errors.New("uploads.dir is required")
	ErrInvalidUploadSize = errors.New("uploads.max_bytes must be positive")
)

type Config struct {
	SiteName string        `yaml:"site_name"`
	Server   ServerConfig  `yaml:"server"`
	Logging  LoggingConfig `yaml:"logging"`
	AI       AIConfig      `yaml:"ai"`
	Cache    CacheConfig   `yaml:"cache"`
	Blog     BlogConfig    `yaml:"blog"`
	Admin    AdminConfig   `yaml:"admin"`
	Uploads  UploadsConfig `yaml:"uploads"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AIConfig struct {
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
	// RateLimit is the number of tool requests a client may make per minute.
	RateLimit int `yaml:"rate_limit"`
}

// Enabled reports whether an API key is configured.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

type CacheConfig struct {
	Driver        string        `yaml:"driver"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

type BlogConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
	PageSize   int    `yaml:"page_size"`
}

type AdminConfig struct {
	Token string `yaml:"token"`
}

type UploadsConfig struct {
	Dir          string `yaml:"dir"`
	MaxBytes     int64  `yaml:"max_bytes"`
	PublicPrefix string `yaml:"public_prefix"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		SiteName: "PropCalc",
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		AI: AIConfig{
			BaseURL:   "https://api.openai.com/v1",
			Model:     "gpt-4o-mini",
			Timeout:   30 * time.Second,
			MaxTokens: 800,
			RateLimit: 5,
		},
		Cache: CacheConfig{Driver: "memory", TTL: 24 * time.Hour},
		Blog: BlogConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(DataDir(), "blog.db"),
			PageSize:   10,
		},
		Uploads: UploadsConfig{
			Dir:          filepath.Join(DataDir(), "uploads"),
			MaxBytes:     5 << 20,
			PublicPrefix: "/uploads",
		},
	}
}

// DataDir is where the blog database and uploads live by default.
func DataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// DefaultPath is the config file read when --config is not given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Load reads path over the defaults. An empty path falls back to
// DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.AI.BaseURL = v
	}
	if v := os.Getenv("PROPCALC_ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
	if v := os.Getenv("PROPCALC_ADDR"); v != "" {
		c.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Driver = "redis"
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("PROPCALC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PROPCALC_AI_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.AI.RateLimit = n
		}
	}
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return ErrMissingAddr
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return ErrInvalidLogFormat
	}

	if c.AI.RateLimit < 1 {
		return ErrInvalidRateLimit
	}
	if c.AI.Timeout <= 0 {
		return ErrInvalidAITimeout
	}

	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return ErrMissingRedisAddr
		}
	default:
		return ErrInvalidCache
	}

	switch c.Blog.Driver {
	case "memory":
	case "sqlite":
		if c.Blog.SQLitePath == "" {
			return ErrMissingSQLitePath
		}
	default:
		return ErrInvalidBlogDriver
	}

	if c.Uploads.Dir == "" {
		return ErrMissingUploadDir
	}
	if c.Uploads.MaxBytes <= 0 {
		return ErrInvalidUploadSize
	}
	return nil
}
