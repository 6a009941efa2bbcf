package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("PROPCALC_ADDR", "")

	path := writeConfig(t, `
site_name: Deal Math
server:
  addr: ":9090"
  read_timeout: 5s
logging:
  level: debug
  format: console
ai:
  model: gpt-4o
  rate_limit: 10
blog:
  driver: memory
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Deal Math", cfg.SiteName)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
	assert.Equal(t, 10, cfg.AI.RateLimit)
	assert.Equal(t, "memory", cfg.Blog.Driver)
	assert.False(t, cfg.AI.Enabled())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: ["))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("OPENAI_API_KEY enables AI", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.AI.Enabled())
		assert.Equal(t, "sk-test", cfg.AI.APIKey)
	})

	t.Run("REDIS_ADDR switches cache driver", func(t *testing.T) {
		t.Setenv("REDIS_ADDR", "localhost:6379")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "redis", cfg.Cache.Driver)
		assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	})

	t.Run("PROPCALC_ADDR wins over PORT", func(t *testing.T) {
		t.Setenv("PORT", "3000")
		t.Setenv("PROPCALC_ADDR", "127.0.0.1:7000")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	})

	t.Run("PORT", func(t *testing.T) {
		t.Setenv("PORT", "3000")
		t.Setenv("PROPCALC_ADDR", "")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, ":3000", cfg.Server.Addr)
	})

	t.Run("admin token", func(t *testing.T) {
		t.Setenv("PROPCALC_ADMIN_TOKEN", "secret")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "secret", cfg.Admin.Token)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"missing addr", func(c *Config) { c.Server.Addr = "" }, ErrMissingAddr},
		{"zero timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, ErrInvalidTimeout},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
		{"bad cache", func(c *Config) { c.Cache.Driver = "memcached" }, ErrInvalidCache},
		{"redis without addr", func(c *Config) { c.Cache.Driver = "redis" }, ErrMissingRedisAddr},
		{"bad blog driver", func(c *Config) { c.Blog.Driver = "postgres" }, ErrInvalidBlogDriver},
		{"sqlite without path", func(c *Config) { c.Blog.SQLitePath = "" }, ErrMissingSQLitePath},
		{"zero rate limit", func(c *Config) { c.AI.RateLimit = 0 }, ErrInvalidRateLimit},
		{"zero ai timeout", func(c *Config) { c.AI.Timeout = 0 }, ErrInvalidAITimeout},
		{"no upload dir", func(c *Config) { c.Uploads.Dir = "" }, ErrMissingUploadDir},
		{"zero upload size", func(c *Config) { c.Uploads.MaxBytes = 0 }, ErrInvalidUploadSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}
