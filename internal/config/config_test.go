package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HTTP.Addr != ":4000" {
		t.Errorf("expected HTTP.Addr=:4000, got %s", cfg.HTTP.Addr)
	}
	if cfg.Web.Addr != ":3000" {
		t.Errorf("expected Web.Addr=:3000, got %s", cfg.Web.Addr)
	}
	if cfg.Cache.FeedTTL != 30*time.Second {
		t.Errorf("expected FeedTTL=30s, got %s", cfg.Cache.FeedTTL)
	}
	require.NoError(t, cfg.Validate())
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "goonrails.yaml")

	cfg := DefaultConfig()
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "file:blog.db"
	cfg.Cache.FeedTTL = time.Minute
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", loaded.Database.Driver)
	assert.Equal(t, "file:blog.db", loaded.Database.DSN)
	assert.Equal(t, time.Minute, loaded.Cache.FeedTTL)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_DSN", "host=db user=blog")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("POST_STORE_URL", "http://api.internal:4000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "host=db user=blog", cfg.Database.DSN)
	assert.Equal(t, RedisConfig{Addr: "cache:6380", Password: "secret", DB: 3}, cfg.Redis)
	assert.Equal(t, "http://api.internal:4000", cfg.Client.BaseURL)
}

func TestLoad_Rejects(t *testing.T) {
	clearEnv(t)
	t.Run("bad REDIS_DB", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := Load("")
		assert.ErrorContains(t, err, "unknown database driver")
	})
	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("http: [unclosed"), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "parse config")
	})
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "goonrails.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Config, 64)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) {
			select {
			case changed <- c:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	require.NoError(t, cfg.Save(path))

	// A truncate may be observed before the write lands, so wait for the
	// final content rather than the first event.
	deadline := time.After(5 * time.Second)
	for seen := false; !seen; {
		select {
		case got := <-changed:
			seen = got.Logging.Level == "debug"
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}

	cancel()
	require.NoError(t, <-done)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DB_DRIVER", "POSTGRES_DSN", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "POST_STORE_URL"} {
		t.Setenv(k, "")
	}
}
