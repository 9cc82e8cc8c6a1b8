package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all settings of the post store and its front ends.
type Config struct {
	HTTP     ListenConfig   `yaml:"http"`
	GRPC     ListenConfig   `yaml:"grpc"`
	Metrics  ListenConfig   `yaml:"metrics"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	Client   ClientConfig   `yaml:"client"`
	Web      ListenConfig   `yaml:"web"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ListenConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig selects the gorm dialect. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	FeedTTL time.Duration `yaml:"feed_ttl"`
}

// ClientConfig points the front ends at a post store.
type ClientConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	ReaderFile string `yaml:"reader_file"`
}

// DefaultConfig puts the API on :4000 and the web front end on :3000.
func DefaultConfig() *Config {
	return &Config{
		HTTP:    ListenConfig{Addr: ":4000"},
		GRPC:    ListenConfig{Addr: ":50051"},
		Metrics: ListenConfig{Addr: ":2112"},
		Database: DatabaseConfig{
			Driver: "postgres",
			DSN:    "host=localhost user=ermachine dbname=blog port=5432 sslmode=disable",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Cache: CacheConfig{FeedTTL: 30 * time.Second},
		Client: ClientConfig{
			BaseURL: "http://localhost:4000",
			Timeout: 10 * time.Second,
		},
		Web:     ListenConfig{Addr: ":3000"},
		Logging: LoggingConfig{Level: "info", ReaderFile: "goonrails-reader.log"},
	}
}

// Load reads path over the defaults and applies env overrides. A missing
// file is not an error; an empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = db
	}
	if v := os.Getenv("POST_STORE_URL"); v != "" {
		c.Client.BaseURL = v
	}
	return nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Cache.FeedTTL < 0 {
		return fmt.Errorf("cache.feed_ttl must not be negative")
	}
	if c.Client.BaseURL == "" {
		return fmt.Errorf("client.base_url is required")
	}
	return nil
}
