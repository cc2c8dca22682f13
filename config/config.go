// Package config loads the ini configuration file and applies environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	DefaultPath = "news.ini"

	dbEnv          = "NEWS_DB"
	listenEnv      = "NEWS_LISTEN"
	s3AccessKeyEnv = "NEWS_S3_ACCESS_KEY"
	s3SecretKeyEnv = "NEWS_S3_SECRET_KEY"
	logLevelEnv    = "NEWS_LOG_LEVEL"
)

type Config struct {
	Server   Server   `ini:"server"`
	Database Database `ini:"database"`
	Site     Site     `ini:"site"`
	Uploads  Uploads  `ini:"uploads"`
	S3       S3       `ini:"s3"`
	Log      Log      `ini:"log"`
}

type Server struct {
	Listen string `ini:"listen"`
	Base   string `ini:"base"` // prefix which is stripped off every request, your reverse proxy must not strip it
}

type Database struct {
	URL string `ini:"url"` // MySQL: collation should be utf8mb4_unicode_ci
}

type Site struct {
	Recent int    `ini:"recent"` // number of articles in the sidebar
	Lang   string `ini:"lang"`   // used if the browser sends no Accept-Language header
}

type Uploads struct {
	Backend string `ini:"backend"` // "local" or "s3"
	Dir     string `ini:"dir"`
	MaxSize int64  `ini:"max-size"` // bytes
}

type S3 struct {
	Bucket    string `ini:"bucket"`
	Region    string `ini:"region"`
	AccessKey string `ini:"access-key"`
	SecretKey string `ini:"secret-key"`
	Prefix    string `ini:"prefix"`
	PublicURL string `ini:"public-url"`
}

type Log struct {
	Level  string `ini:"level"`  // zerolog level
	Format string `ini:"format"` // "console" or "json"
}

func Default() Config {
	return Config{
		Server: Server{
			Listen: "127.0.0.1:8080",
		},
		Database: Database{
			URL: "sqlite3:news.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared",
		},
		Site: Site{
			Recent: 20,
			Lang:   "ru",
		},
		Uploads: Uploads{
			Backend: "local",
			Dir:     "upload",
			MaxSize: 4 << 20,
		},
		S3: S3{
			Region: "eu-central-1",
		},
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the ini file at path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {

	cfg := Default()

	file, err := ini.LooseLoad(path)
	if err != nil {
		return cfg, fmt.Errorf("config: cannot parse %s: %w", path, err)
	}

	if err := file.MapTo(&cfg); err != nil {
		return cfg, fmt.Errorf("config: cannot map %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dbEnv); v != "" {
		c.Database.URL = v
	}

	if v := os.Getenv(listenEnv); v != "" {
		c.Server.Listen = v
	}

	if v := os.Getenv(s3AccessKeyEnv); v != "" {
		c.S3.AccessKey = v
	}

	if v := os.Getenv(s3SecretKeyEnv); v != "" {
		c.S3.SecretKey = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) Validate() error {
	switch c.Uploads.Backend {
	case "local":
		if c.Uploads.Dir == "" {
			return fmt.Errorf("config: uploads dir is empty")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("config: s3 bucket is empty")
		}
	default:
		return fmt.Errorf("config: unknown uploads backend %q", c.Uploads.Backend)
	}
	if c.Uploads.MaxSize <= 0 {
		return fmt.Errorf("config: uploads max-size must be positive")
	}
	return nil
}

// BasePrefix returns Server.Base with a leading and without a trailing slash, or the empty string.
func (c *Config) BasePrefix() string {
	return NormalizeBase(c.Server.Base)
}

func NormalizeBase(base string) string {
	base = strings.Trim(base, "/")
	if base != "" {
		base = "/" + base
	}
	return base
}
