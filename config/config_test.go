package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "news.ini")
	var content = `
[server]
listen = :9000
base = /news/

[site]
recent = 5

[uploads]
backend = s3
max-size = 1024

[s3]
bucket = news-images
prefix = articles

[log]
format = json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(dbEnv, "postgres://news@localhost/news")
	t.Setenv(s3SecretKeyEnv, "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Listen != ":9000" {
		t.Errorf("listen: got %q", cfg.Server.Listen)
	}
	if got := cfg.BasePrefix(); got != "/news" {
		t.Errorf("base: got %q", got)
	}
	if cfg.Site.Recent != 5 {
		t.Errorf("recent: got %d", cfg.Site.Recent)
	}
	if cfg.Site.Lang != "ru" {
		t.Errorf("lang default lost: got %q", cfg.Site.Lang)
	}
	if cfg.Uploads.Backend != "s3" || cfg.Uploads.MaxSize != 1024 {
		t.Errorf("uploads: got %+v", cfg.Uploads)
	}
	if cfg.S3.Bucket != "news-images" || cfg.S3.SecretKey != "secret" || cfg.S3.Region != "eu-central-1" {
		t.Errorf("s3: got %+v", cfg.S3)
	}
	if cfg.Database.URL != "postgres://news@localhost/news" {
		t.Errorf("env override not applied: %q", cfg.Database.URL)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("log: got %+v", cfg.Log)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.Uploads.Backend = "ftp" }, true},
		{"s3 without bucket", func(c *Config) { c.Uploads.Backend = "s3" }, true},
		{"empty dir", func(c *Config) { c.Uploads.Dir = "" }, true},
		{"zero max size", func(c *Config) { c.Uploads.MaxSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("got error %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeBase(t *testing.T) {
	for input, want := range map[string]string{
		"":       "",
		"/":      "",
		"news":   "/news",
		"/news/": "/news",
		"a/b/":   "/a/b",
	} {
		if got := NormalizeBase(input); got != want {
			t.Errorf("NormalizeBase(%q): got %q, want %q", input, got, want)
		}
	}
}
