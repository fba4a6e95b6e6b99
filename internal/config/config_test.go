// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"log/slog"
	"strings"
	"testing"
)

// TestLoad_Defaults verifies that an empty environment yields development
// defaults.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(map[string]string{})
	if err != nil {
		t.Fatalf("load() returned unexpected error: %v", err)
	}

	checks := map[string][2]string{
		"Host":         {cfg.Host, "0.0.0.0"},
		"Env":          {cfg.Env, "development"},
		"SiteURL":      {cfg.SiteURL, "http://localhost:8080"},
		"DBUser":       {cfg.DBUser, "portfolio"},
		"DBName":       {cfg.DBName, "portfolio"},
		"CacheBackend": {cfg.CacheBackend, CacheMemory},
		"MediaRoot":    {cfg.MediaRoot, "./media"},
		"MediaURL":     {cfg.MediaURL, "/media/"},
		"SMTPPort":     {cfg.SMTPPort, "587"},
	}
	for field, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s: got %q, want %q", field, c[0], c[1])
		}
	}
	if cfg.Port != 8080 {
		t.Errorf("Port: got %d, want 8080", cfg.Port)
	}
	if got := strings.Join(cfg.AllowedHosts, ","); got != "localhost,127.0.0.1" {
		t.Errorf("AllowedHosts: got %q", got)
	}
	if !cfg.IsDev() || cfg.IsProduction() {
		t.Error("default environment should be development")
	}
	if cfg.SMTPEnabled() || cfg.S3Enabled() {
		t.Error("SMTP and S3 should be off by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(map[string]string{
		"APP_PORT":          "9000",
		"SITE_URL":          "https://me.example.com/",
		"ALLOWED_HOSTS":     "me.example.com,www.me.example.com",
		"CORS_ORIGINS":      "https://app.example.com",
		"CACHE_BACKEND":     "valkey",
		"MAIL_TO":           "me@example.com,backup@example.com",
		"SMTP_HOST":         "smtp.example.com",
		"S3_ENDPOINT":       "https://s3.example.com",
		"S3_ACCESS_KEY":     "key",
		"S3_BUCKET":         "media",
		"LOG_LEVEL":         "debug",
		"POSTGRES_HOST":     "db",
		"POSTGRES_USER":     "u",
		"POSTGRES_DB":       "portfolio_test",
		"POSTGRES_PASSWORD": "p@ss word",
	})
	if err != nil {
		t.Fatalf("load() returned unexpected error: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:9000" {
		t.Errorf("Addr: got %q", cfg.Addr())
	}
	if cfg.SiteURL != "https://me.example.com" {
		t.Errorf("SiteURL should lose its trailing slash, got %q", cfg.SiteURL)
	}
	if len(cfg.AllowedHosts) != 2 || len(cfg.MailTo) != 2 || len(cfg.CORSOrigins) != 1 {
		t.Errorf("list fields not split: hosts=%v mail=%v cors=%v", cfg.AllowedHosts, cfg.MailTo, cfg.CORSOrigins)
	}
	if !cfg.SMTPEnabled() || !cfg.S3Enabled() {
		t.Error("SMTP and S3 should be enabled")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel: got %v", cfg.SlogLevel())
	}
	want := "postgres://u:p%40ss%20word@db:5432/portfolio_test?sslmode=disable"
	if cfg.DSN() != want {
		t.Errorf("DSN: got %q, want %q", cfg.DSN(), want)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		wantErr string
	}{
		{
			name:    "production with default password",
			environ: map[string]string{"APP_ENV": "production", "SITE_URL": "https://me.example.com"},
			wantErr: "POSTGRES_PASSWORD",
		},
		{
			name:    "production with debug",
			environ: map[string]string{"APP_ENV": "production", "POSTGRES_PASSWORD": "secret", "DEBUG": "true"},
			wantErr: "DEBUG",
		},
		{
			name:    "relative site url",
			environ: map[string]string{"SITE_URL": "/portfolio"},
			wantErr: "SITE_URL",
		},
		{
			name:    "unknown cache backend",
			environ: map[string]string{"CACHE_BACKEND": "memcached"},
			wantErr: "CACHE_BACKEND",
		},
		{
			name:    "half configured superuser",
			environ: map[string]string{"SUPERUSER_EMAIL": "me@example.com"},
			wantErr: "SUPERUSER",
		},
		{
			name:    "non-numeric port",
			environ: map[string]string{"APP_PORT": "http"},
			wantErr: "Port",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.environ)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestSlogLevelFallsBackToInfo(t *testing.T) {
	cfg := &Config{LogLevel: "loud"}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("got %v, want info", cfg.SlogLevel())
	}
}

func TestLoad_ProductionOK(t *testing.T) {
	cfg, err := load(map[string]string{
		"APP_ENV":           "production",
		"POSTGRES_PASSWORD": "a-real-secret",
		"SITE_URL":          "https://me.example.com",
	})
	if err != nil {
		t.Fatalf("load() returned unexpected error: %v", err)
	}
	if cfg.IsDev() {
		t.Error("production must not be dev")
	}
}
