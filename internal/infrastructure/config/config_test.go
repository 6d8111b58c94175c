package config

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.Session.Store != StoreFile || cfg.Session.Profile != "default" {
		t.Fatalf("unexpected session config %+v", cfg.Session)
	}
	if !strings.HasSuffix(cfg.Session.File, filepath.Join("pharmalink", "default.session.json")) {
		t.Fatalf("unexpected default session file %q", cfg.Session.File)
	}
	if cfg.Session.TTL != 24*time.Hour || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RedisPrefix() != "pharmalink:default:" {
		t.Fatalf("unexpected redis prefix %q", cfg.RedisPrefix())
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"PHARMALINK_API_BASE_URL":    "https://pharmalink.example/api",
		"PHARMALINK_SESSION_STORE":   "redis",
		"PHARMALINK_SESSION_PROFILE": "clinic",
		"PHARMALINK_REDIS_ADDR":      "redis:6379",
		"PHARMALINK_HTTP_TIMEOUT":    "5s",
		"PHARMALINK_RATE_LIMIT":      "2.5",
		"API_BASE_URL":               "http://ignored-without-prefix",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if cfg.APIBaseURL != "https://pharmalink.example/api" {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.Session.Store != StoreRedis || cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("unexpected store config %+v %+v", cfg.Session, cfg.Redis)
	}
	if cfg.Session.File != "" {
		t.Fatalf("redis store should not get a session file, got %q", cfg.Session.File)
	}
	if cfg.HTTPTimeout != 5*time.Second || cfg.RateLimit != 2.5 {
		t.Fatalf("unexpected client config %v %v", cfg.HTTPTimeout, cfg.RateLimit)
	}
	if cfg.RedisPrefix() != "pharmalink:clinic:" {
		t.Fatalf("unexpected redis prefix %q", cfg.RedisPrefix())
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"relative url":   {"PHARMALINK_API_BASE_URL": "/api"},
		"unknown store":  {"PHARMALINK_SESSION_STORE": "etcd"},
		"negative rate":  {"PHARMALINK_RATE_LIMIT": "-1"},
		"bad duration":   {"PHARMALINK_HTTP_TIMEOUT": "soon"},
		"negative delay": {"PHARMALINK_HTTP_TIMEOUT": "-1s"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
