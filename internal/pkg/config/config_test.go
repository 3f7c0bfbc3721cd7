package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"HOSTED_URL":      "https://project.example.co",
		"HOSTED_ANON_KEY": "anon",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Backend != BackendHosted || cfg.SerializerWorkers != 8 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 24*time.Hour || cfg.Hosted.Timeout != 10*time.Second {
		t.Fatalf("unexpected durations: %v %v", cfg.SessionTTL, cfg.Hosted.Timeout)
	}
	if !cfg.Development() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoadFrom_SelfHosted(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"BACKEND":      "selfhosted",
		"JWT_SECRET":   "s3cret",
		"CORS_ORIGINS": "http://localhost:5173,https://app.example.com",
		"REDIS_DB":     "2",
		"SESSION_TTL":  "1h",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://app.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.Redis.DB != 2 || cfg.SessionTTL != time.Hour || cfg.Mongo.Database != "grocery" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"hosted without key":     {"HOSTED_URL": "https://project.example.co"},
		"selfhosted without jwt": {"BACKEND": "selfhosted"},
		"unknown backend":        {"BACKEND": "sqlite"},
		"zero workers":           {"BACKEND": "selfhosted", "JWT_SECRET": "x", "SERIALIZER_WORKERS": "0"},
		"malformed duration":     {"BACKEND": "selfhosted", "JWT_SECRET": "x", "SESSION_TTL": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
