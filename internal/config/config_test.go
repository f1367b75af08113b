package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atelier.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Mode != "release" {
			t.Errorf("Server.Mode = %s, want release", cfg.Server.Mode)
		}
		if cfg.Server.ReadTimeout != 10*time.Second || cfg.Server.WriteTimeout != 30*time.Second {
			t.Errorf("unexpected server timeouts: %+v", cfg.Server)
		}
		if cfg.Extraction.Algorithm != "kmeans" || cfg.Extraction.Colours != 5 {
			t.Errorf("unexpected extraction config: %+v", cfg.Extraction)
		}
		if cfg.Image.FetchTimeout != 10*time.Second || cfg.Image.CacheDir != "" || cfg.Image.AllowPrivateHosts {
			t.Errorf("unexpected image config: %+v", cfg.Image)
		}
		if cfg.Catalog.Source != CatalogSourceFile || cfg.Catalog.Path != "catalog.yaml" {
			t.Errorf("unexpected catalog config: %+v", cfg.Catalog)
		}
		if cfg.Mongo.Database != "atelier" || cfg.Mongo.Collection != "products" || cfg.Mongo.Limit != 20 {
			t.Errorf("unexpected mongo config: %+v", cfg.Mongo)
		}
		if cfg.Cache.Type != "none" || cfg.Cache.TTL != 24*time.Hour || cfg.Cache.MaxEntries != 10000 {
			t.Errorf("unexpected cache config: %+v", cfg.Cache)
		}
		if cfg.Redis.Addr != "localhost:6379" {
			t.Errorf("Redis.Addr = %s, want localhost:6379", cfg.Redis.Addr)
		}
		if cfg.Classifier.Type != ClassifierStatic {
			t.Errorf("Classifier.Type = %s, want static", cfg.Classifier.Type)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads values from file", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: "9090"
  mode: debug
extraction:
  algorithm: prominent
  colours: 8
cache:
  type: memory
  ttl: 1h
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "9090" || cfg.Server.Mode != "debug" {
			t.Errorf("unexpected server config: %+v", cfg.Server)
		}
		if cfg.Extraction.Algorithm != "prominent" || cfg.Extraction.Colours != 8 {
			t.Errorf("unexpected extraction config: %+v", cfg.Extraction)
		}
		if cfg.Cache.Type != "memory" || cfg.Cache.TTL != time.Hour {
			t.Errorf("unexpected cache config: %+v", cfg.Cache)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: \"9090\"\n")
		t.Setenv("ATELIER_SERVER_PORT", "7070")
		t.Setenv("ATELIER_CATALOG_SOURCE", "mongo")
		t.Setenv("ATELIER_MONGO_URI", "mongodb://localhost:27017")
		t.Setenv("ATELIER_CACHE_TYPE", "redis")
		t.Setenv("ATELIER_REDIS_ADDR", "redis:6379")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "7070" {
			t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
		}
		if cfg.Catalog.Source != CatalogSourceMongo || cfg.Mongo.URI != "mongodb://localhost:27017" {
			t.Errorf("unexpected catalog config: %+v %+v", cfg.Catalog, cfg.Mongo)
		}
		if cfg.Cache.Type != "redis" || cfg.Redis.Addr != "redis:6379" {
			t.Errorf("unexpected cache config: %+v %+v", cfg.Cache, cfg.Redis)
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("Load() expected error for missing file")
		}
	})
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "bad server mode",
			env:     map[string]string{"ATELIER_SERVER_MODE": "chaos"},
			wantErr: "server mode",
		},
		{
			name:    "unknown algorithm",
			env:     map[string]string{"ATELIER_EXTRACTION_ALGORITHM": "median-cut"},
			wantErr: "extraction algorithm",
		},
		{
			name:    "too many colours",
			env:     map[string]string{"ATELIER_EXTRACTION_COLOURS": "300"},
			wantErr: "between 1 and 256",
		},
		{
			name:    "mongo without uri",
			env:     map[string]string{"ATELIER_CATALOG_SOURCE": "mongo"},
			wantErr: "mongo URI is required",
		},
		{
			name:    "unknown catalog source",
			env:     map[string]string{"ATELIER_CATALOG_SOURCE": "postgres"},
			wantErr: "catalog source",
		},
		{
			name:    "unknown cache type",
			env:     map[string]string{"ATELIER_CACHE_TYPE": "memcached"},
			wantErr: "cache type",
		},
		{
			name:    "zero cache entries",
			env:     map[string]string{"ATELIER_CACHE_MAX_ENTRIES": "0"},
			wantErr: "cache max entries",
		},
		{
			name:    "unknown classifier",
			env:     map[string]string{"ATELIER_CLASSIFIER_TYPE": "oracle"},
			wantErr: "classifier type",
		},
		{
			name:    "unknown log level",
			env:     map[string]string{"ATELIER_LOG_LEVEL": "loud"},
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			if err == nil {
				t.Fatalf("Load() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
