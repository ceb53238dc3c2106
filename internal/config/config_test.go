package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Storage.Driver != StorageSQLite {
		t.Errorf("expected default driver %q, got %q", StorageSQLite, cfg.Storage.Driver)
	}
	if cfg.Snapshot.Path != "data.json" {
		t.Errorf("expected default snapshot path %q, got %q", "data.json", cfg.Snapshot.Path)
	}
	if cfg.Images.Concurrency != 8 {
		t.Errorf("expected default images.concurrency 8, got %d", cfg.Images.Concurrency)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.folio.yml")

	original := DefaultConfig()
	original.Port = 9090
	original.Storage.Driver = StorageBadger
	original.Snapshot.URL = "https://example.com/data.json"
	original.Snapshot.Timeout = 3 * time.Second
	original.ContactDefaults.Email = "me@example.com"
	original.Log.Format = "json"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.Storage.Driver != original.Storage.Driver {
		t.Errorf("storage.driver: got %q, want %q", loaded.Storage.Driver, original.Storage.Driver)
	}
	if loaded.Snapshot.URL != original.Snapshot.URL {
		t.Errorf("snapshot.url: got %q, want %q", loaded.Snapshot.URL, original.Snapshot.URL)
	}
	if loaded.Snapshot.Timeout != original.Snapshot.Timeout {
		t.Errorf("snapshot.timeout: got %v, want %v", loaded.Snapshot.Timeout, original.Snapshot.Timeout)
	}
	if loaded.ContactDefaults.Email != original.ContactDefaults.Email {
		t.Errorf("contact_defaults.email: got %q, want %q", loaded.ContactDefaults.Email, original.ContactDefaults.Email)
	}
	if loaded.Log.Format != "json" {
		t.Errorf("log.format: got %q, want json", loaded.Log.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("FOLIO_DATA_DIR", "/srv/folio")
	t.Setenv("FOLIO_STORAGE__DRIVER", "memory")
	t.Setenv("FOLIO_PORT", "9999")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DataDir != "/srv/folio" {
		t.Errorf("data_dir override failed: got %q", loaded.DataDir)
	}
	if loaded.Storage.Driver != StorageMemory {
		t.Errorf("storage.driver override failed: got %q", loaded.Storage.Driver)
	}
	if loaded.Port != 9999 {
		t.Errorf("port override failed: got %d", loaded.Port)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"FOLIO_PORT":           "port",
		"FOLIO_DATA_DIR":       "data_dir",
		"FOLIO_SNAPSHOT__URL":  "snapshot.url",
		"FOLIO_CORS__ALLOW_ALL": "cors.allow_all",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }},
		{"non-http snapshot url", func(c *Config) { c.Snapshot.URL = "ftp://x/data.json" }},
		{"negative snapshot timeout", func(c *Config) { c.Snapshot.Timeout = -time.Second }},
		{"unknown log level", func(c *Config) { c.Log.Level = "trace" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero concurrency", func(c *Config) { c.Images.Concurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty = %q, want b", got)
	}
	if got := firstNonEmpty(); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}
