package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  name: marketplace
  host: 127.0.0.1
  port: 9000
mongodb:
  uri: mongodb://localhost:27017
  database: marketplace
auth:
  secret: some-secret
  token_ttl: 24h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr() != "127.0.0.1:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr())
	}
	if cfg.MongoDB.Database != "marketplace" {
		t.Errorf("database = %q", cfg.MongoDB.Database)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("token_ttl = %v", cfg.Auth.TokenTTL)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  secret: some-secret
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8001 {
		t.Errorf("default port = %d, want 8001", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 168*time.Hour {
		t.Errorf("default token_ttl = %v, want 168h", cfg.Auth.TokenTTL)
	}
	if cfg.Redis.PoolSize != 10 {
		t.Errorf("default pool_size = %d, want 10", cfg.Redis.PoolSize)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing auth.secret")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
