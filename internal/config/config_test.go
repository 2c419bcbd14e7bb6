package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadProjectConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	bizDir := filepath.Join(projectDir, BizplanDir)
	if err := os.MkdirAll(bizDir, 0o755); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, BizplanProjectDir: bizDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if c.StorageBackend() != BackendFile {
		t.Fatalf("expected default backend %q, got %q", BackendFile, c.StorageBackend())
	}
	if c.Project.Summary.Model != DefaultModel {
		t.Fatalf("expected default model %q, got %q", DefaultModel, c.Project.Summary.Model)
	}
}

func TestInitDirSeedsConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("init dir: %v", err)
	}
	for _, sub := range []string{"state", "logs", "exports", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(projectDir, BizplanDir, sub)); err != nil {
			t.Fatalf("expected %s to exist: %v", sub, err)
		}
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Project.Server.Port != DefaultPort {
		t.Fatalf("server port = %d, want %d", cfg.Project.Server.Port, DefaultPort)
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	bizDir := filepath.Join(projectDir, BizplanDir)
	if err := os.MkdirAll(bizDir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
storage:
  backend: SQLite
summary:
  endpoint: http://localhost:9999/v1/chat/completions
  model: gpt-4o-mini
  api_key_env: BIZPLAN_TEST_KEY
server:
  port: 9100
`)
	if err := os.WriteFile(filepath.Join(bizDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BIZPLAN_TEST_KEY", "sk-test")
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.StorageBackend() != BackendSQLite {
		t.Fatalf("backend = %q, want sqlite", cfg.StorageBackend())
	}
	if cfg.Project.Summary.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q", cfg.Project.Summary.Model)
	}
	if cfg.Project.Server.Host != DefaultHost {
		t.Fatalf("expected default host, got %q", cfg.Project.Server.Host)
	}
	if cfg.APIKey != "sk-test" || !cfg.SummaryConfigured() {
		t.Fatalf("expected api key from BIZPLAN_TEST_KEY, got %q", cfg.APIKey)
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	projectDir := t.TempDir()
	bizDir := filepath.Join(projectDir, BizplanDir)
	if err := os.MkdirAll(bizDir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
storage:
  backend: redis
`)
	if err := os.WriteFile(filepath.Join(bizDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, BizplanProjectDir: bizDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err == nil {
		t.Fatalf("expected validation error but got none")
	}
}

func TestPlaceholderKeyIsNotConfigured(t *testing.T) {
	projectDir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", PlaceholderAPIKey)
	t.Setenv("REACT_APP_OPENAI_API_KEY", "")
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.SummaryConfigured() {
		t.Fatalf("placeholder key must not count as configured")
	}
}

func TestLegacyKeyFallback(t *testing.T) {
	projectDir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("REACT_APP_OPENAI_API_KEY", "sk-legacy")
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.APIKey != "sk-legacy" {
		t.Fatalf("api key = %q, want sk-legacy", cfg.APIKey)
	}
}

func TestSetStorageBackendPersists(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("init dir: %v", err)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if err := cfg.SetStorageBackend("sqlite"); err != nil {
		t.Fatalf("set backend: %v", err)
	}
	reloaded, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.StorageBackend() != BackendSQLite {
		t.Fatalf("backend after reload = %q", reloaded.StorageBackend())
	}
	if err := cfg.SetStorageBackend("tape"); err == nil {
		t.Fatalf("expected invalid backend to be rejected")
	}
	if cfg.StorageBackend() != BackendSQLite {
		t.Fatalf("rejected backend leaked into config: %q", cfg.StorageBackend())
	}
}

func TestSummaryTimeout(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("init dir: %v", err)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Project.Summary.Timeout != DefaultSummaryTimeout {
		t.Fatalf("default timeout = %s, want %s", cfg.Project.Summary.Timeout, DefaultSummaryTimeout)
	}

	configYAML := strings.TrimSpace(`
version: 1
summary:
  timeout: 5s
`)
	if err := os.WriteFile(cfg.ProjectConfigPath(), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Project.Summary.Timeout != 5*time.Second {
		t.Fatalf("timeout = %s, want 5s", cfg.Project.Summary.Timeout)
	}
}
