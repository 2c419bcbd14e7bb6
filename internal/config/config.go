// internal/config/config.go
//
// This package handles configuration and the .bizplan directory structure.
// Every directory that bizplan runs in gets a .bizplan/ folder holding the
// draft, logs, and exported reports.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// BizplanDir is the name of the directory we create in each project
	BizplanDir = ".bizplan"

	// PlaceholderAPIKey is the value shipped in sample env files. It counts as unset.
	PlaceholderAPIKey = "your_api_key_here"

	BackendFile   = "file"
	BackendSQLite = "sqlite"

	// DefaultEndpoint is the public chat-completions URL.
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	// DefaultModel is the model requested when config names none.
	DefaultModel = "gpt-4o"
	// DefaultSummaryTimeout bounds a single summary request, including
	// reading the reply.
	DefaultSummaryTimeout = 60 * time.Second

	defaultAPIKeyEnv = "OPENAI_API_KEY"
	legacyAPIKeyEnv  = "REACT_APP_OPENAI_API_KEY"
	// DefaultHost keeps `bizplan serve` on loopback unless configured otherwise.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the TCP port `bizplan serve` binds by default.
	DefaultPort = 8790
)

const defaultProjectConfigYAML = `# bizplan project configuration
version: 1

# Where the in-progress draft is kept. "file" writes JSON under .bizplan/state,
# "sqlite" keeps it in .bizplan/state/drafts.db.
storage:
  backend: file

# Chat-completion service used for the narrative summary.
summary:
  endpoint: https://api.openai.com/v1/chat/completions
  model: gpt-4o
  api_key_env: OPENAI_API_KEY
  # Give up on a request that has not finished after this long.
  timeout: 60s

# bizplan serve
server:
  host: 127.0.0.1
  port: 8790
`

// StorageConfig selects the draft backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// SummaryConfig describes the external summarization service.
type SummaryConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
}

// ServerConfig is the bind address for `bizplan serve`.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// ProjectConfig models .bizplan/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Storage StorageConfig `yaml:"storage"`
	Summary SummaryConfig `yaml:"summary"`
	Server  ServerConfig  `yaml:"server"`
}

// Config holds the runtime configuration for bizplan.
type Config struct {
	// ProjectDir is the directory where the user ran `bizplan` from
	ProjectDir string

	// BizplanProjectDir is ProjectDir/.bizplan
	BizplanProjectDir string

	Project ProjectConfig

	// APIKey is read once from the environment at startup.
	APIKey string
}

// InitDir creates the .bizplan directory structure in the given project directory.
//
// Structure created:
// .bizplan/
// ├── state/     <- Draft snapshot (JSON file or SQLite)
// ├── logs/      <- journey.log, http.log, token-usage.jsonl
// ├── exports/   <- Rendered HTML reports
// └── config.yaml
func InitDir(projectDir string) error {
	root := filepath.Join(projectDir, BizplanDir)
	dirs := []string{
		filepath.Join(root, "state"),
		filepath.Join(root, "logs"),
		filepath.Join(root, "exports"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		BizplanProjectDir: filepath.Join(projectDir, BizplanDir),
		Project:           defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	cfg.APIKey = cfg.resolveAPIKey()
	return cfg, nil
}

// StateDir returns the path to the state directory
func (c *Config) StateDir() string {
	return filepath.Join(c.BizplanProjectDir, "state")
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.BizplanProjectDir, "logs")
}

// ExportsDir returns the default output directory for HTML reports
func (c *Config) ExportsDir() string {
	return filepath.Join(c.BizplanProjectDir, "exports")
}

// JournalPath returns the logbook file.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journey.log")
}

// UsageLedgerPath returns the token usage ledger file.
func (c *Config) UsageLedgerPath() string {
	return filepath.Join(c.LogsDir(), "token-usage.jsonl")
}

// DraftDBPath returns the SQLite database used by the sqlite backend.
func (c *Config) DraftDBPath() string {
	return filepath.Join(c.StateDir(), "drafts.db")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.BizplanProjectDir, "config.yaml")
}

// StorageBackend returns the configured draft backend name.
func (c *Config) StorageBackend() string {
	return c.Project.Storage.Backend
}

// SummaryConfigured reports whether a usable credential was found.
func (c *Config) SummaryConfigured() bool {
	key := strings.TrimSpace(c.APIKey)
	return key != "" && key != PlaceholderAPIKey
}

// SetStorageBackend updates the draft backend and persists the value back to
// .bizplan/config.yaml.
func (c *Config) SetStorageBackend(name string) error {
	name = normalizeBackend(name)
	if name == "" {
		return fmt.Errorf("config: storage backend is required")
	}
	next := c.Project
	next.Storage.Backend = name
	next.applyDefaults()
	next.normalize()
	if err := next.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Project = next
	return c.saveProjectConfig()
}

func (c *Config) resolveAPIKey() string {
	envName := strings.TrimSpace(c.Project.Summary.APIKeyEnv)
	if envName == "" {
		envName = defaultAPIKeyEnv
	}
	if value := strings.TrimSpace(os.Getenv(envName)); value != "" {
		return value
	}
	return strings.TrimSpace(os.Getenv(legacyAPIKeyEnv))
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Storage.Backend) == "" {
		pc.Storage.Backend = BackendFile
	}
	if strings.TrimSpace(pc.Summary.Endpoint) == "" {
		pc.Summary.Endpoint = DefaultEndpoint
	}
	if strings.TrimSpace(pc.Summary.Model) == "" {
		pc.Summary.Model = DefaultModel
	}
	if strings.TrimSpace(pc.Summary.APIKeyEnv) == "" {
		pc.Summary.APIKeyEnv = defaultAPIKeyEnv
	}
	if pc.Summary.Timeout == 0 {
		pc.Summary.Timeout = DefaultSummaryTimeout
	}
	if strings.TrimSpace(pc.Server.Host) == "" {
		pc.Server.Host = DefaultHost
	}
	if pc.Server.Port == 0 {
		pc.Server.Port = DefaultPort
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Storage.Backend = normalizeBackend(pc.Storage.Backend)
	pc.Summary.Endpoint = strings.TrimSpace(pc.Summary.Endpoint)
	pc.Summary.Model = strings.TrimSpace(pc.Summary.Model)
	pc.Summary.APIKeyEnv = strings.TrimSpace(pc.Summary.APIKeyEnv)
	pc.Server.Host = strings.TrimSpace(pc.Server.Host)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch pc.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be '%s' or '%s'", BackendFile, BackendSQLite)
	}
	if !strings.HasPrefix(pc.Summary.Endpoint, "http://") && !strings.HasPrefix(pc.Summary.Endpoint, "https://") {
		return fmt.Errorf("summary.endpoint must be an http(s) URL")
	}
	if pc.Summary.Timeout < 0 {
		return fmt.Errorf("summary.timeout must not be negative")
	}
	if pc.Server.Port < 1 || pc.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	return nil
}

func normalizeBackend(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.BizplanProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure bizplan dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
