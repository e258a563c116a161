// internal/config/config.go
//
// This package handles configuration and the .council directory structure.
// Every project that uses the council tool gets a .council/ folder created
// in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Lyzr-Apps/llm-council-super-edge/internal/council"
)

const (
	// CouncilDir is the name of the directory we create in each project
	CouncilDir = ".council"

	// MemberCount is the fixed size of the council roster.
	MemberCount = council.MemberCount

	defaultGatewayURL     = "https://agent-prod.studio.lyzr.ai/v3/inference/chat/"
	defaultTimeoutSeconds = 120
)

const defaultProjectConfigYAML = `# llm-council project configuration
version: 1

gateway:
  base_url: https://agent-prod.studio.lyzr.ai/v3/inference/chat/
  api_key: ""
  user_id: council@localhost
  timeout_seconds: 120

# The two workflow agents. IDs are opaque values issued by the agent platform.
agents:
  orchestrator: 68d5a2c4f1b2a90012c3e401
  synthesizer: 68d5a2c4f1b2a90012c3e402

# The five fixed council member identities, in display order.
council:
  members:
    - gpt-4o
    - claude-3-5-sonnet
    - gemini-1-5-pro
    - llama-3-1-405b
    - mistral-large
`

// GatewayConfig holds the HTTP endpoint settings for the agent gateway.
type GatewayConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key,omitempty"`
	UserID         string `yaml:"user_id,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// AgentConfig names the two workflow agents by their platform identifiers.
type AgentConfig struct {
	Orchestrator string `yaml:"orchestrator"`
	Synthesizer  string `yaml:"synthesizer"`
}

// CouncilConfig fixes the roster of council member identities.
type CouncilConfig struct {
	Members []string `yaml:"members"`
}

// ProjectConfig models .council/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Gateway GatewayConfig `yaml:"gateway"`
	Agents  AgentConfig   `yaml:"agents"`
	Council CouncilConfig `yaml:"council"`
}

// Config holds the runtime configuration for the council tool.
type Config struct {
	// ProjectDir is the directory where the user ran `council` from
	ProjectDir string

	// CouncilProjectDir is ProjectDir/.council
	CouncilProjectDir string

	Project ProjectConfig
}

// InitCouncilDir creates the .council directory structure in the given
// project directory. This is called when the TUI starts up.
//
// Structure created:
// .council/
// ├── logs/     <- Session logbook
// └── exports/  <- Exported consensus reports
func InitCouncilDir(projectDir string) error {
	councilDir := filepath.Join(projectDir, CouncilDir)

	dirs := []string{
		filepath.Join(councilDir, "logs"),
		filepath.Join(councilDir, "exports"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(councilDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		CouncilProjectDir: filepath.Join(projectDir, CouncilDir),
		Project:           defaultProjectConfig(),
	}

	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.CouncilProjectDir, "logs")
}

// ExportsDir returns the directory where consensus reports are written.
func (c *Config) ExportsDir() string {
	return filepath.Join(c.CouncilProjectDir, "exports")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.CouncilProjectDir, "config.yaml")
}

// Members returns the five configured council member identities in order.
func (c *Config) Members() []string {
	return c.Project.Council.Members
}

// OrchestratorAgentID returns the agent identifier for the council stage.
func (c *Config) OrchestratorAgentID() string {
	return c.Project.Agents.Orchestrator
}

// SynthesizerAgentID returns the agent identifier for the consensus stage.
func (c *Config) SynthesizerAgentID() string {
	return c.Project.Agents.Synthesizer
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
	return ProjectConfig{
		Version: 1,
		Gateway: GatewayConfig{
			BaseURL:        defaultGatewayURL,
			UserID:         "council@localhost",
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Agents: AgentConfig{
			Orchestrator: "68d5a2c4f1b2a90012c3e401",
			Synthesizer:  "68d5a2c4f1b2a90012c3e402",
		},
		Council: CouncilConfig{
			Members: []string{
				"gpt-4o",
				"claude-3-5-sonnet",
				"gemini-1-5-pro",
				"llama-3-1-405b",
				"mistral-large",
			},
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Gateway.BaseURL == "" {
		pc.Gateway.BaseURL = defaultGatewayURL
	}
	if pc.Gateway.TimeoutSeconds <= 0 {
		pc.Gateway.TimeoutSeconds = defaultTimeoutSeconds
	}
	if len(pc.Council.Members) == 0 {
		pc.Council.Members = defaultProjectConfig().Council.Members
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Gateway.BaseURL = strings.TrimSpace(pc.Gateway.BaseURL)
	pc.Gateway.APIKey = strings.TrimSpace(pc.Gateway.APIKey)
	pc.Gateway.UserID = strings.TrimSpace(pc.Gateway.UserID)
	pc.Agents.Orchestrator = strings.TrimSpace(pc.Agents.Orchestrator)
	pc.Agents.Synthesizer = strings.TrimSpace(pc.Agents.Synthesizer)
	for i := range pc.Council.Members {
		pc.Council.Members[i] = strings.TrimSpace(pc.Council.Members[i])
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}
	if pc.Agents.Orchestrator == "" {
		return fmt.Errorf("agents.orchestrator is required")
	}
	if pc.Agents.Synthesizer == "" {
		return fmt.Errorf("agents.synthesizer is required")
	}
	if len(pc.Council.Members) != MemberCount {
		return fmt.Errorf("council.members must list exactly %d identities, got %d", MemberCount, len(pc.Council.Members))
	}
	seen := map[string]struct{}{}
	for i, member := range pc.Council.Members {
		if member == "" {
			return fmt.Errorf("council.members[%d] is empty", i)
		}
		key := strings.ToLower(member)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("council.members[%d]: duplicate identity %q", i, member)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

// SaveProjectConfig persists the current project configuration back to
// .council/config.yaml.
func (c *Config) SaveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.CouncilProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure council dir: %w", err)
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
