// Package config loads dayflow configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all dayflow configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Agent    AgentConfig    `yaml:"agent"`
	Reasoner ReasonerConfig `yaml:"reasoner"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// AgentConfig tunes the turn orchestrator.
type AgentConfig struct {
	// PendingTTL is how long a proposed action stays confirmable.
	PendingTTL string `yaml:"pending_ttl"`

	// ContextMaxChars bounds the unified workspace fragment.
	ContextMaxChars int `yaml:"context_max_chars"`

	// ChunkSize is the streaming token width in runes.
	ChunkSize int `yaml:"chunk_size"`

	// Session trail caps, oldest entries evicted first.
	MaxSessionEvents int `yaml:"max_session_events"`
	MaxActions       int `yaml:"max_actions"`
}

// ReasonerConfig configures the optional generative query responder.
type ReasonerConfig struct {
	Provider string `yaml:"provider"` // gemini or empty to disable
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// StoreConfig configures persistence.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			ShutdownTimeout: "10s",
		},
		Agent: AgentConfig{
			PendingTTL:       "15m",
			ContextMaxChars:  3000,
			ChunkSize:        36,
			MaxSessionEvents: 200,
			MaxActions:       500,
		},
		Reasoner: ReasonerConfig{
			Model: "gemini-2.0-flash",
		},
		Store: StoreConfig{
			DatabasePath: "data/dayflow.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Reasoner.APIKey = key
		if c.Reasoner.Provider == "" {
			c.Reasoner.Provider = "gemini"
		}
	}
	if addr := os.Getenv("DAYFLOW_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("DAYFLOW_DB"); path != "" {
		c.Store.DatabasePath = path
	}
	if level := os.Getenv("DAYFLOW_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// PendingTTL returns the pending-action lifetime as a duration.
func (c *Config) PendingTTL() time.Duration {
	d, err := time.ParseDuration(c.Agent.PendingTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// ReadTimeout returns the HTTP read timeout as a duration.
func (c *Config) ReadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ReadTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// ShutdownTimeout returns the graceful shutdown budget as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Validate checks values a typo would most likely break.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Agent.ContextMaxChars < 0 {
		return fmt.Errorf("agent.context_max_chars must not be negative")
	}
	if c.Agent.ChunkSize < 0 {
		return fmt.Errorf("agent.chunk_size must not be negative")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
