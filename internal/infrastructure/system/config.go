// Package system provides infrastructure for host-level configuration.
// This includes loading the host config file (~/.flowgrant.yaml) that
// describes the platform, the grant policy and how prompts are answered.
package system

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config represents the host configuration file (~/.flowgrant.yaml).
type Config struct {
	Platform PlatformConfig `yaml:"platform"`
	Policy   PolicyConfig   `yaml:"policy"`
	Prompt   PromptConfig   `yaml:"prompt"`
}

// PlatformConfig describes the host platform.
type PlatformConfig struct {
	// Version is the host platform version, e.g. "14" or "6.0.1".
	Version string `yaml:"version" validate:"required"`

	// RuntimeGrantsSince is the semver constraint a platform version must
	// satisfy for grants to be requested at runtime. Older platforms grant
	// every key up front.
	RuntimeGrantsSince string `yaml:"runtime_grants_since" validate:"required"`
}

// PolicyConfig lists keys decided without prompting.
type PolicyConfig struct {
	// File optionally points at a standalone policy file merged into Granted/Revoked.
	File    string       `yaml:"file"`
	Granted []string     `yaml:"granted" validate:"dive,required"`
	Revoked []string     `yaml:"revoked" validate:"dive,required"`
	Rules   []RuleConfig `yaml:"rules" validate:"dive"`
}

// RuleConfig decides keys matching an expression.
type RuleConfig struct {
	// When is an expr-lang boolean expression over `key`.
	When     string `yaml:"when" validate:"required"`
	Decision string `yaml:"decision" validate:"required,oneof=granted revoked"`
}

// PromptConfig configures how prompts are answered.
type PromptConfig struct {
	// Mode is one of: interactive, grant-all, deny-all.
	Mode string `yaml:"mode" validate:"required,oneof=interactive grant-all deny-all"`
}

// PromptMode represents how prompts are answered.
type PromptMode string

const (
	// PromptModeInteractive asks the user (default)
	PromptModeInteractive PromptMode = "interactive"

	// PromptModeGrantAll answers yes to everything without asking
	PromptModeGrantAll PromptMode = "grant-all"

	// PromptModeDenyAll answers no to everything without asking
	PromptModeDenyAll PromptMode = "deny-all"
)

// GetPromptMode returns the configured prompt mode, defaulting to interactive.
func (c *PromptConfig) GetPromptMode() PromptMode {
	switch c.Mode {
	case "grant-all":
		return PromptModeGrantAll
	case "deny-all":
		return PromptModeDenyAll
	default:
		return PromptModeInteractive
	}
}

const (
	// DefaultPlatformVersion is assumed when the config does not name one.
	DefaultPlatformVersion = "14.0.0"

	// DefaultRuntimeGrantsSince is the first platform release with runtime grants.
	DefaultRuntimeGrantsSince = ">= 6.0.0"
)

// ConfigLoader loads host configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new host config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// DefaultConfig returns a Config with safe defaults for all fields.
// This is used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Platform: PlatformConfig{
			Version:            DefaultPlatformVersion,
			RuntimeGrantsSince: DefaultRuntimeGrantsSince,
		},
		Policy: PolicyConfig{
			Granted: []string{},
			Revoked: []string{},
			Rules:   []RuleConfig{},
		},
		Prompt: PromptConfig{
			Mode: string(PromptModeInteractive),
		},
	}
}

// Load loads the host configuration from the specified path.
// If the file does not exist or is empty, returns DefaultConfig().
// The document is checked against the config schema before decoding and
// the decoded values are validated afterwards.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	//nolint:gosec // G304: path is user-provided config file, validated to exist above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read host config: %w", err)
	}

	return l.Parse(data)
}

// Parse decodes and validates a config document.
func (l *ConfigLoader) Parse(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return DefaultConfig(), nil
	}

	if err := ValidateDocument(data); err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse host config: %w", err)
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyDefaults fills fields an explicit but partial document left empty.
func (c *Config) applyDefaults() {
	if c.Platform.Version == "" {
		c.Platform.Version = DefaultPlatformVersion
	}
	if c.Platform.RuntimeGrantsSince == "" {
		c.Platform.RuntimeGrantsSince = DefaultRuntimeGrantsSince
	}
	if c.Prompt.Mode == "" {
		c.Prompt.Mode = string(PromptModeInteractive)
	}
}
