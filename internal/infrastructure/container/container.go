// Package container provides dependency injection for the application.
package container

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	apperrors "github.com/reglet-dev/flowgrant/internal/application/errors"
	"github.com/reglet-dev/flowgrant/internal/application/services"
	"github.com/reglet-dev/flowgrant/internal/domain/repositories"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/grantstore"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/oracle"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/persistence/memory"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/prompter"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/system"
)

// Container holds all application dependencies.
type Container struct {
	config       *system.Config
	platform     *oracle.Platform
	oracle       *oracle.PolicyOracle
	prompter     *prompter.TerminalPrompter
	decisions    *memory.DecisionStore
	batches      *memory.BatchRepository
	coordinator  *services.Coordinator
	grantService *services.GrantService
	requestUC    *services.RequestGrantsUseCase
	logger       *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger     *slog.Logger
	ConfigPath string

	// PromptMode and PlatformVersion override the config file when set.
	PromptMode      string
	PlatformVersion string

	// In and Out are the terminal the prompts are shown on.
	In  io.Reader
	Out io.Writer
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	platform, err := oracle.NewPlatform(cfg.Platform.Version, cfg.Platform.RuntimeGrantsSince)
	if err != nil {
		return nil, apperrors.NewConfigurationError("platform", "invalid platform", err)
	}
	opts.Logger.Debug("host platform", "platform", platform.String())

	// Session decisions are shared: the prompter writes them, the oracle
	// reads them on the next request.
	decisions := memory.NewDecisionStore()

	policyOracle, err := oracle.NewPolicyOracle(platform, cfg.Policy, decisions,
		oracle.WithOracleLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	terminal := prompter.NewTerminalPrompter(opts.In, opts.Out, decisions,
		prompter.WithMode(cfg.Prompt.GetPromptMode()),
		prompter.WithLogger(opts.Logger))

	batches := memory.NewBatchRepository()
	coordinator := services.NewCoordinator(policyOracle, terminal,
		services.WithLogger(opts.Logger),
		services.WithRegistry(memory.NewPendingRequestRepository()),
		services.WithBatchRepository(batches))

	grantService := services.NewGrantService(coordinator, policyOracle, terminal, platform)

	// Wire up use case
	requestUC := services.NewRequestGrantsUseCase(grantService, batches, opts.Logger)

	return &Container{
		config:       cfg,
		platform:     platform,
		oracle:       policyOracle,
		prompter:     terminal,
		decisions:    decisions,
		batches:      batches,
		coordinator:  coordinator,
		grantService: grantService,
		requestUC:    requestUC,
		logger:       opts.Logger,
	}, nil
}

// loadConfig reads the host config, applies command-line overrides and
// merges the standalone policy file.
func loadConfig(opts Options) (*system.Config, error) {
	cfg := system.DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := system.NewConfigLoader().Load(opts.ConfigPath)
		if err != nil {
			return nil, apperrors.NewConfigurationError("host config", opts.ConfigPath, err)
		}
		cfg = loaded
	}

	if opts.PromptMode != "" {
		cfg.Prompt.Mode = opts.PromptMode
	}
	if opts.PlatformVersion != "" {
		cfg.Platform.Version = opts.PlatformVersion
	}
	if opts.PromptMode != "" || opts.PlatformVersion != "" {
		if err := cfg.Validate(); err != nil {
			return nil, apperrors.NewConfigurationError("flags", "invalid override", err)
		}
	}

	if cfg.Policy.File != "" {
		path := cfg.Policy.File
		if !filepath.IsAbs(path) && opts.ConfigPath != "" {
			path = filepath.Join(filepath.Dir(opts.ConfigPath), path)
		}
		merged, err := grantstore.NewFileStore(path).Merge(cfg.Policy)
		if err != nil {
			return nil, apperrors.NewConfigurationError("policy", "loading policy file", err)
		}
		cfg.Policy = merged
		if err := cfg.Validate(); err != nil {
			return nil, apperrors.NewConfigurationError("policy", fmt.Sprintf("policy file %s", path), err)
		}
	}

	return cfg, nil
}

// GrantService returns the grant request facade.
func (c *Container) GrantService() *services.GrantService {
	return c.grantService
}

// RequestGrantsUseCase returns the request grants use case.
func (c *Container) RequestGrantsUseCase() *services.RequestGrantsUseCase {
	return c.requestUC
}

// Coordinator returns the grant request coordinator.
func (c *Container) Coordinator() *services.Coordinator {
	return c.coordinator
}

// Batches returns the log of issued prompt batches.
func (c *Container) Batches() repositories.BatchRepository {
	return c.batches
}

// Decisions returns the answers recorded in this session.
func (c *Container) Decisions() repositories.DecisionRepository {
	return c.decisions
}

// Platform returns the host platform.
func (c *Container) Platform() *oracle.Platform {
	return c.platform
}

// Config returns the host configuration.
func (c *Container) Config() *system.Config {
	return c.config
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Wait blocks until every prompt shown so far has delivered its answers.
func (c *Container) Wait() {
	c.prompter.Wait()
}

// Close detaches the host. Later oracle queries and prompts fail with
// ErrHostNotAttached.
func (c *Container) Close() {
	c.oracle.Detach()
	c.prompter.Detach()
}
