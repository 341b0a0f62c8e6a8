package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/flowgrant/internal/infrastructure/container"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CommandContext provides common command dependencies.
// Eliminates repetitive container initialization across CLI commands.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with container initialization.
// Prompts are written to stderr so stdout only carries results.
func withContainer(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		c, err := container.New(containerOptions(cmd, logger))
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer c.Close()

		ctx := &CommandContext{
			Container: c,
			Logger:    logger,
			Context:   cmd.Context(),
		}
		if ctx.Context == nil {
			ctx.Context = context.Background()
		}

		return handler(ctx, cmd, args)
	}
}

// containerOptions resolves the config file and overrides from flags,
// environment and viper.
func containerOptions(cmd *cobra.Command, logger *slog.Logger) container.Options {
	configPath := cfgFile
	if configPath == "" {
		configPath = viper.ConfigFileUsed()
	}

	return container.Options{
		Logger:          logger,
		ConfigPath:      configPath,
		PromptMode:      viper.GetString("prompt.mode"),
		PlatformVersion: viper.GetString("platform.version"),
		In:              cmd.InOrStdin(),
		Out:             cmd.ErrOrStderr(),
	}
}
