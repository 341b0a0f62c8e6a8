package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/system"
	"github.com/reglet-dev/flowgrant/internal/templates"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// InitOptions holds the flags of the init command.
type InitOptions struct {
	Output        string
	PolicyFile    string
	Granted       []string
	Revoked       []string
	NoInteractive bool
	Force         bool
}

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a host config file",
	Long: `Generate a flowgrant host config. Without --output the file is written to
$HOME/.flowgrant.yaml (or the path given with --config).`,
	Example: `  flowgrant init
  flowgrant init --prompt-mode deny-all --granted INTERNET --no-interactive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInit(cmd, initOpts)
	},
}

func init() {
	initCmd.Flags().StringVarP(&initOpts.Output, "output", "o", "", "Output file path")
	initCmd.Flags().StringVar(&initOpts.PolicyFile, "policy-file", "", "Reference a standalone policy file")
	initCmd.Flags().StringSliceVar(&initOpts.Granted, "granted", nil, "Keys granted without prompting (comma-separated)")
	initCmd.Flags().StringSliceVar(&initOpts.Revoked, "revoked", nil, "Keys revoked by policy (comma-separated)")
	initCmd.Flags().BoolVar(&initOpts.NoInteractive, "no-interactive", false, "Disable interactive prompts")
	initCmd.Flags().BoolVar(&initOpts.Force, "force", false, "Overwrite an existing file")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, opts InitOptions) error {
	path, err := initOutputPath(opts.Output)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data := templates.HostConfigData{
		PlatformVersion:    viper.GetString("platform.version"),
		RuntimeGrantsSince: system.DefaultRuntimeGrantsSince,
		PromptMode:         viper.GetString("prompt.mode"),
		PolicyFile:         opts.PolicyFile,
		Granted:            opts.Granted,
		Revoked:            opts.Revoked,
	}
	if data.PlatformVersion == "" {
		data.PlatformVersion = system.DefaultPlatformVersion
	}

	if data.PromptMode == "" && !opts.NoInteractive {
		err = huh.NewSelect[string]().
			Title("How should prompts be answered?").
			Options(
				huh.NewOption("Ask me (interactive)", string(system.PromptModeInteractive)),
				huh.NewOption("Grant everything", string(system.PromptModeGrantAll)),
				huh.NewOption("Deny everything", string(system.PromptModeDenyAll)),
			).
			Value(&data.PromptMode).
			Run()
		if err != nil {
			return err
		}
	}
	if data.PromptMode == "" {
		data.PromptMode = string(system.PromptModeInteractive)
	}

	return writeHostConfig(cmd, path, data)
}

func initOutputPath(output string) (string, error) {
	if output != "" {
		return output, nil
	}
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".flowgrant.yaml"), nil
}

// writeHostConfig renders the config, checks it loads, and writes it.
func writeHostConfig(cmd *cobra.Command, path string, data templates.HostConfigData) error {
	content, err := templates.RenderHostConfig(data)
	if err != nil {
		return err
	}
	if _, err := system.NewConfigLoader().Parse(content); err != nil {
		return fmt.Errorf("generated config is invalid: %w", err)
	}

	//nolint:gosec // G301: 0o755 is standard for user config directories
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return err
}
