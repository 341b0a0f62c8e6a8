package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/reglet-dev/flowgrant/internal/application/ports"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/output"
	"github.com/spf13/cobra"
)

// CommonOptions contains flags shared by commands that print results.
type CommonOptions struct {
	// Output
	Format string

	// Execution
	Timeout time.Duration

	// Flags (bools grouped for alignment)
	NoColor bool
	Quiet   bool
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Timeout: 2 * time.Minute,
		Format:  "table",
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"How long to wait for answers (0 to disable)")
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: table, json, yaml")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false,
		"Disable colored table output")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false,
		"Quiet output (errors only)")
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	// No timeout - return no-op cancel
	return ctx, func() {}
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags() error {
	if opts.Quiet && verbose {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}

	formats := output.NewFormatterFactory().SupportedFormats()
	if !slices.Contains(formats, opts.Format) {
		return fmt.Errorf("invalid format: %s (valid: %v)", opts.Format, formats)
	}
	if opts.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", opts.Timeout)
	}

	return nil
}

// Formatter creates the formatter selected by --format, writing to the
// command's stdout.
func (opts *CommonOptions) Formatter(cmd *cobra.Command) (ports.OutputFormatter, error) {
	return output.NewFormatterFactory().Create(opts.Format, cmd.OutOrStdout(), ports.FormatterOptions{
		Indent:  true,
		NoColor: opts.NoColor,
	})
}
