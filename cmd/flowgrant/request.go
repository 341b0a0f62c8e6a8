package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/reglet-dev/flowgrant/internal/application/dto"
	"github.com/reglet-dev/flowgrant/internal/application/ports"
	"github.com/spf13/cobra"
)

// RequestOptions holds the flags of the request command.
type RequestOptions struct {
	CommonOptions

	Mode    string
	Callers int

	// FailDenied makes the command fail when any caller is not authorized.
	FailDenied bool
}

var requestOpts = RequestOptions{
	CommonOptions: DefaultCommonOptions(),
	Mode:          string(dto.ResultModeEach),
	Callers:       1,
}

// requestCmd implements the request command.
var requestCmd = &cobra.Command{
	Use:   "request KEY...",
	Short: "Request one or more grants",
	Long: `Ask whether the given grant keys are authorized, prompting for every key
the host policy has not decided yet. All undecided keys share one prompt.

Result modes:
  --mode each      one result per key, in the order given
  --mode all       a single yes/no: are all keys authorized
  --mode combined  one merged result for all keys

  --callers 3      run three independent callers at once; they share the prompt`,
	Args: cobra.MinimumNArgs(1),
	RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
		if err := requestOpts.ValidateFlags(); err != nil {
			return err
		}
		formatter, err := requestOpts.Formatter(cmd)
		if err != nil {
			return err
		}
		return runRequest(ctx, requestOpts, args, formatter)
	}),
}

func init() {
	rootCmd.AddCommand(requestCmd)

	requestOpts.RegisterFlags(requestCmd)
	requestCmd.Flags().StringVar(&requestOpts.Mode, "mode", requestOpts.Mode, "Result mode: each, all, combined")
	requestCmd.Flags().IntVar(&requestOpts.Callers, "callers", requestOpts.Callers, "Number of concurrent callers")
	requestCmd.Flags().BoolVar(&requestOpts.FailDenied, "fail-denied", false, "Exit non-zero unless every caller is authorized")
}

// ValidateFlags validates the request options.
func (opts *RequestOptions) ValidateFlags() error {
	if err := opts.CommonOptions.ValidateFlags(); err != nil {
		return err
	}
	if opts.Callers < 1 {
		return fmt.Errorf("--callers must be at least 1, got %d", opts.Callers)
	}
	return nil
}

// runRequest implements the core logic for the request command
func runRequest(ctx *CommandContext, opts RequestOptions, keys []string, formatter ports.OutputFormatter) error {
	runCtx, cancel := opts.ApplyToContext(ctx.Context)
	defer cancel()

	resp, err := ctx.Container.RequestGrantsUseCase().Execute(runCtx, dto.GrantRequest{
		Mode:     dto.ResultMode(opts.Mode),
		Keys:     keys,
		Callers:  opts.Callers,
		Metadata: dto.RequestMetadata{RequestID: uuid.NewString()},
	})
	if err != nil {
		return err
	}

	ctx.Logger.Debug("grant request finished",
		"request", resp.Metadata.RequestID,
		"duration", resp.Metadata.Duration,
		"batches", len(resp.Diagnostics.Batches))

	if !opts.Quiet {
		if err := formatter.FormatGrants(resp); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if opts.FailDenied {
		for _, c := range resp.Callers {
			if !c.Authorized {
				return fmt.Errorf("caller %d: grants %v not authorized", c.Caller, keys)
			}
		}
	}
	return nil
}
