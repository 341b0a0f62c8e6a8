package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusOpts = DefaultCommonOptions()

// statusCmd implements the status command.
var statusCmd = &cobra.Command{
	Use:   "status KEY...",
	Short: "Show what the host already knows about grant keys",
	Long: `Report whether each key is granted, revoked by policy, or still undecided,
without showing a prompt.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
		if err := statusOpts.ValidateFlags(); err != nil {
			return err
		}
		formatter, err := statusOpts.Formatter(cmd)
		if err != nil {
			return err
		}

		statuses, err := ctx.Container.RequestGrantsUseCase().Status(args...)
		if err != nil {
			return err
		}
		if err := formatter.FormatStatus(statuses); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusOpts.RegisterFlags(statusCmd)
}
