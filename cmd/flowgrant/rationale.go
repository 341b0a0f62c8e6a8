package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// rationaleCmd implements the rationale command.
var rationaleCmd = &cobra.Command{
	Use:   "rationale KEY...",
	Short: "Report whether the caller should explain why keys are needed",
	Long: `Print true when every key that is not yet authorized was denied before
without "never", so the caller may explain why it needs the key before
asking again. Always false on platforms without runtime grants.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
		explain, err := ctx.Container.GrantService().ShouldExplainRationale(args...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), explain)
		return err
	}),
}

func init() {
	rootCmd.AddCommand(rationaleCmd)
}
