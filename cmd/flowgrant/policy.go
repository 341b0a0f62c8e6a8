package main

import (
	"fmt"
	"os"

	"github.com/reglet-dev/flowgrant/internal/infrastructure/grantstore"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/system"
	"github.com/spf13/cobra"
)

var (
	policyGranted []string
	policyRevoked []string
	policyForce   bool
)

// policyCmd groups policy file commands.
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage standalone policy files",
}

// policyInitCmd implements the policy init command.
var policyInitCmd = &cobra.Command{
	Use:   "init PATH",
	Short: "Write a policy file listing granted and revoked keys",
	Long: `Write a policy file that a host config can reference with policy.file.

  flowgrant policy init grants.yaml --granted INTERNET --revoked SMS`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPolicyInit(cmd, args[0], system.PolicyConfig{
			Granted: policyGranted,
			Revoked: policyRevoked,
		}, policyForce)
	},
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyInitCmd)

	policyInitCmd.Flags().StringSliceVar(&policyGranted, "granted", nil, "Keys granted without prompting (comma-separated)")
	policyInitCmd.Flags().StringSliceVar(&policyRevoked, "revoked", nil, "Keys revoked by policy (comma-separated)")
	policyInitCmd.Flags().BoolVar(&policyForce, "force", false, "Overwrite an existing file")
}

func runPolicyInit(cmd *cobra.Command, path string, policy system.PolicyConfig, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	// Reuse the host config validation for overlapping keys
	cfg := system.DefaultConfig()
	cfg.Policy.Granted = policy.Granted
	cfg.Policy.Revoked = policy.Revoked
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := grantstore.NewFileStore(path).Save(policy); err != nil {
		return err
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d granted, %d revoked)\n",
		path, len(policy.Granted), len(policy.Revoked))
	return err
}
