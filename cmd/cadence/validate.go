package main

import (
	"fmt"

	"github.com/aretw0/cadence/internal/cli"
	"github.com/aretw0/cadence/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the scoring table for consistency",
	Long: `Builds the scoring table with the configured tuning and runs the static
checks: unregistered flags, unknown or cyclic references, conflicting
writes and exclusive groups that a binding could violate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := cli.BuildTable(cfg.Scoring)
		out := cmd.OutOrStdout()
		if err != nil {
			issues := schema.Issues(err)
			for _, issue := range issues {
				fmt.Fprintf(out, "  %-18s %-24s %s\n", issue.Kind, issue.Subject, issue.Reason)
			}
			return fmt.Errorf("validation failed: %d issue(s)", len(issues))
		}
		s := table.Schema()
		fmt.Fprintf(out, "Table is valid: %d flags, %d named conditions, %d bindings, %d exclusive groups.\n",
			len(s.Flags), len(s.Named), len(s.Bindings), len(s.Groups))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
