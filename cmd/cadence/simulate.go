package main

import (
	"github.com/aretw0/cadence/internal/cli"
	"github.com/aretw0/cadence/pkg/runner"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario|dir>...",
	Short: "Replay scenario scripts against the scoring table",
	Long: `Plays YAML or TOML scenario scripts tick by tick on a manual clock and
checks their expectations. Directories are expanded to the scenario files
they contain. With --watch the scenarios are replayed whenever one changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.SimulateOptions{Paths: args, Profile: termenv.EnvColorProfile()}
		opts.Timeline, _ = cmd.Flags().GetBool("timeline")
		opts.Flags, _ = cmd.Flags().GetStringSlice("flags")
		opts.Stride, _ = cmd.Flags().GetInt("stride")
		opts.Changes, _ = cmd.Flags().GetBool("changes")
		opts.Watch, _ = cmd.Flags().GetBool("watch")

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()
		ctx := signals.Context()

		if opts.Watch {
			return cli.HandleExecutionError(cli.RunWatch(ctx, opts, cmd.OutOrStdout(), logger))
		}
		return cli.HandleExecutionError(cli.Simulate(ctx, opts, cmd.OutOrStdout(), logger))
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().BoolP("timeline", "t", false, "Print a flag timeline after each scenario")
	simulateCmd.Flags().StringSlice("flags", nil, "Flags shown in the timeline (default: every flag that was ever true)")
	simulateCmd.Flags().Int("stride", 1, "Show every n-th tick in the timeline")
	simulateCmd.Flags().BoolP("changes", "c", false, "Print every tick that changed a flag")
	simulateCmd.Flags().BoolP("watch", "w", false, "Replay on file changes")
}
